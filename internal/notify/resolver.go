package notify

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/bookdb/internal/contract"
)

// Change is one notification that data reachable from URI may have changed.
type Change struct {
	ID  string    `json:"id"`
	URI string    `json:"uri"`
	At  time.Time `json:"at"`
}

// Observer receives changes for the address it was registered on.
type Observer interface {
	OnChange(Change)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Change)

func (f ObserverFunc) OnChange(c Change) { f(c) }

// DeliverFunc runs every matching observer for a change and returns how
// many ran.
type DeliverFunc func(Change) int

// Dispatcher decides when and where observers run.
type Dispatcher interface {
	Dispatch(ctx context.Context, c Change) error
}

type registration struct {
	uri         string
	descendants bool
	observer    Observer
}

// Resolver keeps the observer registrations and routes changes to them.
type Resolver struct {
	mu         sync.RWMutex
	observers  map[uint64]registration
	nextID     uint64
	dispatcher Dispatcher
}

// NewResolver creates a resolver that delivers inline until SetDispatcher
// is called.
func NewResolver() *Resolver {
	r := &Resolver{observers: make(map[uint64]registration)}
	r.dispatcher = NewInline(r.Deliver)
	return r
}

// SetDispatcher replaces the dispatcher. A nil dispatcher restores inline
// delivery.
func (r *Resolver) SetDispatcher(d Dispatcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d == nil {
		d = NewInline(r.Deliver)
	}
	r.dispatcher = d
}

// RegisterObserver subscribes o to changes on uri. With descendants set,
// changes on addresses below uri are delivered too.
func (r *Resolver) RegisterObserver(uri string, descendants bool, o Observer) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.observers[id] = registration{
		uri:         normalize(uri),
		descendants: descendants,
		observer:    o,
	}
	return &Subscription{resolver: r, id: id}
}

// Observers returns the number of active registrations.
func (r *Resolver) Observers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.observers)
}

// NotifyChange announces that data at uri changed. Dispatch errors are
// logged and never returned, the write that caused the change has already
// succeeded.
func (r *Resolver) NotifyChange(ctx context.Context, uri string) {
	c := Change{
		ID:  uuid.NewString(),
		URI: normalize(uri),
		At:  time.Now().UTC(),
	}

	r.mu.RLock()
	d := r.dispatcher
	r.mu.RUnlock()

	if err := d.Dispatch(ctx, c); err != nil {
		log.Printf("[NOTIFY] Failed to dispatch change %s for %s: %v", c.ID, c.URI, err)
	}
}

// Deliver calls every observer matching c and returns how many were called.
func (r *Resolver) Deliver(c Change) int {
	r.mu.RLock()
	targets := make([]Observer, 0, len(r.observers))
	for _, reg := range r.observers {
		if reg.matches(c.URI) {
			targets = append(targets, reg.observer)
		}
	}
	r.mu.RUnlock()

	for _, o := range targets {
		safeCall(o, c)
	}
	return len(targets)
}

func (r *Resolver) unregister(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.observers, id)
}

func (reg registration) matches(changed string) bool {
	if reg.uri == changed {
		return true
	}
	if contract.IsDescendant(reg.uri, changed) {
		return true
	}
	return reg.descendants && contract.IsDescendant(changed, reg.uri)
}

func safeCall(o Observer, c Change) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[NOTIFY] Observer panicked on %s: %v", c.URI, rec)
		}
	}()
	o.OnChange(c)
}

func normalize(uri string) string {
	return strings.TrimSuffix(uri, "/")
}

// Subscription is the handle returned by RegisterObserver.
type Subscription struct {
	resolver *Resolver
	id       uint64
	once     sync.Once
}

// Cancel stops delivery to the observer. It is safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.resolver.unregister(s.id)
	})
}
