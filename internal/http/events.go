package http

import (
	"io"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookdb/internal/contract"
	"github.com/mrlokans/bookdb/internal/notify"
)

const (
	eventBufferSize  = 32
	defaultHeartbeat = 30 * time.Second
)

// EventsController streams change notifications as server-sent events.
type EventsController struct {
	resolver  *notify.Resolver
	contract  contract.Contract
	heartbeat time.Duration
}

func NewEventsController(resolver *notify.Resolver, c contract.Contract) *EventsController {
	return &EventsController{
		resolver:  resolver,
		contract:  c,
		heartbeat: defaultHeartbeat,
	}
}

// Stream handles GET /api/events and GET /api/books/:id/events.
// The first event is "ready" once the subscription is in place; after that
// every change below the watched address is sent as a "change" event.
func (ec *EventsController) Stream(c *gin.Context) {
	uri := ec.contract.CollectionURI()
	if c.Param("id") != "" {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		uri = ec.contract.ItemURI(id)
	}

	changes := make(chan notify.Change, eventBufferSize)
	sub := ec.resolver.RegisterObserver(uri, true, notify.ObserverFunc(func(change notify.Change) {
		select {
		case changes <- change:
		default:
			log.Printf("[EVENTS] Dropped change %s for slow client", change.ID)
		}
	}))
	defer sub.Cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("ready", gin.H{"uri": uri})
	c.Writer.Flush()

	heartbeat := time.NewTicker(ec.heartbeat)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case change := <-changes:
			c.SSEvent("change", change)
			return true
		case t := <-heartbeat.C:
			c.SSEvent("ping", t.UTC().Format(time.RFC3339))
			return true
		}
	})
}
