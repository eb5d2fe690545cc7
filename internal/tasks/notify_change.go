package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookdb/internal/notify"
)

// NotifyChangeTask carries one change notification through the queue.
type NotifyChangeTask struct {
	ChangeID string    `json:"change_id"`
	URI      string    `json:"uri"`
	At       time.Time `json:"at"`
}

// Config returns the queue configuration for change notifications.
func (t NotifyChangeTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "notify_change",
		MaxAttempts: 1,
		Backoff:     time.Second,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   time.Hour,
			OnlyFailed: true,
		},
	}
}

func (t NotifyChangeTask) change() notify.Change {
	return notify.Change{ID: t.ChangeID, URI: t.URI, At: t.At}
}

// NotifyChangeProcessor creates a processor that hands queued changes to
// deliver, normally Resolver.Deliver.
func NotifyChangeProcessor(deliver notify.DeliverFunc) backlite.QueueProcessor[NotifyChangeTask] {
	return func(ctx context.Context, task NotifyChangeTask) error {
		if deliver == nil {
			return fmt.Errorf("change delivery not configured")
		}
		deliver(task.change())
		return nil
	}
}

// NewNotifyChangeQueue creates a backlite queue for change notifications.
func NewNotifyChangeQueue(deliver notify.DeliverFunc) backlite.Queue {
	return backlite.NewQueue(NotifyChangeProcessor(deliver))
}

// NotifyDispatcher is a notify.Dispatcher that persists every change in the
// task queue. Observers run on the queue workers, after the write returned.
type NotifyDispatcher struct {
	client *Client
}

func NewNotifyDispatcher(client *Client) *NotifyDispatcher {
	return &NotifyDispatcher{client: client}
}

// Dispatch enqueues c.
func (d *NotifyDispatcher) Dispatch(_ context.Context, c notify.Change) error {
	_, err := d.client.Add(NotifyChangeTask{ChangeID: c.ID, URI: c.URI, At: c.At}).Save()
	if err != nil {
		return fmt.Errorf("enqueue change %s: %w", c.ID, err)
	}
	log.Printf("[TASK] Queued change %s for %s", c.ID, c.URI)
	return nil
}
