// Package notify publishes listings the first time a search surfaces them.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/visajobs/internal/domain"
	"github.com/samvad-hq/visajobs/internal/logger"
	"github.com/samvad-hq/visajobs/internal/storage"
	"github.com/samvad-hq/visajobs/pkg/publishers"
)

// EventPublisher delivers events and reports how many destinations accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Notifier announces unseen listings through the configured publishers.
type Notifier struct {
	store storage.Store
	pub   EventPublisher
	now   func() time.Time
	log   logger.Logger
}

// New builds a Notifier. A nil store announces every listing on every call.
func New(store storage.Store, pub EventPublisher, now func() time.Time, log logger.Logger) *Notifier {
	if now == nil {
		now = time.Now
	}
	return &Notifier{store: store, pub: pub, now: now, log: logger.Ensure(log)}
}

// Notify publishes each listing not yet recorded in the store. A listing is
// marked as seen once at least one publisher accepted it, so a total outage
// retries it on the next search.
func (n *Notifier) Notify(ctx context.Context, jobs []domain.Job) error {
	if n == nil || n.pub == nil {
		return nil
	}

	var (
		errs      []error
		published int
		skipped   int
	)
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		key := job.Key()
		if n.store != nil {
			seen, err := n.store.Seen(key)
			if err != nil {
				errs = append(errs, fmt.Errorf("check listing %s: %w", key, err))
				continue
			}
			if seen {
				skipped++
				continue
			}
		}

		delivered, err := n.pub.Publish(ctx, publishers.NewEvent(job, n.now()))
		if err != nil {
			errs = append(errs, fmt.Errorf("publish listing %q: %w", job.Title, err))
		}
		if delivered == 0 {
			continue
		}
		published++

		if n.store != nil {
			if err := n.store.Mark(key); err != nil {
				errs = append(errs, fmt.Errorf("mark listing %s: %w", key, err))
			}
		}
	}

	n.log.InfoObj("listing notifications sent", "notify_result", map[string]any{
		"listings":  len(jobs),
		"published": published,
		"skipped":   skipped,
		"errors":    len(errs),
	})
	return errors.Join(errs...)
}
