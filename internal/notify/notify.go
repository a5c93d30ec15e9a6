// Package notify delivers transient user-visible messages. Mutations report
// failures here; the CLI renders them on the next prompt.
package notify

import (
	"context"
	"sync"

	"github.com/avolkov/pawshare/internal/logging"
)

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// Queue collects messages until a view drains them. Safe for concurrent use.
type Queue struct {
	logger logging.Logger

	mu       sync.Mutex
	messages []string
}

func NewQueue(logger logging.Logger) *Queue {
	return &Queue{logger: logger}
}

func (q *Queue) Notify(ctx context.Context, message string) {
	q.logger.Info(ctx, "notification", "message", message)
	q.mu.Lock()
	q.messages = append(q.messages, message)
	q.mu.Unlock()
}

// Drain returns all pending messages and clears the queue.
func (q *Queue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	messages := q.messages
	q.messages = nil
	return messages
}
