package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/playpals/studio/internal/apply"
	"github.com/playpals/studio/internal/logger"
)

// LogTransport writes each submission to the log and keeps nothing else.
type LogTransport struct {
	mu        sync.Mutex
	closed    bool
	delivered int
}

// NewLogTransport returns a ready LogTransport.
func NewLogTransport() *LogTransport {
	return &LogTransport{}
}

// Deliver logs sub as JSON.
func (t *LogTransport) Deliver(ctx context.Context, sub apply.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}

	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encoding submission: %w", err)
	}
	logger.Info("Submission %s (%s): %s", sub.ID, sub.Form, data)
	t.delivered++
	return nil
}

// Delivered returns how many submissions were logged.
func (t *LogTransport) Delivered() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.delivered
}

// Close stops further deliveries.
func (t *LogTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}
