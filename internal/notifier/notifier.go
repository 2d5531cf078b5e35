// Package notifier delivers run summaries to operators.
package notifier

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Notifier delivers a text message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// WriterNotifier writes messages to an io.Writer such as stdout.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, err := io.WriteString(n.w, text); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff starting at base.
func SendWithRetry(ctx context.Context, n Notifier, text string, maxRetries int, base time.Duration, log zerolog.Logger) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := n.Send(ctx, text)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		backoff := base << uint(i)
		log.Warn().Err(err).Int("attempt", i+1).Dur("backoff", backoff).Msg("notify failed, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("notify failed after %d attempts: %w", maxRetries+1, lastErr)
}
