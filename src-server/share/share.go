package share

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Returned by a Sharer that isn't available in the current environment.
var ErrUnsupported = errors.New("share: not supported")

// Sharer is the native share sheet, when the platform has one.
type Sharer interface {
	Share(ctx context.Context, title string, text string, link string) error
}

// Clipboard is the fallback capability.
type Clipboard interface {
	Copy(text string) error
}

// Service tries the native sharer first and silently falls back to copying
// the composed text+link to the clipboard. Capability absence is never an
// error; only a broken clipboard is.
type Service struct {
	Native    Sharer
	Clipboard Clipboard

	// Notify tells the user the fallback happened ("link copied")
	Notify func(message string)
}

// Compose builds the shareable string for one event.
func Compose(text string, link string) string {
	if text == "" {
		return link
	}
	return text + "\n" + link
}

// MemoryClipboard keeps the last copied text so the web client can read it
// back out of the share response. Copy never fails.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

func (c *MemoryClipboard) Copy(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return nil
}

func (c *MemoryClipboard) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Share returns whether the clipboard fallback was used.
func (s *Service) Share(ctx context.Context, title string, text string, link string) (bool, error) {
	if s.Native != nil {
		err := s.Native.Share(ctx, title, text, link)
		switch {
		case err == nil:
			return false, nil
		case errors.Is(err, ErrUnsupported):
			// fall through to the clipboard
		default:
			slog.Warn("native share failed, falling back to clipboard", "error", err)
		}
	}

	if s.Clipboard == nil {
		return false, fmt.Errorf("(*Service).Share: no share capability available")
	}
	if err := s.Clipboard.Copy(Compose(text, link)); err != nil {
		return false, fmt.Errorf("(*Service).Share: %w", err)
	}
	if s.Notify != nil {
		s.Notify("copied")
	}
	return true, nil
}
