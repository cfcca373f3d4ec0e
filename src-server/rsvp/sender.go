package rsvp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sender dispatches one assembled payload to the intake sink.
type Sender interface {
	Send(ctx context.Context, payload url.Values) error
}

// IntakeSender posts payloads to the configured intake endpoint. The sink is
// fire-and-forget: a dispatch that produces no transport error counts as
// success and the response status/body is never inspected.
type IntakeSender struct {
	URL    string
	Client *http.Client

	// optional dispatch latency sink, fed to the metrics collector
	Latency chan float64
}

func NewIntakeSender(intakeURL string, latency chan float64) *IntakeSender {
	return &IntakeSender{
		URL:     intakeURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
		Latency: latency,
	}
}

func (s *IntakeSender) Send(ctx context.Context, payload url.Values) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.URL,
		strings.NewReader(payload.Encode()),
	)
	if err != nil {
		return fmt.Errorf("(*IntakeSender).Send: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("(*IntakeSender).Send: %w", err)
	}
	// drain so the connection can be reused; the content is irrelevant
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		slog.Warn("can't drain intake response body", "error", err)
	}
	if err := resp.Body.Close(); err != nil {
		slog.Warn("can't close intake response body", "error", err)
	}

	if s.Latency != nil {
		select {
		case s.Latency <- float64(time.Since(start).Microseconds()):
		default:
		}
	}

	return nil
}
