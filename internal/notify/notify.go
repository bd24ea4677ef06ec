// Package notify delivers alert notifications to the host.
//
// LogSink writes them to the engine log. StreamSink appends them to a Redis
// stream so that a UI process can render them. Fanout posts to several sinks.
package notify

import (
	"context"
	"errors"

	"github.com/oshokin/alert-override/internal/domain/alert"
	"github.com/oshokin/alert-override/internal/logger"
)

// Sink is one notification destination.
type Sink interface {
	Post(ctx context.Context, notification alert.Notification) error
}

// LogSink writes notifications to the context logger.
type LogSink struct{}

// NewLogSink creates a log sink.
func NewLogSink() *LogSink {
	return &LogSink{}
}

// Post logs the notification at info level. It never fails.
func (*LogSink) Post(ctx context.Context, n alert.Notification) error {
	logger.InfoKV(ctx, n.Title,
		"body", n.Body,
		"priority", n.Priority,
		"category", n.Category,
	)

	return nil
}

// Fanout posts to every sink in order and joins their errors.
type Fanout []Sink

// Post delivers to all sinks even when some fail.
func (f Fanout) Post(ctx context.Context, n alert.Notification) error {
	var errs []error

	for _, sink := range f {
		if err := sink.Post(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
