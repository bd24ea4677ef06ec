package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oshokin/alert-override/internal/domain/alert"
)

// DefaultStreamMaxLen caps the stream length, trimmed approximately.
const DefaultStreamMaxLen = 1000

// StreamSink appends notifications to a Redis stream with XADD.
type StreamSink struct {
	client redis.UniversalClient
	stream string
	maxLen int64
	now    func() time.Time
}

// StreamOption configures a StreamSink.
type StreamOption func(*StreamSink)

// WithMaxLen overrides DefaultStreamMaxLen. Zero disables trimming.
func WithMaxLen(n int64) StreamOption {
	return func(s *StreamSink) {
		s.maxLen = n
	}
}

// WithClock overrides the time source used for the posted_at field.
func WithClock(now func() time.Time) StreamOption {
	return func(s *StreamSink) {
		s.now = now
	}
}

// NewStreamSink creates a sink writing to stream through client.
func NewStreamSink(client redis.UniversalClient, stream string, opts ...StreamOption) *StreamSink {
	s := &StreamSink{
		client: client,
		stream: stream,
		maxLen: DefaultStreamMaxLen,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Post appends one entry and returns a wrapped alert.ErrDevice on failure.
func (s *StreamSink) Post(ctx context.Context, n alert.Notification) error {
	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"event_id":  n.EventID,
			"title":     n.Title,
			"body":      n.Body,
			"priority":  string(n.Priority),
			"category":  string(n.Category),
			"posted_at": strconv.FormatInt(s.now().UnixMilli(), 10),
		},
	}

	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("%w: xadd %s: %w", alert.ErrDevice, s.stream, err)
	}

	return nil
}
