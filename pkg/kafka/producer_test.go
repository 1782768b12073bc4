package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	written []kafka.Message
	err     error
	closed  bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublish_WritesTopicKeyAndHeaders(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w)

	msg := NewMessage().WithKey("listing-1").WithValue(map[string]int{"n": 1}).WithEventType("booking.created").Build()
	msg.Topic = "staybook.bookings"

	if err := p.Publish(context.Background(), msg); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	if len(w.written) != 1 {
		t.Fatalf("expected 1 written message, got %d", len(w.written))
	}
	got := w.written[0]
	if got.Topic != "staybook.bookings" || string(got.Key) != "listing-1" {
		t.Errorf("unexpected topic/key: %s/%s", got.Topic, got.Key)
	}

	found := false
	for _, h := range got.Headers {
		if h.Key == HeaderEventType && string(h.Value) == "booking.created" {
			found = true
		}
	}
	if !found {
		t.Error("event-type header not written")
	}
}

func TestPublish_Validation(t *testing.T) {
	p := NewProducerWithWriter(&fakeWriter{})

	tests := []struct {
		name    string
		msg     Message
		wantErr error
	}{
		{name: "empty key", msg: NewMessage().WithValue("x").Build(), wantErr: ErrEmptyKey},
		{name: "empty value", msg: NewMessage().WithKey("k").Build(), wantErr: ErrEmptyValue},
		{name: "unencodable value", msg: NewMessage().WithKey("k").WithValue(make(chan int)).Build(), wantErr: ErrEncodeValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := p.Publish(context.Background(), tt.msg); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPublish_WrapsWriterError(t *testing.T) {
	writeErr := errors.New("leader not available")
	p := NewProducerWithWriter(&fakeWriter{err: writeErr})

	msg := NewMessage().WithKey("k").WithValue("v").WithEventType("listing.created").Build()
	msg.Topic = "staybook.listings"

	err := p.Publish(context.Background(), msg)

	var pubErr *PublishError
	if !errors.As(err, &pubErr) {
		t.Fatalf("expected *PublishError, got %T", err)
	}
	if pubErr.Topic != "staybook.listings" || pubErr.EventType != "listing.created" {
		t.Errorf("unexpected error context: %+v", pubErr)
	}
	if !errors.Is(err, writeErr) {
		t.Error("expected writer error to be wrapped")
	}
}

func TestPublish_MiddlewareOrderAndClose(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w)

	var order []string
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		order = append(order, "first")
		return next(ctx, msg)
	})
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		order = append(order, "second")
		return next(ctx, msg)
	})

	if err := p.Publish(context.Background(), NewMessage().WithKey("k").WithValue("v").Build()); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("unexpected middleware order: %v", order)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if !w.closed {
		t.Error("writer not closed")
	}
	if err := p.Publish(context.Background(), NewMessage().WithKey("k").WithValue("v").Build()); !errors.Is(err, ErrProducerClosed) {
		t.Errorf("expected ErrProducerClosed, got %v", err)
	}
}
