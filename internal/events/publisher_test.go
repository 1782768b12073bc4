package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"staybook/pkg/kafka"
	"staybook/pkg/model"
)

type recordingProducer struct {
	messages []kafka.Message
	err      error
}

func (r *recordingProducer) Publish(_ context.Context, msg kafka.Message) error {
	r.messages = append(r.messages, msg)
	return r.err
}

func TestBookingCreated_MessageShape(t *testing.T) {
	producer := &recordingProducer{}
	pub := NewKafkaPublisher(producer, Topics{Bookings: "bookings", Listings: "listings"}, "reservations")

	booking := &model.Booking{
		ID:         "b1",
		ListingID:  "l1",
		GuestID:    "guest-1",
		CheckIn:    time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC),
		GuestCount: 2,
		TotalPrice: 300,
	}

	ctx := kafka.WithCorrelationID(context.Background(), "req-123")
	if err := pub.BookingCreated(ctx, booking); err != nil {
		t.Fatalf("BookingCreated() error: %v", err)
	}

	if len(producer.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(producer.messages))
	}
	msg := producer.messages[0]

	if msg.Topic != "bookings" {
		t.Errorf("topic = %q, want bookings", msg.Topic)
	}
	if msg.Key != "l1" {
		t.Errorf("key = %q, want listing id", msg.Key)
	}
	if msg.GetEventType() != TypeBookingCreated {
		t.Errorf("event type = %q", msg.GetEventType())
	}
	if msg.GetCorrelationID() != "req-123" {
		t.Errorf("correlation id = %q", msg.GetCorrelationID())
	}
	if msg.GetEventID() == "" {
		t.Error("expected generated event id")
	}

	var payload BookingCreatedEvent
	if err := msg.DecodeValue(&payload); err != nil {
		t.Fatalf("DecodeValue() error: %v", err)
	}
	if payload.CheckIn != "2025-03-10" || payload.CheckOut != "2025-03-13" {
		t.Errorf("unexpected dates: %s..%s", payload.CheckIn, payload.CheckOut)
	}
	if payload.TotalPrice != 300 {
		t.Errorf("total price = %d, want 300", payload.TotalPrice)
	}
}

func TestListingCreated_PropagatesError(t *testing.T) {
	wantErr := errors.New("broker down")
	producer := &recordingProducer{err: wantErr}
	pub := NewKafkaPublisher(producer, Topics{Listings: "listings"}, "reservations")

	err := pub.ListingCreated(context.Background(), &model.Listing{ID: "l1", City: "Lisbon"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
	if producer.messages[0].Topic != "listings" {
		t.Errorf("topic = %q", producer.messages[0].Topic)
	}
}

func TestNoop(t *testing.T) {
	var pub Publisher = Noop{}
	if err := pub.BookingCreated(context.Background(), &model.Booking{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
