package events

import (
	"context"
	"time"

	"staybook/pkg/kafka"
	"staybook/pkg/model"
)

const (
	TypeBookingCreated = "booking.created"
	TypeListingCreated = "listing.created"

	schemaVersion = "1"
)

// Publisher announces committed state changes. Callers treat a publish
// error as advisory: the write it describes has already happened.
type Publisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking) error
	ListingCreated(ctx context.Context, listing *model.Listing) error
}

type Topics struct {
	Bookings string
	Listings string
}

type BookingCreatedEvent struct {
	BookingID  string    `json:"booking_id"`
	ListingID  string    `json:"listing_id"`
	GuestID    string    `json:"guest_id"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	GuestCount int       `json:"guest_count"`
	TotalPrice int64     `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

type ListingCreatedEvent struct {
	ListingID     string    `json:"listing_id"`
	HostID        string    `json:"host_id"`
	City          string    `json:"city"`
	PricePerNight int64     `json:"price_per_night"`
	CreatedAt     time.Time `json:"created_at"`
}

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type kafkaPublisher struct {
	producer messagePublisher
	topics   Topics
	source   string
}

func NewKafkaPublisher(producer messagePublisher, topics Topics, source string) Publisher {
	return &kafkaPublisher{
		producer: producer,
		topics:   topics,
		source:   source,
	}
}

func (p *kafkaPublisher) BookingCreated(ctx context.Context, b *model.Booking) error {
	r := b.Range()
	msg := p.message(ctx, TypeBookingCreated, p.topics.Bookings, b.ListingID, BookingCreatedEvent{
		BookingID:  b.ID,
		ListingID:  b.ListingID,
		GuestID:    b.GuestID,
		CheckIn:    r.CheckIn.Format(model.DateLayout),
		CheckOut:   r.CheckOut.Format(model.DateLayout),
		GuestCount: b.GuestCount,
		TotalPrice: b.TotalPrice,
		CreatedAt:  b.CreatedAt,
	})
	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) ListingCreated(ctx context.Context, l *model.Listing) error {
	msg := p.message(ctx, TypeListingCreated, p.topics.Listings, l.ID, ListingCreatedEvent{
		ListingID:     l.ID,
		HostID:        l.HostID,
		City:          l.City,
		PricePerNight: l.PricePerNight,
		CreatedAt:     l.CreatedAt,
	})
	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) message(ctx context.Context, eventType, topic, key string, payload any) kafka.Message {
	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSchemaVersion(schemaVersion).
		WithSource(p.source).
		WithCorrelationID(kafka.CorrelationIDFromContext(ctx)).
		Build()
	msg.Topic = topic
	return msg
}

// Noop is used when EVENTS_ENABLED is false.
type Noop struct{}

func (Noop) BookingCreated(context.Context, *model.Booking) error { return nil }
func (Noop) ListingCreated(context.Context, *model.Listing) error { return nil }
