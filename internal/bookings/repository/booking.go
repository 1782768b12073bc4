package repository

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "staybook/internal/bookings/errors"
	"staybook/pkg/config"
	mongotx "staybook/pkg/db/mongo"
	"staybook/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"

	streamBatchSize = 500
)

type Cursor interface {
	Next(ctx context.Context) bool
	Decode(v any) error
	Err() error
	Close(ctx context.Context) error
}

type BookingRepository interface {
	// Create assigns booking.ID before writing, so the id is known even when
	// the write fails with an unknown outcome.
	Create(ctx context.Context, booking *model.Booking) error
	// Delete removes the booking if present and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByGuest(ctx context.Context, guestID string, limit int, offset int64) ([]*model.Booking, error)
	CountByGuest(ctx context.Context, guestID string) (int64, error)
	// StreamAll yields every booking grouped by listing, in check-in order.
	StreamAll(ctx context.Context) (Cursor, error)
}

// bookingDocument is the stored shape; _id is an ObjectID while the model
// carries its hex form.
type bookingDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	ListingID  string             `bson:"listing_id"`
	GuestID    string             `bson:"guest_id"`
	CheckIn    time.Time          `bson:"check_in"`
	CheckOut   time.Time          `bson:"check_out"`
	GuestCount int                `bson:"guest_count"`
	TotalPrice int64              `bson:"total_price"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func newBookingDocument(id primitive.ObjectID, b *model.Booking) bookingDocument {
	return bookingDocument{
		ID:         id,
		ListingID:  b.ListingID,
		GuestID:    b.GuestID,
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		GuestCount: b.GuestCount,
		TotalPrice: b.TotalPrice,
		CreatedAt:  b.CreatedAt,
	}
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid := primitive.NewObjectID()
	booking.ID = oid.Hex()
	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.collection.InsertOne(ctx, newBookingDocument(oid, booking)); err != nil {
		return fmt.Errorf("failed to create booking %s: %w", booking.ID, err)
	}
	return nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return false, fmt.Errorf("failed to delete booking %s: %w", id, err)
	}
	return result.DeletedCount > 0, nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) FindByGuest(ctx context.Context, guestID string, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "check_in", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"guest_id": guestID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) CountByGuest(ctx context.Context, guestID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"guest_id": guestID})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) StreamAll(ctx context.Context) (Cursor, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "listing_id", Value: 1}, {Key: "check_in", Value: 1}}).
		SetProjection(bson.M{"listing_id": 1, "check_in": 1, "check_out": 1}).
		SetBatchSize(streamBatchSize)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to stream bookings: %w", err)
	}
	return cursor, nil
}
