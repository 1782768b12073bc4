package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"staybook/internal/availability"
	bookingserrors "staybook/internal/bookings/errors"
	"staybook/internal/bookings/repository"
	"staybook/internal/bookings/validator"
	"staybook/internal/events"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
	"staybook/pkg/validation"
	"time"

	"golang.org/x/sync/errgroup"
)

type BookingService interface {
	Create(ctx context.Context, guestID string, req *model.BookingCreate) (*model.Booking, error)
	GetByID(ctx context.Context, guestID, id string) (*model.BookingView, error)
	ListByGuest(ctx context.Context, guestID string, limit int, offset int64) ([]model.BookingView, int64, error)
	WarmIndex(ctx context.Context) (int, error)
}

// ListingCatalog is the read side of the listing catalog.
type ListingCatalog interface {
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	GetSummaries(ctx context.Context, ids []string) (map[string]model.ListingSummary, error)
}

type AvailabilityIndex interface {
	Reserve(listingID string, r model.DateRange) error
	Release(listingID string, r model.DateRange) bool
	Load(listingID string, ranges []model.DateRange) []model.DateRange
}

type bookingService struct {
	repo      repository.BookingRepository
	listings  ListingCatalog
	index     AvailabilityIndex
	validator *validator.BookingValidator
	events    events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	listings ListingCatalog,
	index AvailabilityIndex,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		listings:  listings,
		index:     index,
		validator: validator,
		events:    publisher,
		cfg:       cfg,
	}
}

// Create reserves the stay in the index before anything is persisted. The
// index is the only arbiter of overlap: whoever reserves first wins, and a
// reservation that cannot be persisted is released before returning.
func (s *bookingService) Create(ctx context.Context, guestID string, req *model.BookingCreate) (*model.Booking, error) {
	if guestID == "" {
		return nil, apperrors.Unauthorized("A guest identity is required to book")
	}

	stay, err := s.validator.Validate(req)
	if err != nil {
		var ve validation.ValidationErrors
		if errors.As(err, &ve) {
			s.cfg.Log.Warn("Booking validation failed",
				"guest_id", guestID,
				"listing_id", req.ListingID,
				"error", err,
			)
			return nil, apperrors.Validation("Booking validation failed", ve.Details())
		}
		return nil, apperrors.Internal("Failed to validate booking", err)
	}

	listing, err := s.listings.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}

	if !listing.AcceptsGuests(req.GuestCount) {
		return nil, apperrors.Validation("Booking validation failed", map[string]any{
			"guest_count": fmt.Sprintf("listing accepts at most %d guests", listing.MaxGuests),
		})
	}

	total, ok := stayPrice(stay.Nights(), listing.PricePerNight)
	if !ok {
		s.cfg.Log.Error("Stay price out of range",
			"listing_id", listing.ID,
			"price_per_night", listing.PricePerNight,
			"nights", stay.Nights(),
		)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{
			"total_price": "exceeds the maximum bookable amount",
		})
	}

	if err := s.index.Reserve(listing.ID, stay); err != nil {
		var conflict *availability.ConflictError
		if errors.As(err, &conflict) {
			s.cfg.Log.Info("Booking rejected, dates unavailable",
				"guest_id", guestID,
				"listing_id", listing.ID,
				"requested", stay.String(),
				"existing", conflict.Existing.String(),
			)
			return nil, apperrors.BookingConflict("Selected dates are no longer available", map[string]any{
				"listing_id":            listing.ID,
				"conflicting_check_in":  conflict.Existing.CheckIn.Format(model.DateLayout),
				"conflicting_check_out": conflict.Existing.CheckOut.Format(model.DateLayout),
			})
		}
		return nil, apperrors.Internal("Failed to reserve dates", err)
	}

	booking := &model.Booking{
		ListingID:  listing.ID,
		GuestID:    guestID,
		CheckIn:    stay.CheckIn,
		CheckOut:   stay.CheckOut,
		GuestCount: req.GuestCount,
		TotalPrice: total,
	}

	if err := s.persist(ctx, booking); err != nil {
		if !s.discard(ctx, booking) {
			s.cfg.Log.Error("Booking write outcome unknown, dates stay reserved",
				"id", booking.ID,
				"guest_id", guestID,
				"listing_id", listing.ID,
				"range", stay.String(),
				"error", err,
			)
			return nil, apperrors.Internal("Could not confirm the booking, please check your bookings before retrying", err)
		}
		released := s.index.Release(listing.ID, stay)
		s.cfg.Log.Error("Failed to persist booking, reservation released",
			"guest_id", guestID,
			"listing_id", listing.ID,
			"range", stay.String(),
			"released", released,
			"error", err,
		)
		return nil, apperrors.Internal("Could not save the booking, please try again later", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"guest_id", guestID,
		"listing_id", listing.ID,
		"range", stay.String(),
		"nights", stay.Nights(),
		"total_price", booking.TotalPrice,
	)

	if err := s.events.BookingCreated(context.WithoutCancel(ctx), booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking.created event",
			"id", booking.ID,
			"error", err,
		)
	}

	return booking, nil
}

// persist runs detached from the caller so that a client disconnect cannot
// leave the outcome undecided; WriteTimeout still bounds it.
func (s *bookingService) persist(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.WriteTimeout)
	defer cancel()
	return s.repo.Create(ctx, booking)
}

// discard makes sure a failed write left nothing behind. A write that errors
// may still have been applied, so the range can only be released once the
// document is confirmed absent.
func (s *bookingService) discard(ctx context.Context, booking *model.Booking) bool {
	if booking.ID == "" {
		return true
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.WriteTimeout)
	defer cancel()

	deleted, err := s.repo.Delete(ctx, booking.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to remove booking after a failed write",
			"id", booking.ID,
			"error", err,
		)
		return false
	}
	if deleted {
		s.cfg.Log.Warn("Removed booking written by a failed request", "id", booking.ID)
	}
	return true
}

// stayPrice multiplies without wrapping; ok is false on overflow.
func stayPrice(nights int, pricePerNight int64) (int64, bool) {
	if nights <= 0 || pricePerNight <= 0 {
		return 0, false
	}
	if pricePerNight > math.MaxInt64/int64(nights) {
		return 0, false
	}
	return int64(nights) * pricePerNight, true
}

func (s *bookingService) GetByID(ctx context.Context, guestID, id string) (*model.BookingView, error) {
	if guestID == "" {
		return nil, apperrors.Unauthorized("A guest identity is required")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) || errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to get booking by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	if booking.GuestID != guestID {
		return nil, apperrors.NotFoundWithID("Booking", id)
	}

	views := s.withListings(ctx, []*model.Booking{booking})
	return &views[0], nil
}

func (s *bookingService) ListByGuest(ctx context.Context, guestID string, limit int, offset int64) ([]model.BookingView, int64, error) {
	if guestID == "" {
		return nil, 0, apperrors.Unauthorized("A guest identity is required")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		bookings []*model.Booking
		total    int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bookings, err = s.repo.FindByGuest(gctx, guestID, limit, offset)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.CountByGuest(gctx, guestID)
		return err
	})

	if err := g.Wait(); err != nil {
		s.cfg.Log.Error("Failed to list bookings",
			"guest_id", guestID,
			"error", err,
		)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return s.withListings(ctx, bookings), total, nil
}

// withListings attaches listing summaries. A catalog failure degrades to
// bookings without summaries rather than failing the read.
func (s *bookingService) withListings(ctx context.Context, bookings []*model.Booking) []model.BookingView {
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ListingID)
	}

	summaries, err := s.listings.GetSummaries(ctx, ids)
	if err != nil {
		s.cfg.Log.Warn("Returning bookings without listing summaries", "error", err)
	}

	views := make([]model.BookingView, 0, len(bookings))
	for _, b := range bookings {
		view := model.BookingView{Booking: b}
		if summary, ok := summaries[b.ListingID]; ok {
			view.Listing = &summary
		}
		views = append(views, view)
	}
	return views
}

// WarmIndex loads every persisted booking into the availability index. It
// must finish before the service accepts traffic.
func (s *bookingService) WarmIndex(ctx context.Context) (int, error) {
	start := time.Now()

	cursor, err := s.repo.StreamAll(ctx)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var (
		loaded   int
		listings int
		current  string
		batch    []model.DateRange
	)

	flush := func() {
		if current == "" || len(batch) == 0 {
			return
		}
		rejected := s.index.Load(current, batch)
		for _, r := range rejected {
			s.cfg.Log.Error("Persisted booking overlaps another, not indexed",
				"listing_id", current,
				"range", r.String(),
			)
		}
		loaded += len(batch) - len(rejected)
		listings++
		batch = batch[:0]
	}

	for cursor.Next(ctx) {
		var b model.Booking
		if err := cursor.Decode(&b); err != nil {
			return loaded, fmt.Errorf("failed to decode booking: %w", err)
		}
		if b.ListingID != current {
			flush()
			current = b.ListingID
		}
		batch = append(batch, b.Range())
	}
	if err := cursor.Err(); err != nil {
		return loaded, fmt.Errorf("failed to stream bookings: %w", err)
	}
	flush()

	s.cfg.Log.Info("Availability index warmed",
		"bookings", loaded,
		"listings", listings,
		"duration", time.Since(start),
	)
	return loaded, nil
}
