package service

import (
	"context"
	"errors"
	"staybook/internal/events"
	listingserrors "staybook/internal/listings/errors"
	"staybook/internal/listings/repository"
	"staybook/internal/listings/validator"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
	"staybook/pkg/validation"
	"strings"
)

type ListingService interface {
	Create(ctx context.Context, hostID string, req *model.ListingCreate) (*model.Listing, error)
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	// GetSummaries resolves many listings at once; unknown ids are omitted.
	GetSummaries(ctx context.Context, ids []string) (map[string]model.ListingSummary, error)
	Close()
}

type listingService struct {
	repo      repository.ListingRepository
	validator *validator.ListingValidator
	events    events.Publisher
	cache     *listingCache
	cfg       *config.Config
}

func NewListingService(
	repo repository.ListingRepository,
	validator *validator.ListingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ListingService {
	return &listingService{
		repo:      repo,
		validator: validator,
		events:    publisher,
		cache:     newListingCache(cfg.ListingCacheSize, cfg.ListingCacheTTL),
		cfg:       cfg,
	}
}

func (s *listingService) Create(ctx context.Context, hostID string, req *model.ListingCreate) (*model.Listing, error) {
	if hostID == "" {
		return nil, apperrors.Unauthorized("A host identity is required to create a listing")
	}

	s.sanitize(req)

	if err := s.validator.Validate(req); err != nil {
		var ve validation.ValidationErrors
		if errors.As(err, &ve) {
			s.cfg.Log.Warn("Listing validation failed",
				"host_id", hostID,
				"title", req.Title,
				"error", err,
			)
			return nil, apperrors.Validation("Listing validation failed", ve.Details())
		}
		return nil, apperrors.Internal("Failed to validate listing", err)
	}

	listing := &model.Listing{
		HostID:        hostID,
		Title:         req.Title,
		Description:   req.Description,
		City:          req.City,
		CityKey:       sanitizer.CityKey(req.City),
		PricePerNight: req.PricePerNight,
		MaxGuests:     req.MaxGuests,
		PhotoURLs:     req.PhotoURLs,
	}
	if listing.PhotoURLs == nil {
		listing.PhotoURLs = []string{}
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		s.cfg.Log.Error("Failed to create listing",
			"host_id", hostID,
			"title", listing.Title,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create listing, try again later", err)
	}

	s.cache.put(listing)

	s.cfg.Log.Info("Listing created successfully",
		"id", listing.ID,
		"host_id", hostID,
		"city", listing.City,
		"price_per_night", listing.PricePerNight,
	)

	if err := s.events.ListingCreated(context.WithoutCancel(ctx), listing); err != nil {
		s.cfg.Log.Warn("Failed to publish listing.created event",
			"id", listing.ID,
			"error", err,
		)
	}

	return listing, nil
}

func (s *listingService) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Listing ID cannot be empty")
	}

	listing, err := s.cache.get(ctx, id, s.repo.FindByID)
	if err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) || errors.Is(err, listingserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Listing", id)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.Timeout("Listing lookup timed out")
		}
		s.cfg.Log.Error("Failed to get listing by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve listing", err)
	}

	return listing, nil
}

func (s *listingService) GetSummaries(ctx context.Context, ids []string) (map[string]model.ListingSummary, error) {
	out := make(map[string]model.ListingSummary, len(ids))
	var missing []string

	for _, id := range ids {
		if _, done := out[id]; done {
			continue
		}
		if listing, ok := s.cache.peek(id); ok {
			out[id] = listing.Summary()
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return out, nil
	}

	found, err := s.repo.FindByIDs(ctx, missing)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve listing summaries",
			"count", len(missing),
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve listings", err)
	}

	for id, listing := range found {
		s.cache.put(listing)
		out[id] = listing.Summary()
	}
	return out, nil
}

func (s *listingService) Close() {
	s.cache.stop()
}

func (s *listingService) sanitize(req *model.ListingCreate) {
	req.Title = sanitizer.NormalizeTitle(req.Title)
	req.Description = sanitizer.NormalizeDescription(req.Description)
	req.City = sanitizer.NormalizeCity(req.City)
	req.PhotoURLs = sanitizePhotoURLs(req.PhotoURLs)
}

// sanitizePhotoURLs normalises and de-duplicates photo URLs. Entries the
// normaliser rejects are kept verbatim so validation reports them.
func sanitizePhotoURLs(urls []string) []string {
	if urls == nil {
		return nil
	}
	return sanitizer.SanitizeSlice(urls, func(u string) string {
		if strings.TrimSpace(u) == "" {
			return ""
		}
		if normalized := sanitizer.NormalizePhotoURL(u); normalized != "" {
			return normalized
		}
		return u
	})
}
