package service

import (
	"context"
	"fmt"
	"iter"

	"staybook/internal/listings/repository"
	"staybook/pkg/logger"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
)

// Query filters are ANDed; zero values disable a filter.
type Query struct {
	City  string
	Range *model.DateRange
}

type ListingSource interface {
	Stream(ctx context.Context, cityKey string) (repository.Cursor, error)
}

type Availability interface {
	Query(listingID string, r model.DateRange) bool
}

type SearchService interface {
	Search(ctx context.Context, q Query) iter.Seq2[*model.Listing, error]
}

type searchService struct {
	listings ListingSource
	index    Availability
	log      *logger.Logger
}

func NewSearchService(listings ListingSource, index Availability, log *logger.Logger) SearchService {
	return &searchService{
		listings: listings,
		index:    index,
		log:      log,
	}
}

// Search streams matching listings in ascending id order. Nothing is read
// until the sequence is ranged over, and each range re-runs the query, so
// with no intervening writes two iterations yield the same listings.
// A failure is yielded once as the final element.
func (s *searchService) Search(ctx context.Context, q Query) iter.Seq2[*model.Listing, error] {
	cityKey := sanitizer.CityKey(q.City)

	return func(yield func(*model.Listing, error) bool) {
		cursor, err := s.listings.Stream(ctx, cityKey)
		if err != nil {
			yield(nil, err)
			return
		}
		defer func() {
			if err := cursor.Close(context.WithoutCancel(ctx)); err != nil {
				s.log.Warn("Failed to close listing cursor", "error", err)
			}
		}()

		for cursor.Next(ctx) {
			var listing model.Listing
			if err := cursor.Decode(&listing); err != nil {
				yield(nil, fmt.Errorf("failed to decode listing: %w", err))
				return
			}

			if q.Range != nil && !s.index.Query(listing.ID, *q.Range) {
				continue
			}

			if !yield(&listing, nil) {
				return
			}
		}

		if err := cursor.Err(); err != nil {
			yield(nil, fmt.Errorf("listing cursor failed: %w", err))
		}
	}
}
