package availability

import (
	"errors"
	"fmt"

	"staybook/pkg/model"
)

var (
	ErrConflict     = errors.New("date range conflicts with an existing reservation")
	ErrInvalidRange = errors.New("check-in must be before check-out")
	ErrEmptyListing = errors.New("listing id is required")
)

// ConflictError names the committed range a reservation collided with.
type ConflictError struct {
	ListingID string
	Requested model.DateRange
	Existing  model.DateRange
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("listing %s: %s overlaps reserved %s", e.ListingID, e.Requested, e.Existing)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
