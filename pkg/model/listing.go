package model

import "time"

// MaxPricePerNight caps a nightly price so that a stay of any allowed length
// prices without overflowing int64.
const MaxPricePerNight = 1_000_000_000_000

// Listing is immutable once stored. PricePerNight is an integer amount in the
// listing's currency unit; MaxGuests of 0 means the host stated no capacity.
type Listing struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	HostID        string    `json:"host_id" bson:"host_id"`
	Title         string    `json:"title" bson:"title"`
	Description   string    `json:"description" bson:"description"`
	City          string    `json:"city" bson:"city"`
	CityKey       string    `json:"-" bson:"city_key"`
	PricePerNight int64     `json:"price_per_night" bson:"price_per_night"`
	MaxGuests     int       `json:"max_guests,omitempty" bson:"max_guests"`
	PhotoURLs     []string  `json:"photo_urls" bson:"photo_urls"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

type ListingCreate struct {
	Title         string   `json:"title" validate:"required,min=5,max=120"`
	Description   string   `json:"description" validate:"omitempty,max=5000"`
	City          string   `json:"city" validate:"required,min=2,max=100"`
	PricePerNight int64    `json:"price_per_night" validate:"required,gt=0,max=1000000000000"`
	MaxGuests     int      `json:"max_guests" validate:"omitempty,min=1,max=50"`
	PhotoURLs     []string `json:"photo_urls" validate:"omitempty,max=20,dive,required,http_url"`
}

// ListingSummary is the search-result projection of a Listing.
type ListingSummary struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	City            string `json:"city"`
	PricePerNight   int64  `json:"price_per_night"`
	PrimaryPhotoURL string `json:"primary_photo_url,omitempty"`
}

func (l *Listing) Summary() ListingSummary {
	s := ListingSummary{
		ID:            l.ID,
		Title:         l.Title,
		City:          l.City,
		PricePerNight: l.PricePerNight,
	}
	if len(l.PhotoURLs) > 0 {
		s.PrimaryPhotoURL = l.PhotoURLs[0]
	}
	return s
}

func (l *Listing) AcceptsGuests(n int) bool {
	return l.MaxGuests == 0 || n <= l.MaxGuests
}
