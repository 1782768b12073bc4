package validator

import (
	"errors"
	"strings"
	"testing"

	"staybook/pkg/model"
	"staybook/pkg/validation"
)

func validListing() *model.ListingCreate {
	return &model.ListingCreate{
		Title:         "Sunny loft near the river",
		Description:   "Two rooms, one balcony.",
		City:          "Lisbon",
		PricePerNight: 100,
		MaxGuests:     4,
		PhotoURLs:     []string{"https://cdn.example.com/a.jpg"},
	}
}

func TestValidate(t *testing.T) {
	v := NewListingValidator()

	tests := []struct {
		name      string
		mutate    func(l *model.ListingCreate)
		wantField string
	}{
		{name: "valid", mutate: func(l *model.ListingCreate) {}},
		{name: "valid without optional fields", mutate: func(l *model.ListingCreate) {
			l.Description = ""
			l.MaxGuests = 0
			l.PhotoURLs = nil
		}},
		{name: "title too short", mutate: func(l *model.ListingCreate) { l.Title = "Loft" }, wantField: "title"},
		{name: "title too long", mutate: func(l *model.ListingCreate) { l.Title = strings.Repeat("a", 121) }, wantField: "title"},
		{name: "description too long", mutate: func(l *model.ListingCreate) { l.Description = strings.Repeat("a", 5001) }, wantField: "description"},
		{name: "missing city", mutate: func(l *model.ListingCreate) { l.City = "" }, wantField: "city"},
		{name: "zero price", mutate: func(l *model.ListingCreate) { l.PricePerNight = 0 }, wantField: "price_per_night"},
		{name: "negative price", mutate: func(l *model.ListingCreate) { l.PricePerNight = -5 }, wantField: "price_per_night"},
		{name: "price at cap", mutate: func(l *model.ListingCreate) { l.PricePerNight = model.MaxPricePerNight }},
		{name: "price above cap", mutate: func(l *model.ListingCreate) { l.PricePerNight = 1 << 62 }, wantField: "price_per_night"},
		{name: "capacity too high", mutate: func(l *model.ListingCreate) { l.MaxGuests = 51 }, wantField: "max_guests"},
		{name: "non-http photo", mutate: func(l *model.ListingCreate) { l.PhotoURLs = []string{"ftp://x/a.jpg"} }, wantField: "photo_urls[0]"},
		{name: "too many photos", mutate: func(l *model.ListingCreate) {
			l.PhotoURLs = make([]string, 21)
			for i := range l.PhotoURLs {
				l.PhotoURLs[i] = "https://cdn.example.com/a.jpg"
			}
		}, wantField: "photo_urls"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validListing()
			tt.mutate(req)

			err := v.Validate(req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var ve validation.ValidationErrors
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if _, ok := ve.Details()[tt.wantField]; !ok {
				t.Errorf("expected error on %q, got %v", tt.wantField, ve.Details())
			}
		})
	}
}
