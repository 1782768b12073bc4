package testutil

import "staybook/pkg/model"

type ListingBuilder struct {
	listing model.ListingCreate
}

func NewListingBuilder() *ListingBuilder {
	return &ListingBuilder{
		listing: model.ListingCreate{
			Title:         "Sunny loft near the river",
			Description:   "Two rooms, balcony, fast wifi.",
			City:          "Lisbon",
			PricePerNight: 100,
			MaxGuests:     4,
			PhotoURLs:     []string{"https://cdn.example.com/loft-1.jpg"},
		},
	}
}

func (b *ListingBuilder) WithTitle(title string) *ListingBuilder {
	b.listing.Title = title
	return b
}

func (b *ListingBuilder) WithCity(city string) *ListingBuilder {
	b.listing.City = city
	return b
}

func (b *ListingBuilder) WithPrice(price int64) *ListingBuilder {
	b.listing.PricePerNight = price
	return b
}

func (b *ListingBuilder) WithMaxGuests(n int) *ListingBuilder {
	b.listing.MaxGuests = n
	return b
}

func (b *ListingBuilder) Build() model.ListingCreate {
	return b.listing
}

func Booking(listingID, checkIn, checkOut string, guests int) model.BookingCreate {
	return model.BookingCreate{
		ListingID:  listingID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		GuestCount: guests,
	}
}
