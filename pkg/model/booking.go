package model

import (
	"encoding/json"
	"time"
)

// Booking is a committed reservation. CheckIn and CheckOut are UTC midnights
// and travel on the wire as YYYY-MM-DD.
type Booking struct {
	ID         string    `bson:"_id,omitempty"`
	ListingID  string    `bson:"listing_id"`
	GuestID    string    `bson:"guest_id"`
	CheckIn    time.Time `bson:"check_in"`
	CheckOut   time.Time `bson:"check_out"`
	GuestCount int       `bson:"guest_count"`
	TotalPrice int64     `bson:"total_price"`
	CreatedAt  time.Time `bson:"created_at"`
}

// BookingCreate is the client payload. Any price the client sends is not part of it.
type BookingCreate struct {
	ListingID  string `json:"listing_id" validate:"required,max=64"`
	CheckIn    string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut   string `json:"check_out" validate:"required,datetime=2006-01-02"`
	GuestCount int    `json:"guest_count" validate:"required,min=1,max=50"`
}

// BookingView is a booking together with the listing it reserves.
type BookingView struct {
	Booking *Booking
	Listing *ListingSummary
}

type bookingWire struct {
	ID         string    `json:"id,omitempty"`
	ListingID  string    `json:"listing_id"`
	GuestID    string    `json:"guest_id"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	Nights     int       `json:"nights"`
	GuestCount int       `json:"guest_count"`
	TotalPrice int64     `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

func (b *Booking) Range() DateRange {
	return DateRange{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

func (b *Booking) wire() bookingWire {
	return bookingWire{
		ID:         b.ID,
		ListingID:  b.ListingID,
		GuestID:    b.GuestID,
		CheckIn:    b.CheckIn.Format(DateLayout),
		CheckOut:   b.CheckOut.Format(DateLayout),
		Nights:     b.Range().Nights(),
		GuestCount: b.GuestCount,
		TotalPrice: b.TotalPrice,
		CreatedAt:  b.CreatedAt,
	}
}

func (b Booking) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.wire())
}

func (b *Booking) UnmarshalJSON(data []byte) error {
	var w bookingWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r, err := ParseDateRange(w.CheckIn, w.CheckOut)
	if err != nil {
		return err
	}
	*b = Booking{
		ID:         w.ID,
		ListingID:  w.ListingID,
		GuestID:    w.GuestID,
		CheckIn:    r.CheckIn,
		CheckOut:   r.CheckOut,
		GuestCount: w.GuestCount,
		TotalPrice: w.TotalPrice,
		CreatedAt:  w.CreatedAt,
	}
	return nil
}

func (v BookingView) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		bookingWire
		Listing *ListingSummary `json:"listing,omitempty"`
	}{
		bookingWire: v.Booking.wire(),
		Listing:     v.Listing,
	})
}
