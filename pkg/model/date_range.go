package model

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// DateRange is a half-open stay interval [CheckIn, CheckOut) over calendar dates.
// Both ends are kept at UTC midnight so that comparisons ignore time of day.
type DateRange struct {
	CheckIn  time.Time `json:"check_in" bson:"check_in"`
	CheckOut time.Time `json:"check_out" bson:"check_out"`
}

func NewDateRange(checkIn, checkOut time.Time) DateRange {
	return DateRange{
		CheckIn:  TruncateToDate(checkIn),
		CheckOut: TruncateToDate(checkOut),
	}
}

// ParseDateRange parses two YYYY-MM-DD strings. It does not check ordering; use Valid.
func ParseDateRange(checkIn, checkOut string) (DateRange, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return DateRange{}, fmt.Errorf("check_in: %w", err)
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return DateRange{}, fmt.Errorf("check_out: %w", err)
	}
	return DateRange{CheckIn: in, CheckOut: out}, nil
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Valid reports whether the range covers at least one night.
func (r DateRange) Valid() bool {
	return r.CheckIn.Before(r.CheckOut)
}

// Overlaps uses half-open semantics: a checkout on day D does not conflict with a check-in on day D.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(r.CheckOut)
}

func (r DateRange) Nights() int {
	if !r.Valid() {
		return 0
	}
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

func (r DateRange) Equal(other DateRange) bool {
	return r.CheckIn.Equal(other.CheckIn) && r.CheckOut.Equal(other.CheckOut)
}

func (r DateRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.CheckIn.Format(DateLayout), r.CheckOut.Format(DateLayout))
}
