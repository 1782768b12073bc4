package validator

import (
	"fmt"
	"staybook/pkg/model"
	"staybook/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type BookingValidator struct {
	validate      *validator.Validate
	maxStayNights int
}

// NewBookingValidator caps stays at maxStayNights; zero disables the cap.
func NewBookingValidator(maxStayNights int) *BookingValidator {
	return &BookingValidator{
		validate:      validation.New(),
		maxStayNights: maxStayNights,
	}
}

// Validate checks the request shape and returns the parsed stay.
func (v *BookingValidator) Validate(req *model.BookingCreate) (model.DateRange, error) {
	errs, err := validation.Merge(nil, validation.Struct(v.validate, req))
	if err != nil {
		return model.DateRange{}, err
	}
	if len(errs) > 0 {
		return model.DateRange{}, errs
	}

	r, err := model.ParseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		errs.Add("dates", err.Error())
		return model.DateRange{}, errs
	}

	if !r.Valid() {
		errs.Add("check_out", "must be after check_in")
		return model.DateRange{}, errs
	}

	if v.maxStayNights > 0 && r.Nights() > v.maxStayNights {
		errs.Add("check_out", fmt.Sprintf("stay cannot exceed %d nights", v.maxStayNights))
		return model.DateRange{}, errs
	}

	return r, nil
}
