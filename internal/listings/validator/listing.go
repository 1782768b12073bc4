package validator

import (
	"staybook/pkg/model"
	"staybook/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type ListingValidator struct {
	validate *validator.Validate
}

func NewListingValidator() *ListingValidator {
	return &ListingValidator{
		validate: validation.New(),
	}
}

// Validate expects a sanitised request.
func (v *ListingValidator) Validate(req *model.ListingCreate) error {
	return validation.Struct(v.validate, req)
}
