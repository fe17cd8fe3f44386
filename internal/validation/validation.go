// Package validation checks request payloads before anything is written
// to the store. Rules are declared with `validate` struct tags and
// evaluated by go-playground/validator.
package validation

import (
	"errors"

	"product-catalog/internal/model"

	"github.com/go-playground/validator/v10"
)

// ErrIncompleteData is returned when a required product field is missing
// or empty. Its text is the exact message sent to clients.
var ErrIncompleteData = errors.New("Incomplete product data")

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateProductInput reports ErrIncompleteData unless name, description
// and image are all non-empty. Values are not trimmed.
func ValidateProductInput(in model.ProductInput) error {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return ErrIncompleteData
		}
		return err
	}
	return nil
}

// MissingFields lists the json names of the fields that failed validation.
func MissingFields(in model.ProductInput) []string {
	err := validate.Struct(in)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldName(fe))
	}
	return fields
}

func fieldName(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Name":
		return "name"
	case "Description":
		return "description"
	case "Image":
		return "image"
	default:
		return fe.Field()
	}
}
