package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Image       string             `json:"image" bson:"image"`
	Reviews     []Review           `json:"reviews" bson:"reviews"`
}

// Review is embedded in Product.Reviews and has no identity of its own.
// None of its fields are required.
type Review struct {
	User    string   `json:"user,omitempty" bson:"user,omitempty"`
	Rating  *float64 `json:"rating,omitempty" bson:"rating,omitempty"`
	Comment string   `json:"comment,omitempty" bson:"comment,omitempty"`
}

// ProductInput is the payload accepted when creating a product.
type ProductInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Image       string `json:"image" validate:"required"`
}

// NewProduct builds an unsaved product from input with an empty review list.
func NewProduct(in ProductInput) *Product {
	return &Product{
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		Reviews:     []Review{},
	}
}

// AddReview appends r at the end of the review list.
func (p *Product) AddReview(r Review) {
	p.Reviews = append(p.Reviews, r)
}

// EnsureReviews replaces a nil review list with an empty one so it
// serializes as [] instead of null.
func (p *Product) EnsureReviews() {
	if p.Reviews == nil {
		p.Reviews = []Review{}
	}
}

// UnmarshalJSON accepts a rating given as a number or a numeric string.
// A null or blank rating is treated as absent.
func (r *Review) UnmarshalJSON(data []byte) error {
	type plain Review
	aux := struct {
		*plain
		Rating json.RawMessage `json:"rating"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	rating, err := parseRating(aux.Rating)
	if err != nil {
		return err
	}
	r.Rating = rating
	return nil
}

func parseRating(raw json.RawMessage) (*float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rating %q", s)
		}
		return &f, nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("invalid rating %s", raw)
	}
	return &f, nil
}

// UnmarshalJSON reads each field from any JSON scalar. Numbers and true
// become their text; null, false, 0 and "" leave the field empty.
// Objects and arrays are rejected.
func (in *ProductInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name        json.RawMessage `json:"name"`
		Description json.RawMessage `json:"description"`
		Image       json.RawMessage `json:"image"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var err error
	if in.Name, err = scalarText("name", raw.Name); err != nil {
		return err
	}
	if in.Description, err = scalarText("description", raw.Description); err != nil {
		return err
	}
	if in.Image, err = scalarText("image", raw.Image); err != nil {
		return err
	}
	return nil
}

func scalarText(field string, raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		if t {
			return "true", nil
		}
		return "", nil
	case float64:
		if t == 0 {
			return "", nil
		}
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%s must be a string", field)
	}
}
