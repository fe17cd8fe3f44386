package repository

import (
	"errors"
	"fmt"
)

// ErrProductNotFound is returned when no document matches the given id.
var ErrProductNotFound = errors.New("Product not found")

// ErrInvalidID is returned when an id is not a valid ObjectID hex string.
var ErrInvalidID = errors.New("invalid product id")

// StoreError wraps a failure reported by the store or by id parsing. Its
// message is the underlying error text, unchanged.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

func invalidID(op, id string) error {
	return storeErr(op, fmt.Errorf("%w %q", ErrInvalidID, id))
}
