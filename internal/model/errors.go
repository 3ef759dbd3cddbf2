package model

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse matches every record decoding failure: missing
// required keys, mistyped fields, or a payload that is not an object.
var ErrMalformedResponse = errors.New("malformed response")

// ErrUnsupportedInterval is returned for an interval tag outside the catalogue.
var ErrUnsupportedInterval = errors.New("unsupported interval")

var (
	errMissingKey = errors.New("missing required key")
	errEmptyValue = errors.New("empty value")
)

// MalformedError reports which wire key made a record unusable.
// Key is empty when the payload as a whole could not be parsed.
type MalformedError struct {
	Key   string
	Cause error
}

func (e *MalformedError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%v: %v", ErrMalformedResponse, e.Cause)
	}
	return fmt.Sprintf("%v: key %q: %v", ErrMalformedResponse, e.Key, e.Cause)
}

func (e *MalformedError) Unwrap() error { return e.Cause }

func (e *MalformedError) Is(target error) bool { return target == ErrMalformedResponse }
