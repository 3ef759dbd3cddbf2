package ascendex

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrAPI is returned when a captured envelope carries a non-zero code.
var ErrAPI = errors.New("ascendex api error")

// Envelope is the REST response wrapper around a list of barhist records.
// Data elements stay raw so one bad record does not sink the whole batch.
type Envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message,omitempty"`
	Data    []json.RawMessage `json:"data"`
}

// Err returns a non-nil error wrapping ErrAPI when Code is not 0.
func (e Envelope) Err() error {
	if e.Code == 0 {
		return nil
	}
	if e.Message == "" {
		return fmt.Errorf("%w: code %d", ErrAPI, e.Code)
	}
	return fmt.Errorf("%w: code %d: %s", ErrAPI, e.Code, e.Message)
}

// Policy decides what a batch does with a malformed element.
type Policy string

const (
	// PolicySkip drops the element, counts it and keeps going.
	PolicySkip Policy = "skip"
	// PolicyAbort fails the whole batch on the first malformed element.
	PolicyAbort Policy = "abort"
)

// ParsePolicy maps a config value to a Policy. Empty means skip.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicySkip:
		return PolicySkip, nil
	case PolicyAbort:
		return PolicyAbort, nil
	}
	return "", fmt.Errorf("unknown malformed policy %q (use skip or abort)", s)
}
