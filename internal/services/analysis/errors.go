package analysis

import (
	"errors"
	"fmt"
)

// ErrInsufficientSignals is returned when every source failed or the signal
// set is empty. Callers must surface this as "analysis unavailable", never as
// a fabricated neutral consensus.
var ErrInsufficientSignals = errors.New("analysis: no usable source signals")

// InvalidInputError marks a malformed per-request input (non-positive price,
// unknown timeframe). Fatal for the request only.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("analysis: invalid %s: %s", e.Field, e.Reason)
}

func invalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}
