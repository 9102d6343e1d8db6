package thingspeak

import (
	"errors"
	"fmt"
)

// ErrUnavailable is the single condition every failed read maps to.
var ErrUnavailable = errors.New("telemetry unavailable")

// UnavailableError records why a field could not be read.
type UnavailableError struct {
	FieldID int
	Reason  string
	Err     error
}

func (e *UnavailableError) Error() string {
	if e == nil {
		return ErrUnavailable.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("field %d unavailable: %s: %v", e.FieldID, e.Reason, e.Err)
	}
	return fmt.Sprintf("field %d unavailable: %s", e.FieldID, e.Reason)
}

func (e *UnavailableError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

func unavailable(fieldID int, reason string, err error) error {
	return &UnavailableError{FieldID: fieldID, Reason: reason, Err: err}
}
