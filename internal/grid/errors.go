package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientBalance usable margin does not exceed the maintenance margin
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrReserveExceedsInvestment the reserve configuration consumed more than the investment
	ErrReserveExceedsInvestment = errors.New("reserved margin exceeds investment")
	// ErrInvalidInputs malformed inputs, reported by Inputs.Validate
	ErrInvalidInputs = errors.New("invalid grid inputs")
)

// MarginError carries the margin figures that made a calculation fail.
type MarginError struct {
	Err               error
	Investment        float64
	ReservedMargin    float64
	UsableMargin      float64
	MaintenanceMargin float64
}

func (e *MarginError) Error() string {
	return fmt.Sprintf("%s: investment %.2f, reserved %.2f, usable %.2f, maintenance %.2f",
		e.Err, e.Investment, e.ReservedMargin, e.UsableMargin, e.MaintenanceMargin)
}

func (e *MarginError) Unwrap() error {
	return e.Err
}

// InputError names the field rejected by Inputs.Validate.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInputs, e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInputs
}

func invalid(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}
