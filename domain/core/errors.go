package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Cell-level errors
	ErrInvalidValue = errors.New("value must be 0 or 1")

	// ECC errors
	ErrLengthMismatch   = errors.New("data length does not match configured length")
	ErrCapacityExceeded = errors.New("data length exceeds codeword capacity")
	ErrConfiguration    = errors.New("infeasible error correction configuration")
	ErrUncorrectable    = errors.New("error count exceeds correction capability")

	// Protocol errors
	ErrEnrollment      = errors.New("enrollment failed")
	ErrNotEnrolled     = errors.New("device is not enrolled")
	ErrAlreadyEnrolled = fmt.Errorf("%w: already enrolled", ErrEnrollment)
)

// Error constructors with context

func NewInvalidValueError(got int) error {
	return fmt.Errorf("%w: got %d", ErrInvalidValue, got)
}

func NewLengthMismatchError(want, got int) error {
	return fmt.Errorf("%w: want %d bits, got %d", ErrLengthMismatch, want, got)
}

func NewCapacityError(dataBytes, maxBytes int) error {
	return fmt.Errorf("%w: %d data bytes > %d byte capacity", ErrCapacityExceeded, dataBytes, maxBytes)
}

func NewConfigurationError(detail string) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, detail)
}

func NewEnrollmentError(reason string) error {
	return fmt.Errorf("%w: %s", ErrEnrollment, reason)
}

// Error checking helpers

func IsECCConstructionError(err error) bool {
	return errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrConfiguration)
}

func IsEnrollmentError(err error) bool {
	return errors.Is(err, ErrEnrollment)
}

func IsUncorrectable(err error) bool {
	return errors.Is(err, ErrUncorrectable)
}
