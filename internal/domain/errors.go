package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the root of every input rejection. Operations that return it leave the
	// aggregate unchanged and record no events.
	ErrInvalidInput = errors.New("domain: invalid input")

	// ErrConcurrencyConflict is returned by repositories when the stored version differs from the
	// version the aggregate was loaded with. It is the only retryable failure.
	ErrConcurrencyConflict = errors.New("domain: concurrency conflict")
)

var (
	ErrInvalidCoordinates       = fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	ErrInvalidDuration          = fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	ErrInvalidPrice             = fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	ErrUnknownSpace             = fmt.Errorf("%w: parking space is not registered", ErrInvalidInput)
	ErrDuplicateSpace           = fmt.Errorf("%w: parking space already registered", ErrInvalidInput)
	ErrUnauthorizedConcentrator = fmt.Errorf("%w: concentrator is not registered for this parkinglot", ErrInvalidInput)
	ErrInvalidCell              = fmt.Errorf("%w: invalid geospatial cell", ErrInvalidInput)
)
