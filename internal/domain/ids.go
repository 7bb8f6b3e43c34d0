package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ID is an opaque UUID identifier tagged with the kind of entity it identifies.
// Distinct tags make a BookingID unassignable to a ParkinglotID at compile time.
type ID[T any] struct {
	uuid.UUID
}

type (
	bookingTag      struct{}
	parkinglotTag   struct{}
	parkingSpaceTag struct{}
	driverTag       struct{}
	ownerTag        struct{}
	concentratorTag struct{}
)

type (
	BookingID      = ID[bookingTag]
	ParkinglotID   = ID[parkinglotTag]
	ParkingSpaceID = ID[parkingSpaceTag]
	DriverID       = ID[driverTag]
	OwnerID        = ID[ownerTag]
	ConcentratorID = ID[concentratorTag]
)

// NewID generates a random identifier
func NewID[T any]() ID[T] {
	return ID[T]{UUID: uuid.New()}
}

// ParseID parses the canonical textual form of an identifier
func ParseID[T any](s string) (ID[T], error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID[T]{}, fmt.Errorf("%w: malformed identifier %q", ErrInvalidInput, s)
	}
	return ID[T]{UUID: u}, nil
}

// MustParseID is ParseID for constants and tests
func MustParseID[T any](s string) ID[T] {
	id, err := ParseID[T](s)
	if err != nil {
		panic(err)
	}
	return id
}

// IsZero reports whether the identifier is the nil UUID
func (id ID[T]) IsZero() bool {
	return id.UUID == uuid.Nil
}

func NewBookingID() BookingID           { return NewID[bookingTag]() }
func NewParkinglotID() ParkinglotID     { return NewID[parkinglotTag]() }
func NewParkingSpaceID() ParkingSpaceID { return NewID[parkingSpaceTag]() }
func NewDriverID() DriverID             { return NewID[driverTag]() }
func NewOwnerID() OwnerID               { return NewID[ownerTag]() }
func NewConcentratorID() ConcentratorID { return NewID[concentratorTag]() }

func ParseBookingID(s string) (BookingID, error)           { return ParseID[bookingTag](s) }
func ParseParkinglotID(s string) (ParkinglotID, error)     { return ParseID[parkinglotTag](s) }
func ParseParkingSpaceID(s string) (ParkingSpaceID, error) { return ParseID[parkingSpaceTag](s) }
func ParseDriverID(s string) (DriverID, error)             { return ParseID[driverTag](s) }
func ParseOwnerID(s string) (OwnerID, error)               { return ParseID[ownerTag](s) }
func ParseConcentratorID(s string) (ConcentratorID, error) { return ParseID[concentratorTag](s) }
