package domain

import (
	"fmt"
	"time"
)

// BookingState represents the lifecycle state of a booking
type BookingState string

const (
	StateCreated      BookingState = "CREATED"
	StateAccommodated BookingState = "ACCOMMODATED"
	StateRefused      BookingState = "REFUSED"
	StateCanceled     BookingState = "CANCELED"
)

// Booking is a driver's request for a space in a parkinglot.
//
//	CREATED -> ACCOMMODATED -> CANCELED
//	CREATED -> REFUSED
//	CREATED -> CANCELED
type Booking struct {
	ID           BookingID
	DriverID     DriverID
	ParkinglotID ParkinglotID
	Description  string
	Duration     *time.Duration
	State        BookingState

	// Set only on entering ACCOMMODATED
	Price   *float64
	SpaceID *ParkingSpaceID

	// Observed by the parkinglot hardware, independent of State
	StartedAt  *time.Time
	FinishedAt *time.Time

	Metadata
	eventBuffer
}

// CreateBooking constructs a booking in CREATED and records BookingCreated
func CreateBooking(
	id BookingID,
	driverID DriverID,
	parkinglotID ParkinglotID,
	duration *time.Duration,
	description string,
	now time.Time,
) (*Booking, error) {
	if id.IsZero() || driverID.IsZero() || parkinglotID.IsZero() {
		return nil, fmt.Errorf("%w: booking, driver and parkinglot ids are required", ErrInvalidInput)
	}
	if duration != nil && *duration <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidDuration, *duration)
	}
	if duration != nil && *duration > MaxBookingDuration {
		return nil, fmt.Errorf("%w: duration exceeds %s", ErrInvalidInput, MaxBookingDuration)
	}
	if len(description) > MaxDescriptionLength {
		return nil, fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, MaxDescriptionLength)
	}

	b := &Booking{
		ID:           id,
		DriverID:     driverID,
		ParkinglotID: parkinglotID,
		Description:  description,
		Duration:     duration,
		State:        StateCreated,
	}
	b.touch(now)
	b.record(b.ID.String(), now, BookingCreated{
		ParkinglotID:    parkinglotID,
		DriverID:        driverID,
		DurationSeconds: durationToSeconds(duration),
	})
	return b, nil
}

// IsTerminal returns true for CANCELED and REFUSED
func (b *Booking) IsTerminal() bool {
	return b.State == StateCanceled || b.State == StateRefused
}

// Cancel moves the booking to CANCELED. An accommodated booking first records
// AccommodatedBookingCanceled so the parkinglot frees the space. Terminal bookings are untouched.
func (b *Booking) Cancel(now time.Time) {
	if b.IsTerminal() {
		return
	}
	if b.State == StateAccommodated && b.SpaceID != nil {
		b.record(b.ID.String(), now, AccommodatedBookingCanceled{
			ParkinglotID: b.ParkinglotID,
			SpaceID:      *b.SpaceID,
		})
	}
	b.record(b.ID.String(), now, BookingCanceled{ParkinglotID: b.ParkinglotID})
	b.State = StateCanceled
	b.touch(now)
}

// AssignPrice accommodates a CREATED booking without a known space
func (b *Booking) AssignPrice(price float64, now time.Time) {
	if b.State != StateCreated {
		return
	}
	b.Price = &price
	b.State = StateAccommodated
	b.touch(now)
}

// Accommodate records the allocation made by the parkinglot.
// Redelivered allocations are absorbed: the same space is a no-op, while a second space or an
// allocation arriving after a terminal state is handed back with AccommodatedBookingCanceled.
// The parkinglot releases a handed back space only while it still holds this booking.
func (b *Booking) Accommodate(price float64, spaceID ParkingSpaceID, now time.Time) {
	switch b.State {
	case StateCreated:
		b.Price = &price
		b.SpaceID = &spaceID
		b.State = StateAccommodated
		b.touch(now)
	case StateAccommodated:
		if b.SpaceID != nil && *b.SpaceID == spaceID {
			return
		}
		b.handBack(spaceID, now)
	case StateCanceled, StateRefused:
		b.handBack(spaceID, now)
	}
}

func (b *Booking) handBack(spaceID ParkingSpaceID, now time.Time) {
	b.record(b.ID.String(), now, AccommodatedBookingCanceled{
		ParkinglotID: b.ParkinglotID,
		SpaceID:      spaceID,
	})
	b.touch(now)
}

// Refuse marks a CREATED booking the parkinglot could not accommodate
func (b *Booking) Refuse(now time.Time) {
	if b.State != StateCreated {
		return
	}
	b.State = StateRefused
	b.touch(now)
}

// Start records the physical arrival of the driver
func (b *Booking) Start(now time.Time) {
	if b.StartedAt != nil {
		return
	}
	b.StartedAt = &now
	b.touch(now)
}

// Finish records the physical departure of the driver; a departure without arrival is ignored
func (b *Booking) Finish(now time.Time) {
	if b.StartedAt == nil || b.FinishedAt != nil {
		return
	}
	b.FinishedAt = &now
	b.touch(now)
}

// Clone returns a deep copy without pending events
func (b *Booking) Clone() *Booking {
	c := *b
	c.eventBuffer = eventBuffer{}
	c.Duration = clonePtr(b.Duration)
	c.Price = clonePtr(b.Price)
	c.SpaceID = clonePtr(b.SpaceID)
	c.StartedAt = clonePtr(b.StartedAt)
	c.FinishedAt = clonePtr(b.FinishedAt)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
