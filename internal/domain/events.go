package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind is the stable discriminator handlers dispatch on
type EventKind string

const (
	KindBookingCreated               EventKind = "BookingCreated"
	KindAccommodatedBookingCanceled  EventKind = "AccommodatedBookingCanceled"
	KindBookingCanceled              EventKind = "BookingCanceled"
	KindParkinglotCreated            EventKind = "ParkinglotCreated"
	KindParkingSpaceCreated          EventKind = "ParkingSpaceCreated"
	KindBookingAccommodated          EventKind = "BookingAccommodated"
	KindBookingRefused               EventKind = "BookingRefused"
	KindDriverArrived                EventKind = "DriverArrived"
	KindDriverArrivedAtUnBookedSpace EventKind = "DriverArrivedAtUnBookedSpace"
	KindDriverLeft                   EventKind = "DriverLeft"
)

// EventPayload is the kind-specific body of a DomainEvent
type EventPayload interface {
	Kind() EventKind
}

// DomainEvent is an immutable fact emitted by an aggregate.
// It carries the owning aggregate id as a string and never a reference to the aggregate.
type DomainEvent struct {
	ID          uuid.UUID
	AggregateID string
	CreatedOn   time.Time
	Payload     EventPayload
}

// Kind returns the discriminator of the payload
func (e DomainEvent) Kind() EventKind {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.Kind()
}

// Booking events

type BookingCreated struct {
	ParkinglotID    ParkinglotID `json:"parkinglot_id"`
	DriverID        DriverID     `json:"driver_id"`
	DurationSeconds *int64       `json:"duration_seconds,omitempty"`
}

func (BookingCreated) Kind() EventKind { return KindBookingCreated }

// Duration returns the requested booking duration, nil when the driver did not give one
func (e BookingCreated) Duration() *time.Duration {
	return secondsToDuration(e.DurationSeconds)
}

type AccommodatedBookingCanceled struct {
	ParkinglotID ParkinglotID   `json:"parkinglot_id"`
	SpaceID      ParkingSpaceID `json:"space_id"`
}

func (AccommodatedBookingCanceled) Kind() EventKind { return KindAccommodatedBookingCanceled }

type BookingCanceled struct {
	ParkinglotID ParkinglotID `json:"parkinglot_id"`
}

func (BookingCanceled) Kind() EventKind { return KindBookingCanceled }

// Parkinglot events

type ParkinglotCreated struct {
	OwnerID     OwnerID     `json:"owner_id"`
	Name        string      `json:"name"`
	Street      string      `json:"street"`
	Coordinates Coordinates `json:"coordinates"`
	Cell        string      `json:"h3_cell"`
}

func (ParkinglotCreated) Kind() EventKind { return KindParkinglotCreated }

type ParkingSpaceCreated struct {
	SpaceID ParkingSpaceID `json:"space_id"`
}

func (ParkingSpaceCreated) Kind() EventKind { return KindParkingSpaceCreated }

type BookingAccommodated struct {
	BookingID BookingID      `json:"booking_id"`
	Price     float64        `json:"price"`
	SpaceID   ParkingSpaceID `json:"space_id"`
}

func (BookingAccommodated) Kind() EventKind { return KindBookingAccommodated }

type BookingRefused struct {
	BookingID BookingID `json:"booking_id"`
}

func (BookingRefused) Kind() EventKind { return KindBookingRefused }

type DriverArrived struct {
	SpaceID   ParkingSpaceID `json:"space_id"`
	DriverID  DriverID       `json:"driver_id"`
	BookingID BookingID      `json:"booking_id"`
}

func (DriverArrived) Kind() EventKind { return KindDriverArrived }

// DriverArrivedAtUnBookedSpace signals a physical occupation the system did not allocate
type DriverArrivedAtUnBookedSpace struct {
	SpaceID ParkingSpaceID `json:"space_id"`
}

func (DriverArrivedAtUnBookedSpace) Kind() EventKind { return KindDriverArrivedAtUnBookedSpace }

type DriverLeft struct {
	SpaceID   ParkingSpaceID `json:"space_id"`
	DriverID  DriverID       `json:"driver_id"`
	BookingID BookingID      `json:"booking_id"`
}

func (DriverLeft) Kind() EventKind { return KindDriverLeft }

func durationToSeconds(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	s := int64(d.Seconds())
	return &s
}

func secondsToDuration(s *int64) *time.Duration {
	if s == nil {
		return nil
	}
	d := time.Duration(*s) * time.Second
	return &d
}
