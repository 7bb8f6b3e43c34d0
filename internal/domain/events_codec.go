package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownEventKind is returned when decoding an envelope whose name has no payload type
var ErrUnknownEventKind = errors.New("domain: unknown event kind")

// eventEnvelope is the wire form shared by every transport
type eventEnvelope struct {
	ID          uuid.UUID       `json:"id"`
	AggregateID string          `json:"aggregate_id"`
	Name        EventKind       `json:"name"`
	CreatedOn   time.Time       `json:"created_on"`
	Data        json.RawMessage `json:"data"`
}

var payloadFactories = map[EventKind]func() EventPayload{
	KindBookingCreated:               func() EventPayload { return &BookingCreated{} },
	KindAccommodatedBookingCanceled:  func() EventPayload { return &AccommodatedBookingCanceled{} },
	KindBookingCanceled:              func() EventPayload { return &BookingCanceled{} },
	KindParkinglotCreated:            func() EventPayload { return &ParkinglotCreated{} },
	KindParkingSpaceCreated:          func() EventPayload { return &ParkingSpaceCreated{} },
	KindBookingAccommodated:          func() EventPayload { return &BookingAccommodated{} },
	KindBookingRefused:               func() EventPayload { return &BookingRefused{} },
	KindDriverArrived:                func() EventPayload { return &DriverArrived{} },
	KindDriverArrivedAtUnBookedSpace: func() EventPayload { return &DriverArrivedAtUnBookedSpace{} },
	KindDriverLeft:                   func() EventPayload { return &DriverLeft{} },
}

// MarshalEvent encodes an event into its JSON envelope
func MarshalEvent(e DomainEvent) ([]byte, error) {
	if e.Payload == nil {
		return nil, fmt.Errorf("%w: event %s has no payload", ErrInvalidInput, e.ID)
	}
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", e.Kind(), err)
	}
	return json.Marshal(eventEnvelope{
		ID:          e.ID,
		AggregateID: e.AggregateID,
		Name:        e.Kind(),
		CreatedOn:   e.CreatedOn,
		Data:        data,
	})
}

// UnmarshalEvent decodes a JSON envelope. Payloads are returned as values, not pointers,
// so handlers can type-switch on the same types aggregates record.
func UnmarshalEvent(raw []byte) (DomainEvent, error) {
	var env eventEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return DomainEvent{}, fmt.Errorf("unmarshal event envelope: %w", err)
	}

	factory, ok := payloadFactories[env.Name]
	if !ok {
		return DomainEvent{}, fmt.Errorf("%w: %q", ErrUnknownEventKind, env.Name)
	}

	payload := factory()
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, payload); err != nil {
			return DomainEvent{}, fmt.Errorf("unmarshal %s payload: %w", env.Name, err)
		}
	}

	return DomainEvent{
		ID:          env.ID,
		AggregateID: env.AggregateID,
		CreatedOn:   env.CreatedOn,
		Payload:     derefPayload(payload),
	}, nil
}

func derefPayload(p EventPayload) EventPayload {
	switch v := p.(type) {
	case *BookingCreated:
		return *v
	case *AccommodatedBookingCanceled:
		return *v
	case *BookingCanceled:
		return *v
	case *ParkinglotCreated:
		return *v
	case *ParkingSpaceCreated:
		return *v
	case *BookingAccommodated:
		return *v
	case *BookingRefused:
		return *v
	case *DriverArrived:
		return *v
	case *DriverArrivedAtUnBookedSpace:
		return *v
	case *DriverLeft:
		return *v
	default:
		return p
	}
}
