package events

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// RegisterHandlers связывает события с операциями сервисов.
// index может быть nil, тогда ParkinglotCreated не проецируется (поиск читает таблицу парковок).
func RegisterHandlers(d *Dispatcher, bookings BookingService, parkinglots ParkinglotService, index SearchIndex) {
	d.Register(domain.KindBookingCreated, func(ctx context.Context, e domain.DomainEvent) error {
		p, ok := e.Payload.(domain.BookingCreated)
		if !ok {
			return malformed(e)
		}
		bookingID, err := domain.ParseBookingID(e.AggregateID)
		if err != nil {
			return malformed(e)
		}
		return parkinglots.AccommodateBooking(ctx, p.ParkinglotID, p.DriverID, bookingID, p.Duration())
	})

	d.Register(domain.KindAccommodatedBookingCanceled, func(ctx context.Context, e domain.DomainEvent) error {
		p, ok := e.Payload.(domain.AccommodatedBookingCanceled)
		if !ok {
			return malformed(e)
		}
		bookingID, err := domain.ParseBookingID(e.AggregateID)
		if err != nil {
			return malformed(e)
		}
		return parkinglots.ReleaseSpace(ctx, p.ParkinglotID, p.SpaceID, bookingID)
	})

	d.Register(domain.KindBookingRefused, func(ctx context.Context, e domain.DomainEvent) error {
		p, ok := e.Payload.(domain.BookingRefused)
		if !ok {
			return malformed(e)
		}
		return bookings.Refuse(ctx, p.BookingID)
	})

	d.Register(domain.KindBookingAccommodated, func(ctx context.Context, e domain.DomainEvent) error {
		p, ok := e.Payload.(domain.BookingAccommodated)
		if !ok {
			return malformed(e)
		}
		return bookings.Accommodate(ctx, p.BookingID, p.Price, p.SpaceID)
	})

	d.Register(domain.KindDriverArrived, func(ctx context.Context, e domain.DomainEvent) error {
		p, ok := e.Payload.(domain.DriverArrived)
		if !ok {
			return malformed(e)
		}
		return bookings.Start(ctx, p.BookingID)
	})

	d.Register(domain.KindDriverLeft, func(ctx context.Context, e domain.DomainEvent) error {
		p, ok := e.Payload.(domain.DriverLeft)
		if !ok {
			return malformed(e)
		}
		return bookings.Finish(ctx, p.BookingID)
	})

	if index != nil {
		d.Register(domain.KindParkinglotCreated, func(ctx context.Context, e domain.DomainEvent) error {
			summary, ok := domain.SummaryFromEvent(e)
			if !ok {
				return malformed(e)
			}
			return index.Put(ctx, summary)
		})
	}
}

func malformed(e domain.DomainEvent) error {
	return fmt.Errorf("%w: %s id=%s aggregate=%s", ErrMalformedEvent, e.Kind(), e.ID, e.AggregateID)
}
