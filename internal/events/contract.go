package events

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// BookingService операции бронирований, вызываемые обработчиками
type BookingService interface {
	Accommodate(ctx context.Context, id domain.BookingID, price float64, spaceID domain.ParkingSpaceID) error
	Refuse(ctx context.Context, id domain.BookingID) error
	Start(ctx context.Context, id domain.BookingID) error
	Finish(ctx context.Context, id domain.BookingID) error
}

// ParkinglotService операции парковок, вызываемые обработчиками
type ParkinglotService interface {
	AccommodateBooking(ctx context.Context, id domain.ParkinglotID, driverID domain.DriverID, bookingID domain.BookingID, duration *time.Duration) error
	ReleaseSpace(ctx context.Context, id domain.ParkinglotID, spaceID domain.ParkingSpaceID, bookingID domain.BookingID) error
}

// SearchIndex проекция парковок для поиска
type SearchIndex interface {
	Put(ctx context.Context, summary domain.ParkinglotSummary) error
}

// Metrics учет обработанных событий; *metrics.Metrics удовлетворяет интерфейсу
type Metrics interface {
	ObserveEventHandled(kind string, err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
