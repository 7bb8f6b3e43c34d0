package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Save(ctx context.Context, booking *domain.Booking) error
	Get(ctx context.Context, id domain.BookingID, driverID *domain.DriverID) (*domain.Booking, error)
}

// ParkinglotRepository чтение парковок для проверки существования
type ParkinglotRepository interface {
	Get(ctx context.Context, id domain.ParkinglotID, ownerID *domain.OwnerID) (*domain.Parkinglot, error)
}

// EventBus интерфейс шины доменных событий
type EventBus interface {
	Publish(ctx context.Context, events []domain.DomainEvent) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время в UTC
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
