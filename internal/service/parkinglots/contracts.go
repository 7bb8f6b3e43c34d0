package parkinglots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// ParkinglotRepository интерфейс репозитория парковок
type ParkinglotRepository interface {
	Save(ctx context.Context, lot *domain.Parkinglot) error
	Get(ctx context.Context, id domain.ParkinglotID, ownerID *domain.OwnerID) (*domain.Parkinglot, error)
	List(ctx context.Context, ownerID domain.OwnerID) ([]*domain.Parkinglot, error)
}

// EventBus интерфейс шины доменных событий
type EventBus interface {
	Publish(ctx context.Context, events []domain.DomainEvent) error
}

// Metrics учет результатов размещения; *metrics.Metrics удовлетворяет интерфейсу
type Metrics interface {
	ObserveAllocation(outcome string)
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
