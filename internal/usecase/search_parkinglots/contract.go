package search_parkinglots

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// SearchIndex индекс парковок по hex-ячейкам
type SearchIndex interface {
	// Query возвращает парковки, попадающие в любую из ячеек
	Query(ctx context.Context, cells []string) ([]domain.ParkinglotSummary, error)
}

// Grid hex-сетка фиксированного разрешения
type Grid interface {
	CellAt(c domain.Coordinates) (string, error)
	Ring(center string, k int) ([]string, error)
	IsValid(cell string) bool
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
