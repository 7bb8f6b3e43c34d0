package memory

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// SearchIndex проекция парковок по H3 ячейкам в памяти процесса
type SearchIndex struct {
	mu     sync.RWMutex
	byCell map[string][]domain.ParkinglotSummary
}

// NewSearchIndex создает пустой индекс
func NewSearchIndex() *SearchIndex {
	return &SearchIndex{byCell: make(map[string][]domain.ParkinglotSummary)}
}

// Put добавляет парковку в ячейку; повторная запись той же парковки заменяет предыдущую
func (i *SearchIndex) Put(_ context.Context, s domain.ParkinglotSummary) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	lots := i.byCell[s.Cell]
	for n := range lots {
		if lots[n].ID == s.ID {
			lots[n] = s
			return nil
		}
	}
	i.byCell[s.Cell] = append(lots, s)
	return nil
}

// Query возвращает парковки из переданных ячеек в порядке ячеек
func (i *SearchIndex) Query(_ context.Context, cells []string) ([]domain.ParkinglotSummary, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	out := make([]domain.ParkinglotSummary, 0)
	for _, cell := range cells {
		out = append(out, i.byCell[cell]...)
	}
	return out, nil
}
