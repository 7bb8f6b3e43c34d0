package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// ParkinglotRepository хранит копии парковок в памяти процесса
type ParkinglotRepository struct {
	mu   sync.RWMutex
	lots map[domain.ParkinglotID]*domain.Parkinglot
}

// NewParkinglotRepository создает пустой репозиторий парковок
func NewParkinglotRepository() *ParkinglotRepository {
	return &ParkinglotRepository{lots: make(map[domain.ParkinglotID]*domain.Parkinglot)}
}

// Save сохраняет копию парковки, если сохраненная версия равна загруженной
func (r *ParkinglotRepository) Save(_ context.Context, p *domain.Parkinglot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.lots[p.ID]
	switch {
	case p.Version == 0 && exists:
		return fmt.Errorf("%w: parkinglot id=%s already exists", ErrConcurrencyConflict, p.ID)
	case p.Version != 0 && (!exists || stored.Version != p.Version):
		return fmt.Errorf("%w: parkinglot id=%s version=%d", ErrConcurrencyConflict, p.ID, p.Version)
	}

	for _, other := range r.lots {
		if other.ID == p.ID {
			continue
		}
		for _, taken := range other.Spaces {
			for _, s := range p.Spaces {
				if s.ID == taken.ID {
					return fmt.Errorf("%w: space id=%s belongs to parkinglot id=%s", ErrSpaceTaken, s.ID, other.ID)
				}
			}
		}
	}

	p.Version++
	r.lots[p.ID] = p.Clone()
	return nil
}

// Get возвращает копию парковки или (nil, nil), если ее нет или она принадлежит другому владельцу
func (r *ParkinglotRepository) Get(_ context.Context, id domain.ParkinglotID, ownerID *domain.OwnerID) (*domain.Parkinglot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.lots[id]
	if !ok || (ownerID != nil && p.OwnerID != *ownerID) {
		return nil, nil
	}
	return p.Clone(), nil
}

// List возвращает парковки владельца, сначала новые
func (r *ParkinglotRepository) List(_ context.Context, ownerID domain.OwnerID) ([]*domain.Parkinglot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Parkinglot, 0)
	for _, p := range r.lots {
		if p.OwnerID == ownerID {
			out = append(out, p.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
