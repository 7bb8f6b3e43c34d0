package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// BookingRepository хранит копии бронирований в памяти процесса.
// Используется в локальном окружении и в тестах.
type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[domain.BookingID]*domain.Booking
}

// NewBookingRepository создает пустой репозиторий бронирований
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{bookings: make(map[domain.BookingID]*domain.Booking)}
}

// Save сохраняет копию бронирования, если сохраненная версия равна загруженной
func (r *BookingRepository) Save(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.bookings[b.ID]
	switch {
	case b.Version == 0 && exists:
		return fmt.Errorf("%w: booking id=%s already exists", ErrConcurrencyConflict, b.ID)
	case b.Version != 0 && (!exists || stored.Version != b.Version):
		return fmt.Errorf("%w: booking id=%s version=%d", ErrConcurrencyConflict, b.ID, b.Version)
	}

	b.Version++
	r.bookings[b.ID] = b.Clone()
	return nil
}

// Get возвращает копию бронирования или (nil, nil), если его нет или оно принадлежит другому водителю
func (r *BookingRepository) Get(_ context.Context, id domain.BookingID, driverID *domain.DriverID) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok || (driverID != nil && b.DriverID != *driverID) {
		return nil, nil
	}
	return b.Clone(), nil
}

// List возвращает бронирования водителя, сначала новые
func (r *BookingRepository) List(_ context.Context, driverID domain.DriverID) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.DriverID == driverID {
			out = append(out, b.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
