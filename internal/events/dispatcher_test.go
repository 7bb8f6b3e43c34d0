package events

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type handledMetrics struct {
	handled map[string]int
	failed  map[string]int
}

func newHandledMetrics() *handledMetrics {
	return &handledMetrics{handled: map[string]int{}, failed: map[string]int{}}
}

func (m *handledMetrics) ObserveEventHandled(kind string, err error) {
	if err != nil {
		m.failed[kind]++
		return
	}
	m.handled[kind]++
}

func event(payload domain.EventPayload) domain.DomainEvent {
	return domain.DomainEvent{ID: uuid.New(), AggregateID: uuid.NewString(), CreatedOn: time.Now(), Payload: payload}
}

func TestDispatcher_UnknownKindIsSkipped(t *testing.T) {
	d := NewDispatcher(3, nil, logger.NewNop())

	assert.NoError(t, d.Handle(context.Background(), event(domain.BookingCanceled{})))
}

func TestDispatcher_RetriesConflicts(t *testing.T) {
	m := newHandledMetrics()
	d := NewDispatcher(3, m, logger.NewNop())
	calls := 0
	d.Register(domain.KindBookingRefused, func(context.Context, domain.DomainEvent) error {
		calls++
		if calls < 3 {
			return fmt.Errorf("save: %w", domain.ErrConcurrencyConflict)
		}
		return nil
	})

	require.NoError(t, d.Handle(context.Background(), event(domain.BookingRefused{})))
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, m.handled[string(domain.KindBookingRefused)])
}

func TestDispatcher_RetriesExhausted(t *testing.T) {
	m := newHandledMetrics()
	d := NewDispatcher(2, m, logger.NewNop())
	calls := 0
	d.Register(domain.KindBookingRefused, func(context.Context, domain.DomainEvent) error {
		calls++
		return domain.ErrConcurrencyConflict
	})

	err := d.Handle(context.Background(), event(domain.BookingRefused{}))

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, m.failed[string(domain.KindBookingRefused)])
}

func TestDispatcher_OtherErrorsAreNotRetried(t *testing.T) {
	d := NewDispatcher(5, nil, logger.NewNop())
	boom := errors.New("db down")
	calls := 0
	d.Register(domain.KindDriverLeft, func(context.Context, domain.DomainEvent) error {
		calls++
		return boom
	})

	err := d.Handle(context.Background(), event(domain.DriverLeft{}))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDispatcher_HandlersRunInRegistrationOrder(t *testing.T) {
	d := NewDispatcher(1, nil, logger.NewNop())
	var order []int
	d.Register(domain.KindDriverArrived, func(context.Context, domain.DomainEvent) error { order = append(order, 1); return nil })
	d.Register(domain.KindDriverArrived, func(context.Context, domain.DomainEvent) error { order = append(order, 2); return nil })

	require.NoError(t, d.Handle(context.Background(), event(domain.DriverArrived{})))
	assert.Equal(t, []int{1, 2}, order)
}
