package create_booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fixedCell string

func (c fixedCell) CellAt(domain.Coordinates) (string, error) { return string(c), nil }

type recordingBus struct {
	events []domain.DomainEvent
	err    error
}

func (b *recordingBus) Publish(_ context.Context, events []domain.DomainEvent) error {
	if b.err != nil {
		return b.err
	}
	b.events = append(b.events, events...)
	return nil
}

type failingLots struct{ err error }

func (f failingLots) Get(context.Context, domain.ParkinglotID, *domain.OwnerID) (*domain.Parkinglot, error) {
	return nil, f.err
}

type fixture struct {
	uc       *UseCase
	bookings *memory.BookingRepository
	bus      *recordingBus
	lot      *domain.Parkinglot
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	lots := memory.NewParkinglotRepository()
	lot, err := domain.CreateParkinglot(domain.CreateParkinglotParams{
		ID:          domain.NewParkinglotID(),
		OwnerID:     domain.NewOwnerID(),
		Name:        "Central",
		Coordinates: domain.Coordinates{Latitude: 40.4, Longitude: -3.7},
		Price:       2.5,
	}, fixedCell("88390ca36dfffff"), testNow)
	require.NoError(t, err)
	require.NoError(t, lots.Save(context.Background(), lot))

	f := &fixture{
		bookings: memory.NewBookingRepository(),
		bus:      &recordingBus{},
		lot:      lot,
	}
	f.uc = NewUseCase(f.bookings, lots, f.bus, logger.NewNop())
	f.uc.timeProvider = fixedTime{testNow}
	return f
}

func TestExecute_CreatesBookingAndPublishesEvent(t *testing.T) {
	f := newFixture(t)
	driverID := domain.NewDriverID()
	d := 90 * time.Minute

	resp, err := f.uc.Execute(context.Background(), &Request{
		DriverID:     driverID,
		ParkinglotID: f.lot.ID,
		Description:  "near the gate",
		Duration:     &d,
	})
	require.NoError(t, err)

	assert.False(t, resp.ID.IsZero(), "zero id is generated")
	assert.Equal(t, string(domain.StateCreated), resp.State)
	assert.Equal(t, testNow, resp.CreatedAt)

	stored, err := f.bookings.Get(context.Background(), resp.ID, &driverID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 1, stored.Version)

	require.Len(t, f.bus.events, 1)
	e := f.bus.events[0]
	assert.Equal(t, domain.KindBookingCreated, e.Kind())
	assert.Equal(t, resp.ID.String(), e.AggregateID)
	payload, ok := e.Payload.(domain.BookingCreated)
	require.True(t, ok)
	assert.Equal(t, f.lot.ID, payload.ParkinglotID)
	assert.Equal(t, &d, payload.Duration())
}

func TestExecute_ClientChosenIDIsKeptAndRepeatConflicts(t *testing.T) {
	f := newFixture(t)
	req := &Request{BookingID: domain.NewBookingID(), DriverID: domain.NewDriverID(), ParkinglotID: f.lot.ID}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req.BookingID, resp.ID)

	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBookingExists)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Len(t, f.bus.events, 1, "nothing published for the repeat")
}

func TestExecute_IDOfAnotherDriverLooksInvalid(t *testing.T) {
	f := newFixture(t)
	first := &Request{BookingID: domain.NewBookingID(), DriverID: domain.NewDriverID(), ParkinglotID: f.lot.ID}
	_, err := f.uc.Execute(context.Background(), first)
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), &Request{BookingID: first.BookingID, DriverID: domain.NewDriverID(), ParkinglotID: f.lot.ID})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrBookingExists)
	assert.Len(t, f.bus.events, 1)
}

func TestExecute_Validation(t *testing.T) {
	zero := time.Duration(0)

	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{name: "missing driver", mutate: func(r *Request) { r.DriverID = domain.DriverID{} }},
		{name: "missing parkinglot", mutate: func(r *Request) { r.ParkinglotID = domain.ParkinglotID{} }},
		{name: "long description", mutate: func(r *Request) { r.Description = strings.Repeat("a", domain.MaxDescriptionLength+1) }},
		{name: "zero duration", mutate: func(r *Request) { r.Duration = &zero }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := &Request{DriverID: domain.NewDriverID(), ParkinglotID: f.lot.ID}
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, f.bus.events)
		})
	}
}

func TestExecute_UnknownParkinglot(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{DriverID: domain.NewDriverID(), ParkinglotID: domain.NewParkinglotID()})

	assert.ErrorIs(t, err, ErrParkinglotNotFound)
	assert.Empty(t, f.bus.events)
}

func TestExecute_InfrastructureFailures(t *testing.T) {
	t.Run("parkinglot lookup", func(t *testing.T) {
		uc := NewUseCase(memory.NewBookingRepository(), failingLots{err: errors.New("db down")}, &recordingBus{}, logger.NewNop())

		_, err := uc.Execute(context.Background(), &Request{DriverID: domain.NewDriverID(), ParkinglotID: domain.NewParkinglotID()})

		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("publish", func(t *testing.T) {
		f := newFixture(t)
		f.bus.err = errors.New("broker down")

		_, err := f.uc.Execute(context.Background(), &Request{DriverID: domain.NewDriverID(), ParkinglotID: f.lot.ID})

		assert.ErrorIs(t, err, ErrInternal)
	})
}
