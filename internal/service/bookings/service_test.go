package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

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

func (b *recordingBus) kinds() []domain.EventKind {
	out := make([]domain.EventKind, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Kind())
	}
	return out
}

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Save(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockRepo) Get(ctx context.Context, id domain.BookingID, driverID *domain.DriverID) (*domain.Booking, error) {
	args := m.Called(ctx, id, driverID)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, driverID domain.DriverID) ([]*domain.Booking, error) {
	args := m.Called(ctx, driverID)
	list, _ := args.Get(0).([]*domain.Booking)
	return list, args.Error(1)
}

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newService(repo BookingRepository, bus EventBus) *Service {
	s := NewService(repo, bus, logger.NewNop())
	s.timeProvider = fixedTime{now: testNow}
	return s
}

func seed(t *testing.T, repo *memory.BookingRepository, driverID domain.DriverID) *domain.Booking {
	t.Helper()
	b, err := domain.CreateBooking(domain.NewBookingID(), driverID, domain.NewParkinglotID(), nil, "near the gate", testNow)
	require.NoError(t, err)
	b.PullEvents()
	require.NoError(t, repo.Save(context.Background(), b))
	return b
}

func TestService_Get(t *testing.T) {
	repo := memory.NewBookingRepository()
	driver := domain.NewDriverID()
	b := seed(t, repo, driver)
	s := newService(repo, &recordingBus{})

	resp, err := s.Get(context.Background(), b.ID, driver)
	require.NoError(t, err)
	assert.Equal(t, b.ID.String(), resp.ID)
	assert.Equal(t, "CREATED", resp.State)
	assert.Equal(t, "near the gate", resp.Description)

	_, err = s.Get(context.Background(), b.ID, domain.NewDriverID())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_List(t *testing.T) {
	repo := memory.NewBookingRepository()
	driver := domain.NewDriverID()
	seed(t, repo, driver)
	seed(t, repo, driver)
	seed(t, repo, domain.NewDriverID())

	resp, err := newService(repo, &recordingBus{}).List(context.Background(), driver)

	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)
}

func TestService_CancelByDriver_Accommodated(t *testing.T) {
	repo := memory.NewBookingRepository()
	bus := &recordingBus{}
	driver := domain.NewDriverID()
	b := seed(t, repo, driver)
	s := newService(repo, bus)
	ctx := context.Background()

	require.NoError(t, s.Accommodate(ctx, b.ID, 2.5, domain.NewParkingSpaceID()))
	require.NoError(t, s.CancelByDriver(ctx, b.ID, driver))

	assert.Equal(t, []domain.EventKind{
		domain.KindAccommodatedBookingCanceled,
		domain.KindBookingCanceled,
	}, bus.kinds())

	stored, _ := repo.Get(ctx, b.ID, nil)
	assert.Equal(t, domain.StateCanceled, stored.State)

	// повторная отмена ничего не публикует
	require.NoError(t, s.CancelByDriver(ctx, b.ID, driver))
	assert.Len(t, bus.events, 2)
}

func TestService_CancelByDriver_NotOwner(t *testing.T) {
	repo := memory.NewBookingRepository()
	b := seed(t, repo, domain.NewDriverID())

	err := newService(repo, &recordingBus{}).CancelByDriver(context.Background(), b.ID, domain.NewDriverID())

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_HandlersSkipMissingBooking(t *testing.T) {
	s := newService(memory.NewBookingRepository(), &recordingBus{})
	ctx := context.Background()
	id := domain.NewBookingID()

	assert.NoError(t, s.Accommodate(ctx, id, 1, domain.NewParkingSpaceID()))
	assert.NoError(t, s.Refuse(ctx, id))
	assert.NoError(t, s.Start(ctx, id))
	assert.NoError(t, s.Finish(ctx, id))
}

func TestService_RefuseStartFinish(t *testing.T) {
	repo := memory.NewBookingRepository()
	ctx := context.Background()
	s := newService(repo, &recordingBus{})

	refused := seed(t, repo, domain.NewDriverID())
	require.NoError(t, s.Refuse(ctx, refused.ID))
	stored, _ := repo.Get(ctx, refused.ID, nil)
	assert.Equal(t, domain.StateRefused, stored.State)

	trip := seed(t, repo, domain.NewDriverID())
	require.NoError(t, s.Accommodate(ctx, trip.ID, 2.5, domain.NewParkingSpaceID()))
	require.NoError(t, s.Start(ctx, trip.ID))
	require.NoError(t, s.Finish(ctx, trip.ID))
	stored, _ = repo.Get(ctx, trip.ID, nil)
	require.NotNil(t, stored.StartedAt)
	require.NotNil(t, stored.FinishedAt)
	assert.Equal(t, domain.StateAccommodated, stored.State)
}

func TestService_AccommodateAfterRefusalHandsSpaceBack(t *testing.T) {
	repo := memory.NewBookingRepository()
	bus := &recordingBus{}
	ctx := context.Background()
	s := newService(repo, bus)
	b := seed(t, repo, domain.NewDriverID())

	require.NoError(t, s.Refuse(ctx, b.ID))
	require.NoError(t, s.Accommodate(ctx, b.ID, 2.5, domain.NewParkingSpaceID()))

	assert.Equal(t, []domain.EventKind{domain.KindAccommodatedBookingCanceled}, bus.kinds())
}

func TestService_SaveConflict(t *testing.T) {
	repo := &mockRepo{}
	b, err := domain.CreateBooking(domain.NewBookingID(), domain.NewDriverID(), domain.NewParkinglotID(), nil, "", testNow)
	require.NoError(t, err)
	b.Version = 1
	repo.On("Get", mock.Anything, b.ID, (*domain.DriverID)(nil)).Return(b, nil)
	repo.On("Save", mock.Anything, b).Return(memory.ErrConcurrencyConflict)
	bus := &recordingBus{}

	err = newService(repo, bus).Refuse(context.Background(), b.ID)

	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Empty(t, bus.events)
	repo.AssertExpectations(t)
}

func TestService_RepositoryAndBusFailures(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
	s := newService(repo, &recordingBus{})

	assert.ErrorIs(t, s.Start(context.Background(), domain.NewBookingID()), ErrInternal)
	_, err := s.Get(context.Background(), domain.NewBookingID(), domain.NewDriverID())
	assert.ErrorIs(t, err, ErrInternal)

	mem := memory.NewBookingRepository()
	driver := domain.NewDriverID()
	b := seed(t, mem, driver)
	err = newService(mem, &recordingBus{err: errors.New("kafka down")}).CancelByDriver(context.Background(), b.ID, driver)
	assert.ErrorIs(t, err, ErrInternal)
}
