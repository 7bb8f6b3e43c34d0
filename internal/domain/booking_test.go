package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestBooking(t *testing.T, duration *time.Duration) *Booking {
	t.Helper()
	b, err := CreateBooking(NewID[bookingTag](), NewID[driverTag](), NewID[parkinglotTag](), duration, "near the gate", testNow)
	require.NoError(t, err)
	return b
}

func kinds(events []DomainEvent) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind())
	}
	return out
}

func TestCreateBooking(t *testing.T) {
	hour := time.Hour
	b := newTestBooking(t, &hour)

	assert.Equal(t, StateCreated, b.State)
	assert.Nil(t, b.Price)
	assert.Nil(t, b.SpaceID)
	assert.Equal(t, 0, b.Version)
	assert.Equal(t, testNow, b.CreatedAt)

	events := b.PullEvents()
	require.Len(t, events, 1)
	created, ok := events[0].Payload.(BookingCreated)
	require.True(t, ok)
	assert.Equal(t, b.ID.String(), events[0].AggregateID)
	assert.Equal(t, b.ParkinglotID, created.ParkinglotID)
	assert.Equal(t, b.DriverID, created.DriverID)
	require.NotNil(t, created.Duration())
	assert.Equal(t, time.Hour, *created.Duration())

	assert.Empty(t, b.PullEvents(), "pulling clears the buffer")
}

func TestCreateBooking_Validation(t *testing.T) {
	zero := time.Duration(0)
	negative := -time.Minute
	tooLong := MaxBookingDuration + time.Hour

	tests := []struct {
		name     string
		duration *time.Duration
		desc     string
		wantErr  error
	}{
		{name: "zero duration", duration: &zero, wantErr: ErrInvalidDuration},
		{name: "negative duration", duration: &negative, wantErr: ErrInvalidDuration},
		{name: "duration too long", duration: &tooLong, wantErr: ErrInvalidInput},
		{name: "description too long", desc: string(make([]byte, MaxDescriptionLength+1)), wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := CreateBooking(NewID[bookingTag](), NewID[driverTag](), NewID[parkinglotTag](), tt.duration, tt.desc, testNow)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, b)
		})
	}
}

func TestCreateBooking_WithoutDuration(t *testing.T) {
	b := newTestBooking(t, nil)
	events := b.PullEvents()
	require.Len(t, events, 1)
	assert.Nil(t, events[0].Payload.(BookingCreated).Duration())
}

func TestBooking_Cancel(t *testing.T) {
	t.Run("accommodated emits two events", func(t *testing.T) {
		b := newTestBooking(t, nil)
		space := NewID[parkingSpaceTag]()
		b.Accommodate(2.5, space, testNow)
		b.PullEvents()

		b.Cancel(testNow.Add(time.Minute))

		events := b.PullEvents()
		assert.Equal(t, []EventKind{KindAccommodatedBookingCanceled, KindBookingCanceled}, kinds(events))
		handBack := events[0].Payload.(AccommodatedBookingCanceled)
		assert.Equal(t, space, handBack.SpaceID)
		assert.Equal(t, b.ParkinglotID, handBack.ParkinglotID)
		assert.Equal(t, StateCanceled, b.State)
	})

	t.Run("created emits one event", func(t *testing.T) {
		b := newTestBooking(t, nil)
		b.PullEvents()

		b.Cancel(testNow)

		assert.Equal(t, []EventKind{KindBookingCanceled}, kinds(b.PullEvents()))
		assert.Equal(t, StateCanceled, b.State)
	})

	t.Run("canceled is idempotent", func(t *testing.T) {
		b := newTestBooking(t, nil)
		b.Cancel(testNow)
		b.PullEvents()
		updated := b.UpdatedAt

		b.Cancel(testNow.Add(time.Hour))

		assert.Empty(t, b.PullEvents())
		assert.Equal(t, StateCanceled, b.State)
		assert.Equal(t, updated, b.UpdatedAt)
	})

	t.Run("refused is terminal", func(t *testing.T) {
		b := newTestBooking(t, nil)
		b.Refuse(testNow)
		b.PullEvents()

		b.Cancel(testNow)

		assert.Empty(t, b.PullEvents())
		assert.Equal(t, StateRefused, b.State)
	})
}

func TestBooking_Accommodate(t *testing.T) {
	t.Run("from created", func(t *testing.T) {
		b := newTestBooking(t, nil)
		b.PullEvents()
		space := NewID[parkingSpaceTag]()

		b.Accommodate(2.5, space, testNow)

		assert.Equal(t, StateAccommodated, b.State)
		require.NotNil(t, b.Price)
		assert.Equal(t, 2.5, *b.Price)
		require.NotNil(t, b.SpaceID)
		assert.Equal(t, space, *b.SpaceID)
		assert.Empty(t, b.PullEvents())
	})

	t.Run("same space redelivered", func(t *testing.T) {
		b := newTestBooking(t, nil)
		space := NewID[parkingSpaceTag]()
		b.Accommodate(2.5, space, testNow)
		b.PullEvents()

		b.Accommodate(2.5, space, testNow)

		assert.Empty(t, b.PullEvents())
		assert.Equal(t, space, *b.SpaceID)
	})

	t.Run("second space is handed back", func(t *testing.T) {
		b := newTestBooking(t, nil)
		first := NewID[parkingSpaceTag]()
		second := NewID[parkingSpaceTag]()
		b.Accommodate(2.5, first, testNow)
		b.PullEvents()

		b.Accommodate(2.5, second, testNow)

		events := b.PullEvents()
		require.Len(t, events, 1)
		assert.Equal(t, second, events[0].Payload.(AccommodatedBookingCanceled).SpaceID)
		assert.Equal(t, first, *b.SpaceID)
	})

	for _, terminal := range []func(*Booking){
		func(b *Booking) { b.Cancel(testNow) },
		func(b *Booking) { b.Refuse(testNow) },
	} {
		b := newTestBooking(t, nil)
		terminal(b)
		b.PullEvents()
		state := b.State
		space := NewID[parkingSpaceTag]()

		b.Accommodate(2.5, space, testNow)

		events := b.PullEvents()
		require.Len(t, events, 1, "late allocation after %s is handed back", state)
		assert.Equal(t, KindAccommodatedBookingCanceled, events[0].Kind())
		assert.Equal(t, state, b.State)
		assert.Nil(t, b.SpaceID)
	}
}

func TestBooking_AssignPrice(t *testing.T) {
	b := newTestBooking(t, nil)
	b.AssignPrice(3, testNow)

	assert.Equal(t, StateAccommodated, b.State)
	assert.Equal(t, 3.0, *b.Price)
	assert.Nil(t, b.SpaceID)

	b.AssignPrice(5, testNow)
	assert.Equal(t, 3.0, *b.Price)
}

func TestBooking_Refuse(t *testing.T) {
	b := newTestBooking(t, nil)
	b.Accommodate(1, NewID[parkingSpaceTag](), testNow)

	b.Refuse(testNow)

	assert.Equal(t, StateAccommodated, b.State, "only CREATED can be refused")
}

func TestBooking_StartFinish(t *testing.T) {
	b := newTestBooking(t, nil)

	b.Finish(testNow)
	assert.Nil(t, b.FinishedAt, "departure without arrival is ignored")

	arrived := testNow.Add(time.Minute)
	b.Start(arrived)
	b.Start(arrived.Add(time.Minute))
	require.NotNil(t, b.StartedAt)
	assert.Equal(t, arrived, *b.StartedAt)

	left := arrived.Add(time.Hour)
	b.Finish(left)
	b.Finish(left.Add(time.Hour))
	require.NotNil(t, b.FinishedAt)
	assert.Equal(t, left, *b.FinishedAt)
	assert.Equal(t, StateCreated, b.State)
}

func TestBooking_Clone(t *testing.T) {
	b := newTestBooking(t, nil)
	b.Accommodate(2.5, NewID[parkingSpaceTag](), testNow)

	c := b.Clone()
	*c.Price = 100

	assert.Equal(t, 2.5, *b.Price)
	assert.Zero(t, c.PendingEvents())
	assert.Equal(t, 1, b.PendingEvents())
}
