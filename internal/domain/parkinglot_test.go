package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLocator struct {
	cell string
	err  error
}

func (s stubLocator) CellAt(Coordinates) (string, error) {
	return s.cell, s.err
}

func newTestParkinglot(t *testing.T, price float64) *Parkinglot {
	t.Helper()
	p, err := CreateParkinglot(CreateParkinglotParams{
		ID:          NewID[parkinglotTag](),
		OwnerID:     NewID[ownerTag](),
		Name:        "Central",
		Street:      "Gran Via 1",
		Coordinates: Coordinates{Latitude: 40.0, Longitude: -3.0},
		Price:       price,
	}, stubLocator{cell: "88390ca36dfffff"}, testNow)
	require.NoError(t, err)
	return p
}

func withSpaces(t *testing.T, p *Parkinglot, n int) []ParkingSpaceID {
	t.Helper()
	ids := make([]ParkingSpaceID, n)
	for i := range ids {
		ids[i] = NewID[parkingSpaceTag]()
	}
	require.NoError(t, p.RegisterSpaces(ids, testNow))
	p.PullEvents()
	return ids
}

func assertFreeSpacesInvariant(t *testing.T, p *Parkinglot) {
	t.Helper()
	assert.Equal(t, p.CountFreeSpaces(), p.FreeSpaces)
	for _, s := range p.Spaces {
		assert.Equal(t, s.BookingID == nil, s.DriverID == nil, "booking and driver set together")
		if s.BookingID == nil {
			assert.Nil(t, s.ArrivedAt)
		}
	}
}

func TestCreateParkinglot(t *testing.T) {
	p := newTestParkinglot(t, 2.5)

	assert.Equal(t, "88390ca36dfffff", p.Cell)
	assert.Zero(t, p.FreeSpaces)
	assert.Empty(t, p.Spaces)

	events := p.PullEvents()
	require.Len(t, events, 1)
	created := events[0].Payload.(ParkinglotCreated)
	assert.Equal(t, p.OwnerID, created.OwnerID)
	assert.Equal(t, p.Cell, created.Cell)
	assert.Equal(t, p.ID.String(), events[0].AggregateID)
}

func TestCreateParkinglot_Validation(t *testing.T) {
	valid := CreateParkinglotParams{
		ID:          NewID[parkinglotTag](),
		OwnerID:     NewID[ownerTag](),
		Name:        "Central",
		Coordinates: Coordinates{Latitude: 40, Longitude: -3},
	}

	tests := []struct {
		name    string
		mutate  func(*CreateParkinglotParams)
		locator CellLocator
		wantErr error
	}{
		{name: "latitude out of range", mutate: func(p *CreateParkinglotParams) { p.Coordinates.Latitude = 91 }, wantErr: ErrInvalidCoordinates},
		{name: "longitude -180 excluded", mutate: func(p *CreateParkinglotParams) { p.Coordinates.Longitude = -180 }, wantErr: ErrInvalidCoordinates},
		{name: "negative price", mutate: func(p *CreateParkinglotParams) { p.Price = -1 }, wantErr: ErrInvalidPrice},
		{name: "empty name", mutate: func(p *CreateParkinglotParams) { p.Name = "" }, wantErr: ErrInvalidInput},
		{name: "missing owner", mutate: func(p *CreateParkinglotParams) { p.OwnerID = OwnerID{} }, wantErr: ErrInvalidInput},
		{name: "locator failure", locator: stubLocator{err: errors.New("boom")}, wantErr: ErrInvalidCoordinates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := valid
			if tt.mutate != nil {
				tt.mutate(&params)
			}
			locator := tt.locator
			if locator == nil {
				locator = stubLocator{cell: "cell"}
			}

			p, err := CreateParkinglot(params, locator, testNow)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, p)
		})
	}

	t.Run("longitude 180 included", func(t *testing.T) {
		params := valid
		params.Coordinates.Longitude = 180
		_, err := CreateParkinglot(params, stubLocator{cell: "cell"}, testNow)
		assert.NoError(t, err)
	})
}

func TestParkinglot_RegisterSpaces(t *testing.T) {
	p := newTestParkinglot(t, 1)
	p.PullEvents()
	first := withSpaces(t, p, 2)

	third := NewID[parkingSpaceTag]()
	require.NoError(t, p.RegisterSpaces([]ParkingSpaceID{third}, testNow))

	events := p.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, third, events[0].Payload.(ParkingSpaceCreated).SpaceID)

	require.Len(t, p.Spaces, 3)
	assert.Equal(t, first[0], p.Spaces[0].ID)
	for i, s := range p.Spaces {
		assert.Equal(t, i, s.Sequence)
	}
	assert.Equal(t, 3, p.FreeSpaces)
	assertFreeSpacesInvariant(t, p)
}

func TestParkinglot_RegisterSpaces_Duplicates(t *testing.T) {
	p := newTestParkinglot(t, 1)
	existing := withSpaces(t, p, 1)
	fresh := NewID[parkingSpaceTag]()

	tests := map[string][]ParkingSpaceID{
		"already registered": {fresh, existing[0]},
		"repeated in input":  {fresh, fresh},
	}
	for name, ids := range tests {
		t.Run(name, func(t *testing.T) {
			err := p.RegisterSpaces(ids, testNow)
			assert.ErrorIs(t, err, ErrDuplicateSpace)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Len(t, p.Spaces, 1)
			assert.Equal(t, 1, p.FreeSpaces)
			assert.Empty(t, p.PullEvents())
		})
	}
}

func TestParkinglot_ChangePrice(t *testing.T) {
	p := newTestParkinglot(t, 1)
	p.PullEvents()

	require.NoError(t, p.ChangePrice(4.75, testNow))
	assert.Equal(t, 4.75, p.Price)
	assert.Empty(t, p.PullEvents())

	assert.ErrorIs(t, p.ChangePrice(-0.01, testNow), ErrInvalidPrice)
	assert.Equal(t, 4.75, p.Price)
}

func TestParkinglot_AccommodateBooking_FirstFit(t *testing.T) {
	p := newTestParkinglot(t, 1)
	spaces := withSpaces(t, p, 3)

	// B is taken, A and C are free
	p.AccommodateBooking(NewID[driverTag](), NewID[bookingTag](), nil, FlatPricing{}, testNow)
	p.AccommodateBooking(NewID[driverTag](), NewID[bookingTag](), nil, FlatPricing{}, testNow)
	p.ReleaseSpace(spaces[0], testNow)
	p.PullEvents()
	require.False(t, p.Spaces[0].IsBooked())
	require.True(t, p.Spaces[1].IsBooked())

	booking := NewID[bookingTag]()
	p.AccommodateBooking(NewID[driverTag](), booking, nil, FlatPricing{}, testNow)

	events := p.PullEvents()
	require.Len(t, events, 1)
	accommodated := events[0].Payload.(BookingAccommodated)
	assert.Equal(t, spaces[0], accommodated.SpaceID)
	assert.Equal(t, booking, accommodated.BookingID)
	assert.Equal(t, 1, p.FreeSpaces)
	assertFreeSpacesInvariant(t, p)
}

func TestParkinglot_AccommodateBooking_TwoSpaces(t *testing.T) {
	p := newTestParkinglot(t, 1)
	spaces := withSpaces(t, p, 2)
	assert.Equal(t, 2, p.FreeSpaces)

	driver := NewID[driverTag]()
	p.AccommodateBooking(driver, NewID[bookingTag](), nil, FlatPricing{}, testNow)
	p.AccommodateBooking(driver, NewID[bookingTag](), nil, FlatPricing{}, testNow)

	events := p.PullEvents()
	require.Len(t, events, 2)
	assert.Equal(t, spaces[0], events[0].Payload.(BookingAccommodated).SpaceID)
	assert.Equal(t, spaces[1], events[1].Payload.(BookingAccommodated).SpaceID)
	assert.Zero(t, p.FreeSpaces)
	assertFreeSpacesInvariant(t, p)
}

func TestParkinglot_AccommodateBooking_Refused(t *testing.T) {
	p := newTestParkinglot(t, 1)
	withSpaces(t, p, 1)
	p.AccommodateBooking(NewID[driverTag](), NewID[bookingTag](), nil, FlatPricing{}, testNow)
	p.PullEvents()

	booking := NewID[bookingTag]()
	p.AccommodateBooking(NewID[driverTag](), booking, nil, FlatPricing{}, testNow)

	events := p.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, BookingRefused{BookingID: booking}, events[0].Payload)
	assert.Zero(t, p.FreeSpaces)

	empty := newTestParkinglot(t, 1)
	empty.PullEvents()
	empty.AccommodateBooking(NewID[driverTag](), booking, nil, FlatPricing{}, testNow)
	assert.Equal(t, []EventKind{KindBookingRefused}, kinds(empty.PullEvents()))
}

func TestParkinglot_AccommodateBooking_Window(t *testing.T) {
	p := newTestParkinglot(t, 2)
	withSpaces(t, p, 2)
	duration := 90 * time.Minute

	p.AccommodateBooking(NewID[driverTag](), NewID[bookingTag](), &duration, DurationPricing{Unit: time.Hour}, testNow)
	p.AccommodateBooking(NewID[driverTag](), NewID[bookingTag](), nil, DurationPricing{Unit: time.Hour}, testNow)

	first := p.Spaces[0]
	require.NotNil(t, first.BookedFrom)
	require.NotNil(t, first.BookedUntil)
	assert.Equal(t, testNow, *first.BookedFrom)
	assert.Equal(t, testNow.Add(duration), *first.BookedUntil)
	assert.Nil(t, p.Spaces[1].BookedUntil)

	events := p.PullEvents()
	require.Len(t, events, 2)
	assert.Equal(t, 3.0, events[0].Payload.(BookingAccommodated).Price)
	assert.Equal(t, 2.0, events[1].Payload.(BookingAccommodated).Price)
}

func TestParkinglot_ReleaseSpace(t *testing.T) {
	p := newTestParkinglot(t, 1)
	spaces := withSpaces(t, p, 2)
	driver := NewID[driverTag]()
	booking := NewID[bookingTag]()
	p.AccommodateBooking(driver, booking, nil, FlatPricing{}, testNow)
	require.NoError(t, p.TakeSpace(spaces[0], testNow))
	p.PullEvents()

	p.ReleaseSpace(spaces[0], testNow)

	events := p.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, DriverLeft{SpaceID: spaces[0], DriverID: driver, BookingID: booking}, events[0].Payload)
	assert.False(t, p.Spaces[0].IsBooked())
	assert.Nil(t, p.Spaces[0].ArrivedAt)
	assert.Equal(t, 2, p.FreeSpaces)
	assertFreeSpacesInvariant(t, p)

	p.ReleaseSpace(spaces[0], testNow)
	p.ReleaseSpace(NewID[parkingSpaceTag](), testNow)
	assert.Empty(t, p.PullEvents())
	assert.Equal(t, 2, p.FreeSpaces)
}

func TestParkinglot_ReleaseBookedSpace(t *testing.T) {
	p := newTestParkinglot(t, 1)
	spaces := withSpaces(t, p, 1)
	holder := NewID[bookingTag]()
	p.AccommodateBooking(NewID[driverTag](), holder, nil, FlatPricing{}, testNow)
	p.PullEvents()

	p.ReleaseBookedSpace(spaces[0], NewID[bookingTag](), testNow)
	assert.Empty(t, p.PullEvents())
	assert.True(t, p.Spaces[0].IsBooked())

	p.ReleaseBookedSpace(spaces[0], holder, testNow)
	assert.Equal(t, []EventKind{KindDriverLeft}, kinds(p.PullEvents()))
	assert.Equal(t, 1, p.FreeSpaces)
}

func TestParkinglot_TakeSpace(t *testing.T) {
	p := newTestParkinglot(t, 1)
	spaces := withSpaces(t, p, 2)
	driver := NewID[driverTag]()
	booking := NewID[bookingTag]()
	p.AccommodateBooking(driver, booking, nil, FlatPricing{}, testNow)
	p.PullEvents()

	arrived := testNow.Add(5 * time.Minute)
	require.NoError(t, p.TakeSpace(spaces[0], arrived))
	events := p.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, DriverArrived{SpaceID: spaces[0], DriverID: driver, BookingID: booking}, events[0].Payload)
	require.NotNil(t, p.Spaces[0].ArrivedAt)
	assert.Equal(t, arrived, *p.Spaces[0].ArrivedAt)

	require.NoError(t, p.TakeSpace(spaces[1], arrived))
	events = p.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, DriverArrivedAtUnBookedSpace{SpaceID: spaces[1]}, events[0].Payload)
	assert.False(t, p.Spaces[1].IsBooked())
	assert.Nil(t, p.Spaces[1].ArrivedAt)
	assert.Equal(t, 1, p.FreeSpaces)

	err := p.TakeSpace(NewID[parkingSpaceTag](), arrived)
	assert.ErrorIs(t, err, ErrUnknownSpace)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, p.PullEvents())
	assertFreeSpacesInvariant(t, p)
}

func TestParkinglot_Concentrator(t *testing.T) {
	p := newTestParkinglot(t, 1)
	first := NewID[concentratorTag]()
	second := NewID[concentratorTag]()

	assert.False(t, p.IsConcentratorAuthorized(first))

	require.NoError(t, p.RegisterConcentrator(first, testNow))
	assert.True(t, p.IsConcentratorAuthorized(first))

	require.NoError(t, p.RegisterConcentrator(second, testNow))
	assert.False(t, p.IsConcentratorAuthorized(first))
	assert.True(t, p.IsConcentratorAuthorized(second))

	assert.ErrorIs(t, p.RegisterConcentrator(ConcentratorID{}, testNow), ErrInvalidInput)
}

func TestParkinglot_Clone(t *testing.T) {
	p := newTestParkinglot(t, 1)
	withSpaces(t, p, 1)
	p.AccommodateBooking(NewID[driverTag](), NewID[bookingTag](), nil, FlatPricing{}, testNow)

	c := p.Clone()
	c.Spaces[0].release()
	c.FreeSpaces++

	assert.True(t, p.Spaces[0].IsBooked())
	assert.Zero(t, p.FreeSpaces)
	assert.Zero(t, c.PendingEvents())
}

// A lot at (40.0, -3.0) priced 2.50 with one space accommodates a booking and
// communicates the lot price on the accommodation event.
func TestScenario_AccommodationCarriesLotPrice(t *testing.T) {
	p := newTestParkinglot(t, 2.50)
	space := withSpaces(t, p, 1)[0]

	b := newTestBooking(t, nil)
	created := b.PullEvents()[0].Payload.(BookingCreated)

	p.AccommodateBooking(created.DriverID, b.ID, created.Duration(), FlatPricing{}, testNow)
	events := p.PullEvents()
	require.Len(t, events, 1)
	accommodated := events[0].Payload.(BookingAccommodated)
	assert.Equal(t, 2.50, accommodated.Price)
	assert.Equal(t, space, accommodated.SpaceID)

	b.Accommodate(accommodated.Price, accommodated.SpaceID, testNow)
	assert.Equal(t, StateAccommodated, b.State)
	assert.Equal(t, 2.50, *b.Price)
	assert.Equal(t, space, *b.SpaceID)
	assert.Zero(t, p.FreeSpaces)
}
