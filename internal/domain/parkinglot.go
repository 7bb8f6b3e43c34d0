package domain

import (
	"fmt"
	"time"
)

// Parkinglot owns the space inventory of one physical lot and allocates spaces to bookings.
// FreeSpaces always equals the number of spaces without a booking; Cell is derived once at
// creation and never recomputed.
type Parkinglot struct {
	ID             ParkinglotID
	OwnerID        OwnerID
	Name           string
	Street         string
	Coordinates    Coordinates
	Cell           string
	Price          float64
	ConcentratorID *ConcentratorID
	Spaces         []ParkingSpace
	FreeSpaces     int

	Metadata
	eventBuffer
}

// CreateParkinglotParams holds the owner supplied attributes of a new parkinglot
type CreateParkinglotParams struct {
	ID          ParkinglotID
	OwnerID     OwnerID
	Name        string
	Street      string
	Coordinates Coordinates
	Price       float64
}

// CreateParkinglot validates the attributes, derives the hex cell and records ParkinglotCreated
func CreateParkinglot(params CreateParkinglotParams, locator CellLocator, now time.Time) (*Parkinglot, error) {
	if params.ID.IsZero() || params.OwnerID.IsZero() {
		return nil, fmt.Errorf("%w: parkinglot and owner ids are required", ErrInvalidInput)
	}
	if params.Name == "" || len(params.Name) > MaxNameLength {
		return nil, fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidInput, MaxNameLength)
	}
	if len(params.Street) > MaxStreetLength {
		return nil, fmt.Errorf("%w: street exceeds %d characters", ErrInvalidInput, MaxStreetLength)
	}
	if err := params.Coordinates.Validate(); err != nil {
		return nil, err
	}
	if params.Price < 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidPrice, params.Price)
	}

	cell, err := locator.CellAt(params.Coordinates)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
	}

	p := &Parkinglot{
		ID:          params.ID,
		OwnerID:     params.OwnerID,
		Name:        params.Name,
		Street:      params.Street,
		Coordinates: params.Coordinates,
		Cell:        cell,
		Price:       params.Price,
		Spaces:      []ParkingSpace{},
	}
	p.touch(now)
	p.record(p.ID.String(), now, ParkinglotCreated{
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Street:      p.Street,
		Coordinates: p.Coordinates,
		Cell:        p.Cell,
	})
	return p, nil
}

// RegisterSpaces appends spaces in input order, continuing the sequence from the current length
func (p *Parkinglot) RegisterSpaces(ids []ParkingSpaceID, now time.Time) error {
	seen := make(map[ParkingSpaceID]struct{}, len(p.Spaces)+len(ids))
	for _, s := range p.Spaces {
		seen[s.ID] = struct{}{}
	}
	for _, id := range ids {
		if id.IsZero() {
			return fmt.Errorf("%w: space id is required", ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateSpace, id)
		}
		seen[id] = struct{}{}
	}

	for _, id := range ids {
		p.Spaces = append(p.Spaces, ParkingSpace{ID: id, Sequence: len(p.Spaces)})
		p.FreeSpaces++
		p.record(p.ID.String(), now, ParkingSpaceCreated{SpaceID: id})
	}
	if len(ids) > 0 {
		p.touch(now)
	}
	return nil
}

// ChangePrice replaces the price. No event: price is only read by queries.
func (p *Parkinglot) ChangePrice(price float64, now time.Time) error {
	if price < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidPrice, price)
	}
	p.Price = price
	p.touch(now)
	return nil
}

// AccommodateBooking allocates the first free space in registration order.
// A full lot records BookingRefused; refusal is a business outcome, not an error.
// Two calls with different booking ids consume two spaces: there is no de-duplication by driver.
func (p *Parkinglot) AccommodateBooking(
	driverID DriverID,
	bookingID BookingID,
	duration *time.Duration,
	pricing PricingPolicy,
	now time.Time,
) {
	if p.FreeSpaces <= 0 {
		p.record(p.ID.String(), now, BookingRefused{BookingID: bookingID})
		return
	}

	space := p.firstFreeSpace()
	if space == nil {
		p.record(p.ID.String(), now, BookingRefused{BookingID: bookingID})
		return
	}

	if pricing == nil {
		pricing = FlatPricing{}
	}

	space.book(driverID, bookingID, duration, now)
	p.FreeSpaces--
	p.touch(now)
	p.record(p.ID.String(), now, BookingAccommodated{
		BookingID: bookingID,
		Price:     pricing.Quote(p.Price, duration),
		SpaceID:   space.ID,
	})
}

// firstFreeSpace scans by ascending sequence; Spaces is kept in that order
func (p *Parkinglot) firstFreeSpace() *ParkingSpace {
	for i := range p.Spaces {
		if !p.Spaces[i].IsBooked() {
			return &p.Spaces[i]
		}
	}
	return nil
}

// ReleaseSpace frees a booked space, recording DriverLeft before clearing occupancy.
// Unknown or free spaces are a no-op.
func (p *Parkinglot) ReleaseSpace(spaceID ParkingSpaceID, now time.Time) {
	space := p.space(spaceID)
	if space == nil || !space.IsBooked() {
		return
	}
	p.release(space, now)
}

// ReleaseBookedSpace frees the space only while it still holds bookingID
func (p *Parkinglot) ReleaseBookedSpace(spaceID ParkingSpaceID, bookingID BookingID, now time.Time) {
	space := p.space(spaceID)
	if space == nil || !space.IsBooked() || *space.BookingID != bookingID {
		return
	}
	p.release(space, now)
}

func (p *Parkinglot) release(space *ParkingSpace, now time.Time) {
	p.record(p.ID.String(), now, DriverLeft{
		SpaceID:   space.ID,
		DriverID:  *space.DriverID,
		BookingID: *space.BookingID,
	})
	space.release()
	p.FreeSpaces++
	p.touch(now)
}

// RegisterConcentrator binds the lot to exactly one concentrator, replacing any previous one
func (p *Parkinglot) RegisterConcentrator(id ConcentratorID, now time.Time) error {
	if id.IsZero() {
		return fmt.Errorf("%w: concentrator id is required", ErrInvalidInput)
	}
	p.ConcentratorID = &id
	p.touch(now)
	return nil
}

// IsConcentratorAuthorized reports whether id is the registered concentrator.
// TakeSpace and ReleaseSpace do not check it; callers must.
func (p *Parkinglot) IsConcentratorAuthorized(id ConcentratorID) bool {
	return p.ConcentratorID != nil && *p.ConcentratorID == id
}

// TakeSpace records a physical arrival reported by the concentrator.
// An arrival at a space without booking is an anomaly signal and changes nothing else.
func (p *Parkinglot) TakeSpace(spaceID ParkingSpaceID, now time.Time) error {
	space := p.space(spaceID)
	if space == nil {
		return fmt.Errorf("%w: %s", ErrUnknownSpace, spaceID)
	}
	if !space.IsBooked() {
		p.record(p.ID.String(), now, DriverArrivedAtUnBookedSpace{SpaceID: spaceID})
		return nil
	}

	space.ArrivedAt = &now
	p.touch(now)
	p.record(p.ID.String(), now, DriverArrived{
		SpaceID:   space.ID,
		DriverID:  *space.DriverID,
		BookingID: *space.BookingID,
	})
	return nil
}

// Space returns a copy of the space with the given id
func (p *Parkinglot) Space(spaceID ParkingSpaceID) (ParkingSpace, bool) {
	space := p.space(spaceID)
	if space == nil {
		return ParkingSpace{}, false
	}
	return space.clone(), true
}

func (p *Parkinglot) space(spaceID ParkingSpaceID) *ParkingSpace {
	for i := range p.Spaces {
		if p.Spaces[i].ID == spaceID {
			return &p.Spaces[i]
		}
	}
	return nil
}

// CountFreeSpaces recomputes the free counter from the spaces themselves
func (p *Parkinglot) CountFreeSpaces() int {
	free := 0
	for i := range p.Spaces {
		if !p.Spaces[i].IsBooked() {
			free++
		}
	}
	return free
}

// Clone returns a deep copy without pending events
func (p *Parkinglot) Clone() *Parkinglot {
	c := *p
	c.eventBuffer = eventBuffer{}
	c.ConcentratorID = clonePtr(p.ConcentratorID)
	c.Spaces = make([]ParkingSpace, len(p.Spaces))
	for i, s := range p.Spaces {
		c.Spaces[i] = s.clone()
	}
	return &c
}
