package domain

import "time"

// ParkingSpace is a physical space of a parkinglot.
// BookingID and DriverID are set and cleared together; ArrivedAt only exists while booked.
type ParkingSpace struct {
	ID          ParkingSpaceID `json:"id"`
	Sequence    int            `json:"sequence"`
	DriverID    *DriverID      `json:"driver_id,omitempty"`
	BookingID   *BookingID     `json:"booking_id,omitempty"`
	BookedFrom  *time.Time     `json:"booked_from,omitempty"`
	BookedUntil *time.Time     `json:"booked_until,omitempty"`
	ArrivedAt   *time.Time     `json:"arrived_at,omitempty"`
}

// IsBooked returns true if the space holds an active booking
func (s *ParkingSpace) IsBooked() bool {
	return s.BookingID != nil
}

func (s *ParkingSpace) book(driverID DriverID, bookingID BookingID, duration *time.Duration, now time.Time) {
	s.DriverID = &driverID
	s.BookingID = &bookingID
	s.BookedFrom = &now
	s.BookedUntil = nil
	if duration != nil {
		until := now.Add(*duration)
		s.BookedUntil = &until
	}
	s.ArrivedAt = nil
}

func (s *ParkingSpace) release() {
	s.DriverID = nil
	s.BookingID = nil
	s.BookedFrom = nil
	s.BookedUntil = nil
	s.ArrivedAt = nil
}

func (s ParkingSpace) clone() ParkingSpace {
	s.DriverID = clonePtr(s.DriverID)
	s.BookingID = clonePtr(s.BookingID)
	s.BookedFrom = clonePtr(s.BookedFrom)
	s.BookedUntil = clonePtr(s.BookedUntil)
	s.ArrivedAt = clonePtr(s.ArrivedAt)
	return s
}
