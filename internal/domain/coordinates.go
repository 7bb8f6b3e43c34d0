package domain

import "fmt"

// Coordinates is a WGS84 position
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks latitude in [-90, 90] and longitude in (-180, 180]
func (c Coordinates) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinates, c.Latitude)
	}
	if c.Longitude <= -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinates, c.Longitude)
	}
	return nil
}

// CellLocator maps a position to its hex cell at the fixed indexing resolution
type CellLocator interface {
	CellAt(c Coordinates) (string, error)
}
