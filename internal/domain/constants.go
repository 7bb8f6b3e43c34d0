package domain

import "time"

// CellResolution is the H3 resolution used both when indexing a parkinglot and when
// converting search coordinates, so both sides land on the same tessellation.
const CellResolution = 8

// Search defaults
const (
	DefaultSearchStartDistance = 0
	DefaultSearchEndDistance   = 10
	DefaultSearchLimit         = 10
)

// Business validation constants
const (
	MaxDescriptionLength = 500
	MaxNameLength        = 200
	MaxStreetLength      = 300
	MaxBookingDuration   = 30 * 24 * time.Hour
)

// Pricing policies
const (
	PricingFlat     = "flat"
	PricingDuration = "duration"
)
