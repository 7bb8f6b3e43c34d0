package domain

import (
	"fmt"
	"math"
	"time"
)

// PricingPolicy decides the price communicated when a booking is accommodated
type PricingPolicy interface {
	Quote(price float64, duration *time.Duration) float64
}

// FlatPricing communicates the lot's current price unchanged
type FlatPricing struct{}

func (FlatPricing) Quote(price float64, _ *time.Duration) float64 {
	return price
}

// DurationPricing treats the lot price as a price per Unit and charges the requested duration.
// Bookings without a duration fall back to the flat price.
type DurationPricing struct {
	Unit time.Duration
}

func (p DurationPricing) Quote(price float64, duration *time.Duration) float64 {
	if duration == nil || p.Unit <= 0 {
		return price
	}
	cost := price * (float64(*duration) / float64(p.Unit))
	return math.Round(cost*100) / 100
}

// NewPricingPolicy resolves a configured policy name
func NewPricingPolicy(name string) (PricingPolicy, error) {
	switch name {
	case "", PricingFlat:
		return FlatPricing{}, nil
	case PricingDuration:
		return DurationPricing{Unit: time.Hour}, nil
	default:
		return nil, fmt.Errorf("%w: unknown pricing policy %q", ErrInvalidInput, name)
	}
}
