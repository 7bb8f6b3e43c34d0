package domain

// Occupancy summarizes how many spaces of a parkinglot are taken
type Occupancy struct {
	FreeSpaces  int
	TotalSpaces int
}

// Occupancy returns the current occupancy of the lot
func (p *Parkinglot) Occupancy() Occupancy {
	return Occupancy{FreeSpaces: p.FreeSpaces, TotalSpaces: len(p.Spaces)}
}

// IsFull returns true if no space can be allocated
func (o Occupancy) IsFull() bool {
	return o.FreeSpaces <= 0
}

// IsEmpty returns true if every registered space is free
func (o Occupancy) IsEmpty() bool {
	return o.FreeSpaces == o.TotalSpaces
}

// Rate returns the occupancy rate as a percentage (0-100)
func (o Occupancy) Rate() float64 {
	if o.TotalSpaces == 0 {
		return 0
	}
	occupied := o.TotalSpaces - o.FreeSpaces
	return float64(occupied) / float64(o.TotalSpaces) * 100
}
