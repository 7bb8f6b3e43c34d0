package domain

// ParkinglotSummary is the searchable projection of a parkinglot, keyed by its hex cell
type ParkinglotSummary struct {
	ID          ParkinglotID `json:"parkinglot_id"`
	Cell        string       `json:"h3_cell"`
	Name        string       `json:"name"`
	Street      string       `json:"street"`
	Coordinates Coordinates  `json:"coordinates"`
}

// Summary returns the searchable projection of the parkinglot
func (p *Parkinglot) Summary() ParkinglotSummary {
	return ParkinglotSummary{
		ID:          p.ID,
		Cell:        p.Cell,
		Name:        p.Name,
		Street:      p.Street,
		Coordinates: p.Coordinates,
	}
}

// SummaryFromEvent builds the projection from a ParkinglotCreated event
func SummaryFromEvent(e DomainEvent) (ParkinglotSummary, bool) {
	created, ok := e.Payload.(ParkinglotCreated)
	if !ok {
		return ParkinglotSummary{}, false
	}
	id, err := ParseID[parkinglotTag](e.AggregateID)
	if err != nil {
		return ParkinglotSummary{}, false
	}
	return ParkinglotSummary{
		ID:          id,
		Cell:        created.Cell,
		Name:        created.Name,
		Street:      created.Street,
		Coordinates: created.Coordinates,
	}, true
}
