package domain

import (
	"time"

	"github.com/google/uuid"
)

// Metadata is the bookkeeping every aggregate embeds.
// Version is the optimistic concurrency token: it holds the version the aggregate was loaded
// with (0 for a new aggregate) and is advanced by the repository after a successful save.
type Metadata struct {
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m *Metadata) touch(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// eventBuffer accumulates events until the caller pulls them after persistence
type eventBuffer struct {
	pending []DomainEvent
}

func (b *eventBuffer) record(aggregateID string, now time.Time, payload EventPayload) {
	b.pending = append(b.pending, DomainEvent{
		ID:          uuid.New(),
		AggregateID: aggregateID,
		CreatedOn:   now,
		Payload:     payload,
	})
}

// PullEvents returns the recorded events in emission order and clears the buffer
func (b *eventBuffer) PullEvents() []DomainEvent {
	events := b.pending
	b.pending = nil
	return events
}

// PendingEvents returns the number of recorded events not pulled yet
func (b *eventBuffer) PendingEvents() int {
	return len(b.pending)
}
