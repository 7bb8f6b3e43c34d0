package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type countingMetrics struct {
	published []string
}

func (m *countingMetrics) ObserveEventPublished(kind string) {
	m.published = append(m.published, kind)
}

type recordingHandler struct {
	seen []domain.EventKind
	err  error
}

func (h *recordingHandler) Handle(_ context.Context, e domain.DomainEvent) error {
	h.seen = append(h.seen, e.Kind())
	return h.err
}

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (p *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		if p.err == nil {
			p.records = append(p.records, r)
		}
		results = append(results, kgo.ProduceResult{Record: r, Err: p.err})
	}
	return results
}

func cancelEvents(t *testing.T) []domain.DomainEvent {
	t.Helper()
	now := time.Now()
	b, err := domain.CreateBooking(domain.NewBookingID(), domain.NewDriverID(), domain.NewParkinglotID(), nil, "", now)
	require.NoError(t, err)
	b.Accommodate(2.5, domain.NewParkingSpaceID(), now)
	b.Cancel(now)
	return b.PullEvents()
}

func TestMemoryBus_DispatchesInOrder(t *testing.T) {
	m := &countingMetrics{}
	h := &recordingHandler{}
	bus := NewMemoryBus(m, logger.NewNop())
	bus.Subscribe(h)

	require.NoError(t, bus.Publish(context.Background(), cancelEvents(t)))

	assert.Equal(t, []domain.EventKind{
		domain.KindBookingCreated,
		domain.KindAccommodatedBookingCanceled,
		domain.KindBookingCanceled,
	}, h.seen)
	assert.Len(t, m.published, 3)
}

func TestMemoryBus_HandlerErrorDoesNotStopDispatch(t *testing.T) {
	h := &recordingHandler{err: errors.New("handler failed")}
	bus := NewMemoryBus(nil, logger.NewNop())
	bus.Subscribe(h)

	err := bus.Publish(context.Background(), cancelEvents(t))

	require.NoError(t, err)
	assert.Len(t, h.seen, 3)
}

func TestMemoryBus_WithoutHandler(t *testing.T) {
	bus := NewMemoryBus(nil, logger.NewNop())
	assert.NoError(t, bus.Publish(context.Background(), cancelEvents(t)))
}

func TestKafkaBus_RecordsKeyedByAggregate(t *testing.T) {
	producer := &fakeProducer{}
	m := &countingMetrics{}
	events := cancelEvents(t)

	err := NewKafkaBus(producer, "parking-events", m, logger.NewNop()).Publish(context.Background(), events)

	require.NoError(t, err)
	require.Len(t, producer.records, len(events))
	for i, r := range producer.records {
		assert.Equal(t, "parking-events", r.Topic)
		assert.Equal(t, events[i].AggregateID, string(r.Key))
		assert.Equal(t, HeaderName, r.Headers[0].Key)
		assert.Equal(t, string(events[i].Kind()), string(r.Headers[0].Value))

		decoded, err := domain.UnmarshalEvent(r.Value)
		require.NoError(t, err)
		assert.Equal(t, events[i].ID, decoded.ID)
		assert.Equal(t, events[i].Kind(), decoded.Kind())
	}
	assert.Len(t, m.published, len(events))
}

func TestKafkaBus_ProduceFailure(t *testing.T) {
	producer := &fakeProducer{err: errors.New("broker unavailable")}
	m := &countingMetrics{}

	err := NewKafkaBus(producer, "parking-events", m, logger.NewNop()).Publish(context.Background(), cancelEvents(t))

	assert.ErrorIs(t, err, ErrProduce)
	assert.Empty(t, m.published)
}

func TestKafkaBus_NoEvents(t *testing.T) {
	producer := &fakeProducer{}
	require.NoError(t, NewKafkaBus(producer, "t", nil, logger.NewNop()).Publish(context.Background(), nil))
	assert.Empty(t, producer.records)
}

func TestKafkaBus_EncodeFailure(t *testing.T) {
	producer := &fakeProducer{}
	bad := domain.DomainEvent{ID: uuid.New(), AggregateID: "x"}

	err := NewKafkaBus(producer, "t", nil, logger.NewNop()).Publish(context.Background(), []domain.DomainEvent{bad})

	assert.ErrorIs(t, err, ErrEncodeEvent)
	assert.Empty(t, producer.records)
}
