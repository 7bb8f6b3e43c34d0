package eventbus

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

const (
	HeaderName        = "name"
	HeaderAggregateID = "aggregate_id"
)

// KafkaBus публикует события в топик Kafka.
// Ключ записи это ID агрегата, поэтому события одного агрегата попадают в одну партицию и
// сохраняют порядок.
type KafkaBus struct {
	producer Producer
	topic    string
	metrics  Metrics
	logger   Logger
}

// NewKafkaBus создает шину поверх продюсера franz-go
func NewKafkaBus(producer Producer, topic string, metrics Metrics, logger Logger) *KafkaBus {
	return &KafkaBus{
		producer: producer,
		topic:    topic,
		metrics:  metrics,
		logger:   logger,
	}
}

// Publish синхронно отправляет события одной пачкой в порядке публикации
func (b *KafkaBus) Publish(ctx context.Context, events []domain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	records := make([]*kgo.Record, 0, len(events))
	for _, e := range events {
		r, err := b.record(e)
		if err != nil {
			return err
		}
		records = append(records, r)
	}

	if err := b.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
		b.logger.Error("KafkaBus.Publish: failed to produce %d events to %s: %v", len(records), b.topic, err)
		return fmt.Errorf("%w: Publish - topic %s: %v", ErrProduce, b.topic, err)
	}

	for _, e := range events {
		observePublished(b.metrics, e)
	}
	return nil
}

func (b *KafkaBus) record(e domain.DomainEvent) (*kgo.Record, error) {
	value, err := domain.MarshalEvent(e)
	if err != nil {
		return nil, fmt.Errorf("%w: Publish - event %s: %v", ErrEncodeEvent, e.ID, err)
	}
	return &kgo.Record{
		Topic: b.topic,
		Key:   []byte(e.AggregateID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: HeaderName, Value: []byte(e.Kind())},
			{Key: HeaderAggregateID, Value: []byte(e.AggregateID)},
		},
	}, nil
}
