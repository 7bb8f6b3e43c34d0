package eventbus

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Handler обработчик событий, которому синхронная шина передает опубликованные события
type Handler interface {
	Handle(ctx context.Context, e domain.DomainEvent) error
}

// Producer отправка записей в Kafka; *kgo.Client удовлетворяет интерфейсу
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Metrics учет опубликованных событий; *metrics.Metrics удовлетворяет интерфейсу
type Metrics interface {
	ObserveEventPublished(kind string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
