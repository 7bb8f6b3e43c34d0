package eventbus

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// MemoryBus синхронная шина для локального окружения.
// События передаются обработчику в порядке публикации в той же горутине.
// Ошибка обработчика логируется и не возвращается издателю: агрегат уже сохранен.
type MemoryBus struct {
	handler Handler
	metrics Metrics
	logger  Logger
}

// NewMemoryBus создает синхронную шину; handler можно подключить позже через Subscribe
func NewMemoryBus(metrics Metrics, logger Logger) *MemoryBus {
	return &MemoryBus{metrics: metrics, logger: logger}
}

// Subscribe подключает обработчик. Сервисы и обработчики зависят друг от друга через шину,
// поэтому обработчик подключается после создания сервисов.
func (b *MemoryBus) Subscribe(h Handler) {
	b.handler = h
}

// Publish передает события обработчику по одному
func (b *MemoryBus) Publish(ctx context.Context, events []domain.DomainEvent) error {
	for _, e := range events {
		observePublished(b.metrics, e)
		if b.handler == nil {
			continue
		}
		if err := b.handler.Handle(ctx, e); err != nil {
			b.logger.Error("MemoryBus.Publish: handler failed for %s aggregate=%s: %v", e.Kind(), e.AggregateID, err)
		}
	}
	return nil
}

func observePublished(m Metrics, e domain.DomainEvent) {
	if m != nil {
		m.ObserveEventPublished(string(e.Kind()))
	}
}
