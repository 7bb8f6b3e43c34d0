package events

import (
	"context"
	"errors"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Consumer чтение записей группы потребителей; *kgo.Client удовлетворяет интерфейсу
type Consumer interface {
	PollFetches(ctx context.Context) kgo.Fetches
	CommitUncommittedOffsets(ctx context.Context) error
}

// Handler обработчик декодированного события
type Handler interface {
	Handle(ctx context.Context, e domain.DomainEvent) error
}

const (
	defaultRetryDelay    = 500 * time.Millisecond
	defaultMaxRetryDelay = 30 * time.Second
)

// Worker читает события из Kafka и передает их диспетчеру.
// Записи одной выборки обрабатываются последовательно, смещения фиксируются после обработки.
// Запись с временной ошибкой повторяется, пока не будет обработана, поэтому смещение
// никогда не фиксируется за необработанной записью.
type Worker struct {
	consumer      Consumer
	handler       Handler
	logger        Logger
	retryDelay    time.Duration
	maxRetryDelay time.Duration
}

// NewWorker создает воркер событий
func NewWorker(consumer Consumer, handler Handler, logger Logger) *Worker {
	return &Worker{
		consumer:      consumer,
		handler:       handler,
		logger:        logger,
		retryDelay:    defaultRetryDelay,
		maxRetryDelay: defaultMaxRetryDelay,
	}
}

// Run обрабатывает события до отмены контекста или закрытия клиента
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("Worker.Run: started")
	for {
		fetches := w.consumer.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			w.logger.Info("Worker.Run: stopped")
			return nil
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			w.logger.Error("Worker.Run: fetch error topic=%s partition=%d: %v", topic, partition, err)
		})

		fetches.EachRecord(func(r *kgo.Record) {
			if ctx.Err() != nil {
				return
			}
			w.process(ctx, r)
		})

		// Выборка прервана отменой: незафиксированные записи будут доставлены снова
		if ctx.Err() != nil {
			w.logger.Info("Worker.Run: stopped before commit")
			return nil
		}

		if err := w.consumer.CommitUncommittedOffsets(ctx); err != nil {
			w.logger.Error("Worker.Run: failed to commit offsets: %v", err)
		}
	}
}

// process декодирует и обрабатывает одну запись. Записи, которые нельзя обработать
// ни при какой повторной доставке, логируются и пропускаются. Остальные ошибки
// повторяются с нарастающей задержкой до успеха или отмены контекста.
func (w *Worker) process(ctx context.Context, r *kgo.Record) {
	e, err := domain.UnmarshalEvent(r.Value)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownEventKind) {
			w.logger.Info("Worker.process: skipping unknown event at partition=%d offset=%d: %v", r.Partition, r.Offset, err)
			return
		}
		w.logger.Error("Worker.process: failed to decode record at partition=%d offset=%d: %v", r.Partition, r.Offset, err)
		return
	}

	delay := w.retryDelay
	for attempt := 1; ; attempt++ {
		err := w.handler.Handle(ctx, e)
		if err == nil {
			w.logger.Info("Worker.process: handled %s id=%s aggregate=%s", e.Kind(), e.ID, e.AggregateID)
			return
		}
		if permanent(err) {
			w.logger.Error("Worker.process: dropping %s id=%s aggregate=%s: %v", e.Kind(), e.ID, e.AggregateID, err)
			return
		}

		w.logger.Warn("Worker.process: attempt %d for %s id=%s failed, retrying in %s: %v",
			attempt, e.Kind(), e.ID, delay, err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
		if delay > w.maxRetryDelay {
			delay = w.maxRetryDelay
		}
	}
}

// permanent сообщает, что повторная обработка события не изменит результат
func permanent(err error) bool {
	return errors.Is(err, ErrMalformedEvent) ||
		errors.Is(err, domain.ErrUnknownEventKind) ||
		errors.Is(err, domain.ErrInvalidInput)
}
