package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// HandlerFunc реакция на одно событие
type HandlerFunc func(ctx context.Context, e domain.DomainEvent) error

// Dispatcher реестр обработчиков по виду события.
// Конфликт версий внутри обработчика повторяется: обработчик перечитывает агрегат при каждой попытке.
type Dispatcher struct {
	handlers map[domain.EventKind][]HandlerFunc
	retries  int
	metrics  Metrics
	logger   Logger
}

// NewDispatcher создает пустой реестр; retries это число попыток при конфликте версий
func NewDispatcher(retries int, metrics Metrics, logger Logger) *Dispatcher {
	if retries < 1 {
		retries = 1
	}
	return &Dispatcher{
		handlers: make(map[domain.EventKind][]HandlerFunc),
		retries:  retries,
		metrics:  metrics,
		logger:   logger,
	}
}

// Register добавляет обработчик вида события; обработчики вызываются в порядке регистрации
func (d *Dispatcher) Register(kind domain.EventKind, h HandlerFunc) {
	d.handlers[kind] = append(d.handlers[kind], h)
}

// Handle вызывает обработчики события. Событие без обработчиков пропускается.
func (d *Dispatcher) Handle(ctx context.Context, e domain.DomainEvent) error {
	handlers, ok := d.handlers[e.Kind()]
	if !ok {
		return nil
	}

	for _, h := range handlers {
		err := d.run(ctx, e, h)
		d.observe(e, err)
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) run(ctx context.Context, e domain.DomainEvent, h HandlerFunc) error {
	var err error
	for attempt := 1; attempt <= d.retries; attempt++ {
		err = h(ctx, e)
		if err == nil || !errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		d.logger.Warn("Dispatcher.Handle: conflict on %s aggregate=%s, attempt %d/%d: %v",
			e.Kind(), e.AggregateID, attempt, d.retries, err)
	}
	return fmt.Errorf("%w: %s aggregate=%s: %v", ErrRetriesExhausted, e.Kind(), e.AggregateID, err)
}

func (d *Dispatcher) observe(e domain.DomainEvent, err error) {
	if d.metrics != nil {
		d.metrics.ObserveEventHandled(string(e.Kind()), err)
	}
}
