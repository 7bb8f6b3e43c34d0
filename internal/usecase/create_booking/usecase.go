package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// UseCase use case для создания бронирования.
// Место не выделяется синхронно: парковка размещает бронирование по событию BookingCreated.
type UseCase struct {
	bookingRepo    BookingRepository
	parkinglotRepo ParkinglotRepository
	bus            EventBus
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	parkinglotRepo ParkinglotRepository,
	bus EventBus,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		parkinglotRepo: parkinglotRepo,
		bus:            bus,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: driver=%s, parkinglot=%s, booking=%s", req.DriverID, req.ParkinglotID, req.BookingID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование парковки
	lot, err := uc.parkinglotRepo.Get(ctx, req.ParkinglotID, nil)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get parkinglot id=%s: %v", req.ParkinglotID, err)
		return nil, fmt.Errorf("%w: failed to get parkinglot: %v", ErrInternal, err)
	}
	if lot == nil {
		uc.logger.Warn("CreateBooking: parkinglot id=%s not found", req.ParkinglotID)
		return nil, ErrParkinglotNotFound
	}

	// 3. Создаем агрегат
	id := req.BookingID
	if id.IsZero() {
		id = domain.NewBookingID()
	}
	booking, err := domain.CreateBooking(id, req.DriverID, req.ParkinglotID, req.Duration, req.Description, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Warn("CreateBooking: rejected by domain: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 4. Сохраняем. Повторный запрос с тем же ID получает конфликт вставки.
	if err := uc.bookingRepo.Save(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			return nil, uc.existing(ctx, id, req.DriverID)
		}
		uc.logger.Error("CreateBooking: failed to save booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to save booking: %v", ErrInternal, err)
	}

	// 5. Публикуем BookingCreated
	if err := uc.bus.Publish(ctx, booking.PullEvents()); err != nil {
		uc.logger.Error("CreateBooking: failed to publish events of booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to publish events: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s", id)

	return &Response{
		ID:           booking.ID,
		DriverID:     booking.DriverID,
		ParkinglotID: booking.ParkinglotID,
		State:        string(booking.State),
		CreatedAt:    booking.CreatedAt,
	}, nil
}

// existing выбирает ошибку для занятого ID. Чужое бронирование отвечает так же,
// как некорректный ID, чтобы не раскрывать его существование.
func (uc *UseCase) existing(ctx context.Context, id domain.BookingID, driverID domain.DriverID) error {
	own, err := uc.bookingRepo.Get(ctx, id, &driverID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to check booking id=%s: %v", id, err)
		return fmt.Errorf("%w: failed to check existing booking: %v", ErrInternal, err)
	}
	if own == nil {
		uc.logger.Warn("CreateBooking: booking id=%s is taken by another driver", id)
		return fmt.Errorf("%w: id: booking id cannot be used", ErrInvalidInput)
	}
	uc.logger.Warn("CreateBooking: booking id=%s already exists", id)
	return ErrBookingExists
}
