package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями.
// Каждая изменяющая операция загружает агрегат, вызывает его операцию, сохраняет и публикует события.
type Service struct {
	bookingRepo  BookingRepository
	bus          EventBus
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, bus EventBus, logger Logger) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		bus:          bus,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Get получает бронирование водителя по ID
func (s *Service) Get(ctx context.Context, id domain.BookingID, driverID domain.DriverID) (*models.BookingResponse, error) {
	s.logger.Info("Get: fetching booking id=%s for driver=%s", id, driverID)

	booking, err := s.bookingRepo.Get(ctx, id, &driverID)
	if err != nil {
		s.logger.Error("Get: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	if booking == nil {
		s.logger.Warn("Get: booking id=%s not found for driver=%s", id, driverID)
		return nil, ErrBookingNotFound
	}

	return models.FromDomainBooking(booking), nil
}

// List получает бронирования водителя, сначала новые
func (s *Service) List(ctx context.Context, driverID domain.DriverID) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings for driver=%s", driverID)

	bookings, err := s.bookingRepo.List(ctx, driverID)
	if err != nil {
		s.logger.Error("List: repository error for driver=%s: %v", driverID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings for driver=%s", len(bookings), driverID)
	return models.FromDomainBookingList(bookings), nil
}

// CancelByDriver отменяет бронирование по запросу водителя.
// Повторная отмена не ошибка: агрегат ничего не меняет и не порождает событий.
func (s *Service) CancelByDriver(ctx context.Context, id domain.BookingID, driverID domain.DriverID) error {
	s.logger.Info("CancelByDriver: cancelling booking id=%s by driver=%s", id, driverID)

	booking, err := s.bookingRepo.Get(ctx, id, &driverID)
	if err != nil {
		s.logger.Error("CancelByDriver: repository error for booking id=%s: %v", id, err)
		return fmt.Errorf("%w: CancelByDriver - repository error: %v", ErrInternal, err)
	}
	if booking == nil {
		s.logger.Warn("CancelByDriver: booking id=%s not found for driver=%s", id, driverID)
		return ErrBookingNotFound
	}

	booking.Cancel(s.timeProvider.Now())
	if err := s.persist(ctx, "CancelByDriver", booking); err != nil {
		return err
	}

	s.logger.Info("CancelByDriver: booking id=%s is %s", id, booking.State)
	return nil
}

// Accommodate фиксирует место и цену, выделенные парковкой (обработчик BookingAccommodated)
func (s *Service) Accommodate(ctx context.Context, id domain.BookingID, price float64, spaceID domain.ParkingSpaceID) error {
	return s.react(ctx, "Accommodate", id, func(b *domain.Booking) {
		b.Accommodate(price, spaceID, s.timeProvider.Now())
	})
}

// Refuse отмечает бронирование, которое парковка не смогла разместить (обработчик BookingRefused)
func (s *Service) Refuse(ctx context.Context, id domain.BookingID) error {
	return s.react(ctx, "Refuse", id, func(b *domain.Booking) {
		b.Refuse(s.timeProvider.Now())
	})
}

// Start фиксирует прибытие водителя (обработчик DriverArrived)
func (s *Service) Start(ctx context.Context, id domain.BookingID) error {
	return s.react(ctx, "Start", id, func(b *domain.Booking) {
		b.Start(s.timeProvider.Now())
	})
}

// Finish фиксирует отъезд водителя (обработчик DriverLeft)
func (s *Service) Finish(ctx context.Context, id domain.BookingID) error {
	return s.react(ctx, "Finish", id, func(b *domain.Booking) {
		b.Finish(s.timeProvider.Now())
	})
}

// react выполняет цикл загрузки и сохранения для обработчиков событий.
// Отсутствующее бронирование не ошибка: событие пропускается.
func (s *Service) react(ctx context.Context, op string, id domain.BookingID, mutate func(b *domain.Booking)) error {
	booking, err := s.bookingRepo.Get(ctx, id, nil)
	if err != nil {
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	if booking == nil {
		s.logger.Warn("%s: booking id=%s not found, skipping", op, id)
		return nil
	}

	mutate(booking)
	if err := s.persist(ctx, op, booking); err != nil {
		return err
	}
	s.logger.Info("%s: booking id=%s is %s", op, id, booking.State)
	return nil
}

// persist сохраняет бронирование и публикует накопленные события в порядке записи
func (s *Service) persist(ctx context.Context, op string, booking *domain.Booking) error {
	if err := s.bookingRepo.Save(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			s.logger.Warn("%s: version conflict for booking id=%s: %v", op, booking.ID, err)
			return fmt.Errorf("%w: %s - booking id=%s", ErrConflict, op, booking.ID)
		}
		s.logger.Error("%s: failed to save booking id=%s: %v", op, booking.ID, err)
		return fmt.Errorf("%w: %s - save: %v", ErrInternal, op, err)
	}

	if err := s.bus.Publish(ctx, booking.PullEvents()); err != nil {
		s.logger.Error("%s: failed to publish events of booking id=%s: %v", op, booking.ID, err)
		return fmt.Errorf("%w: %s - publish: %v", ErrInternal, op, err)
	}
	return nil
}
