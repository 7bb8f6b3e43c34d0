package parkinglots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/parkinglots/models"
)

// Service сервис для работы с парковками
type Service struct {
	lotRepo      ParkinglotRepository
	bus          EventBus
	locator      domain.CellLocator
	pricing      domain.PricingPolicy
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса парковок.
// pricing определяет цену, сообщаемую бронированию при размещении; nil означает фиксированную цену.
func NewService(
	lotRepo ParkinglotRepository,
	bus EventBus,
	locator domain.CellLocator,
	pricing domain.PricingPolicy,
	metrics Metrics,
	logger Logger,
) *Service {
	if pricing == nil {
		pricing = domain.FlatPricing{}
	}
	return &Service{
		lotRepo:      lotRepo,
		bus:          bus,
		locator:      locator,
		pricing:      pricing,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Create создает парковку. Если у владельца уже есть парковка с этим ID, возвращается она.
func (s *Service) Create(ctx context.Context, req *models.CreateParkinglotRequest) (*models.ParkinglotResponse, error) {
	s.logger.Info("Create: creating parkinglot id=%s for owner=%s", req.ID, req.OwnerID)

	id := req.ID
	if id.IsZero() {
		id = domain.NewParkinglotID()
	}

	existing, err := s.lotRepo.Get(ctx, id, &req.OwnerID)
	if err != nil {
		s.logger.Error("Create: repository error for parkinglot id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}
	if existing != nil {
		s.logger.Info("Create: parkinglot id=%s already exists for owner=%s", id, req.OwnerID)
		return models.FromDomainParkinglot(existing), nil
	}

	lot, err := domain.CreateParkinglot(domain.CreateParkinglotParams{
		ID:          id,
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Street:      req.Street,
		Coordinates: domain.Coordinates{Latitude: req.Latitude, Longitude: req.Longitude},
		Price:       req.Price,
	}, s.locator, s.timeProvider.Now())
	if err != nil {
		s.logger.Warn("Create: rejected by domain: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.persist(ctx, "Create", lot); err != nil {
		return nil, err
	}

	s.logger.Info("Create: created parkinglot id=%s in cell=%s", lot.ID, lot.Cell)
	return models.FromDomainParkinglot(lot), nil
}

// Get получает парковку владельца по ID
func (s *Service) Get(ctx context.Context, id domain.ParkinglotID, ownerID domain.OwnerID) (*models.ParkinglotResponse, error) {
	lot, err := s.load(ctx, "Get", id, &ownerID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainParkinglot(lot), nil
}

// GetPublic получает публичное представление парковки
func (s *Service) GetPublic(ctx context.Context, id domain.ParkinglotID) (*models.PublicParkinglotResponse, error) {
	lot, err := s.load(ctx, "GetPublic", id, nil)
	if err != nil {
		return nil, err
	}
	return models.ToPublicParkinglot(lot), nil
}

// ListSpaces получает публичный список мест парковки
func (s *Service) ListSpaces(ctx context.Context, id domain.ParkinglotID) (*models.PublicSpaceListResponse, error) {
	lot, err := s.load(ctx, "ListSpaces", id, nil)
	if err != nil {
		return nil, err
	}
	return models.ToPublicSpaces(lot), nil
}

// List получает парковки владельца, сначала новые
func (s *Service) List(ctx context.Context, ownerID domain.OwnerID) (*models.ParkinglotListResponse, error) {
	s.logger.Info("List: fetching parkinglots for owner=%s", ownerID)

	lots, err := s.lotRepo.List(ctx, ownerID)
	if err != nil {
		s.logger.Error("List: repository error for owner=%s: %v", ownerID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d parkinglots for owner=%s", len(lots), ownerID)
	return models.FromDomainParkinglotList(lots), nil
}

// ChangePrice меняет цену парковки владельца
func (s *Service) ChangePrice(ctx context.Context, id domain.ParkinglotID, ownerID domain.OwnerID, price float64) error {
	return s.command(ctx, "ChangePrice", id, ownerID, func(lot *domain.Parkinglot, now time.Time) error {
		return lot.ChangePrice(price, now)
	})
}

// RegisterSpaces регистрирует места парковки владельца в переданном порядке
func (s *Service) RegisterSpaces(ctx context.Context, id domain.ParkinglotID, ownerID domain.OwnerID, spaceIDs []domain.ParkingSpaceID) error {
	return s.command(ctx, "RegisterSpaces", id, ownerID, func(lot *domain.Parkinglot, now time.Time) error {
		return lot.RegisterSpaces(spaceIDs, now)
	})
}

// RegisterConcentrator привязывает к парковке концентратор датчиков
func (s *Service) RegisterConcentrator(ctx context.Context, id domain.ParkinglotID, ownerID domain.OwnerID, concentratorID domain.ConcentratorID) error {
	return s.command(ctx, "RegisterConcentrator", id, ownerID, func(lot *domain.Parkinglot, now time.Time) error {
		return lot.RegisterConcentrator(concentratorID, now)
	})
}

// AccommodateBooking выделяет место бронированию (обработчик BookingCreated).
// Отказ из-за отсутствия мест не ошибка: парковка публикует BookingRefused.
func (s *Service) AccommodateBooking(
	ctx context.Context,
	id domain.ParkinglotID,
	driverID domain.DriverID,
	bookingID domain.BookingID,
	duration *time.Duration,
) error {
	lot, err := s.lotRepo.Get(ctx, id, nil)
	if err != nil {
		s.logger.Error("AccommodateBooking: repository error for parkinglot id=%s: %v", id, err)
		return fmt.Errorf("%w: AccommodateBooking - repository error: %v", ErrInternal, err)
	}
	if lot == nil {
		s.logger.Warn("AccommodateBooking: parkinglot id=%s not found, skipping booking=%s", id, bookingID)
		return nil
	}

	freeBefore := lot.FreeSpaces
	lot.AccommodateBooking(driverID, bookingID, duration, s.pricing, s.timeProvider.Now())
	if err := s.persist(ctx, "AccommodateBooking", lot); err != nil {
		return err
	}

	outcome := OutcomeAccommodated
	if lot.FreeSpaces == freeBefore {
		outcome = OutcomeRefused
	}
	if s.metrics != nil {
		s.metrics.ObserveAllocation(outcome)
	}
	s.logger.Info("AccommodateBooking: booking=%s %s by parkinglot id=%s, free spaces=%d", bookingID, outcome, id, lot.FreeSpaces)
	return nil
}

// ReleaseSpace освобождает место отмененного бронирования (обработчик AccommodatedBookingCanceled).
// Место освобождается, только пока оно занято этим бронированием.
func (s *Service) ReleaseSpace(ctx context.Context, id domain.ParkinglotID, spaceID domain.ParkingSpaceID, bookingID domain.BookingID) error {
	lot, err := s.lotRepo.Get(ctx, id, nil)
	if err != nil {
		s.logger.Error("ReleaseSpace: repository error for parkinglot id=%s: %v", id, err)
		return fmt.Errorf("%w: ReleaseSpace - repository error: %v", ErrInternal, err)
	}
	if lot == nil {
		s.logger.Warn("ReleaseSpace: parkinglot id=%s not found, skipping", id)
		return nil
	}

	lot.ReleaseBookedSpace(spaceID, bookingID, s.timeProvider.Now())
	if lot.PendingEvents() == 0 {
		s.logger.Info("ReleaseSpace: space=%s of parkinglot id=%s no longer held by booking=%s", spaceID, id, bookingID)
		return nil
	}

	if err := s.persist(ctx, "ReleaseSpace", lot); err != nil {
		return err
	}
	s.logger.Info("ReleaseSpace: released space=%s of parkinglot id=%s", spaceID, id)
	return nil
}

// TakeSpace обрабатывает сигнал концентратора о прибытии автомобиля на место
func (s *Service) TakeSpace(ctx context.Context, id domain.ParkinglotID, concentratorID domain.ConcentratorID, spaceID domain.ParkingSpaceID) error {
	return s.signal(ctx, "TakeSpace", id, concentratorID, func(lot *domain.Parkinglot, now time.Time) error {
		return lot.TakeSpace(spaceID, now)
	})
}

// LeaveSpace обрабатывает сигнал концентратора об отъезде автомобиля с места
func (s *Service) LeaveSpace(ctx context.Context, id domain.ParkinglotID, concentratorID domain.ConcentratorID, spaceID domain.ParkingSpaceID) error {
	return s.signal(ctx, "LeaveSpace", id, concentratorID, func(lot *domain.Parkinglot, now time.Time) error {
		if _, ok := lot.Space(spaceID); !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownSpace, spaceID)
		}
		lot.ReleaseSpace(spaceID, now)
		return nil
	})
}

// command выполняет изменяющую операцию владельца над его парковкой
func (s *Service) command(
	ctx context.Context,
	op string,
	id domain.ParkinglotID,
	ownerID domain.OwnerID,
	mutate func(lot *domain.Parkinglot, now time.Time) error,
) error {
	s.logger.Info("%s: parkinglot id=%s by owner=%s", op, id, ownerID)

	lot, err := s.load(ctx, op, id, &ownerID)
	if err != nil {
		return err
	}

	if err := mutate(lot, s.timeProvider.Now()); err != nil {
		s.logger.Warn("%s: rejected by domain for parkinglot id=%s: %v", op, id, err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.persist(ctx, op, lot); err != nil {
		return err
	}
	s.logger.Info("%s: parkinglot id=%s updated", op, id)
	return nil
}

// signal выполняет операцию по сигналу концентратора после проверки, что концентратор привязан к парковке
func (s *Service) signal(
	ctx context.Context,
	op string,
	id domain.ParkinglotID,
	concentratorID domain.ConcentratorID,
	mutate func(lot *domain.Parkinglot, now time.Time) error,
) error {
	lot, err := s.load(ctx, op, id, nil)
	if err != nil {
		return err
	}

	if !lot.IsConcentratorAuthorized(concentratorID) {
		s.logger.Warn("%s: concentrator=%s is not registered for parkinglot id=%s", op, concentratorID, id)
		return fmt.Errorf("%w: concentrator=%s parkinglot=%s", ErrUnauthorizedConcentrator, concentratorID, id)
	}

	if err := mutate(lot, s.timeProvider.Now()); err != nil {
		s.logger.Warn("%s: rejected by domain for parkinglot id=%s: %v", op, id, err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.persist(ctx, op, lot); err != nil {
		return err
	}
	s.logger.Info("%s: parkinglot id=%s processed signal of concentrator=%s", op, id, concentratorID)
	return nil
}

// load загружает парковку и превращает ее отсутствие в ErrParkinglotNotFound
func (s *Service) load(ctx context.Context, op string, id domain.ParkinglotID, ownerID *domain.OwnerID) (*domain.Parkinglot, error) {
	lot, err := s.lotRepo.Get(ctx, id, ownerID)
	if err != nil {
		s.logger.Error("%s: repository error for parkinglot id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	if lot == nil {
		s.logger.Warn("%s: parkinglot id=%s not found", op, id)
		return nil, ErrParkinglotNotFound
	}
	return lot, nil
}

// persist сохраняет парковку и публикует накопленные события в порядке записи
func (s *Service) persist(ctx context.Context, op string, lot *domain.Parkinglot) error {
	if err := s.lotRepo.Save(ctx, lot); err != nil {
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			s.logger.Warn("%s: version conflict for parkinglot id=%s: %v", op, lot.ID, err)
			return fmt.Errorf("%w: %s - parkinglot id=%s", ErrConflict, op, lot.ID)
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			s.logger.Warn("%s: parkinglot id=%s rejected by storage: %v", op, lot.ID, err)
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		s.logger.Error("%s: failed to save parkinglot id=%s: %v", op, lot.ID, err)
		return fmt.Errorf("%w: %s - save: %v", ErrInternal, op, err)
	}

	if err := s.bus.Publish(ctx, lot.PullEvents()); err != nil {
		s.logger.Error("%s: failed to publish events of parkinglot id=%s: %v", op, lot.ID, err)
		return fmt.Errorf("%w: %s - publish: %v", ErrInternal, op, err)
	}
	return nil
}
