package parkinglots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

var (
	// ErrParkinglotNotFound возвращается, когда парковка не найдена или принадлежит другому владельцу
	ErrParkinglotNotFound = errors.New("parkinglot not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("parkinglots: %w", domain.ErrInvalidInput)

	// ErrUnauthorizedConcentrator возвращается, когда сигнал прислал не зарегистрированный концентратор
	ErrUnauthorizedConcentrator = fmt.Errorf("parkinglots: %w", domain.ErrUnauthorizedConcentrator)

	// ErrConflict возвращается, когда парковку изменили параллельно
	ErrConflict = fmt.Errorf("parkinglots: %w", domain.ErrConcurrencyConflict)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("parkinglots: internal error")
)

// Результаты размещения для метрик
const (
	OutcomeAccommodated = "accommodated"
	OutcomeRefused      = "refused"
)
