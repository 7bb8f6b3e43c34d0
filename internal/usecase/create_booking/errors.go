package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

var (
	// ErrParkinglotNotFound возвращается, когда парковка не найдена
	ErrParkinglotNotFound = errors.New("create_booking: parkinglot not found")

	// ErrBookingExists возвращается, когда бронирование с таким ID уже создано
	ErrBookingExists = fmt.Errorf("create_booking: booking already exists: %w", domain.ErrConcurrencyConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_booking: %w", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
