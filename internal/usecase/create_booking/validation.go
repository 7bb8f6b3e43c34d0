package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// validateRequest валидирует входные данные запроса.
// Длительность и длина описания проверяются самим агрегатом.
func validateRequest(req *Request) error {
	if req.DriverID.IsZero() {
		return fmt.Errorf("%w: driverID is required", ErrInvalidInput)
	}

	if req.ParkinglotID.IsZero() {
		return fmt.Errorf("%w: parkinglotID is required", ErrInvalidInput)
	}

	if len(req.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}

	return nil
}
