package register_spaces

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

type ParkinglotService interface {
	RegisterSpaces(ctx context.Context, id domain.ParkinglotID, ownerID domain.OwnerID, spaceIDs []domain.ParkingSpaceID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
