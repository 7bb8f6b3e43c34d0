package get_parkinglot_spaces

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/parkinglots/models"
)

type ParkinglotService interface {
	ListSpaces(ctx context.Context, id domain.ParkinglotID) (*models.PublicSpaceListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
