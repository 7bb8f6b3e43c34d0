package get_parkinglot

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/parkinglots/models"
)

type ParkinglotService interface {
	Get(ctx context.Context, id domain.ParkinglotID, ownerID domain.OwnerID) (*models.ParkinglotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
