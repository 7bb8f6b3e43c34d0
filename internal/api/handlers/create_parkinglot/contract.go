package create_parkinglot

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/parkinglots/models"
)

type ParkinglotService interface {
	Create(ctx context.Context, req *models.CreateParkinglotRequest) (*models.ParkinglotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
