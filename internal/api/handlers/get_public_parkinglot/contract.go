package get_public_parkinglot

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/parkinglots/models"
)

type ParkinglotService interface {
	GetPublic(ctx context.Context, id domain.ParkinglotID) (*models.PublicParkinglotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
