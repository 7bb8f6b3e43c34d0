package register_concentrator

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

type ParkinglotService interface {
	RegisterConcentrator(ctx context.Context, id domain.ParkinglotID, ownerID domain.OwnerID, concentratorID domain.ConcentratorID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
