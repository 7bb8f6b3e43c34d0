package concentrator_signal

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

type ParkinglotService interface {
	TakeSpace(ctx context.Context, id domain.ParkinglotID, concentratorID domain.ConcentratorID, spaceID domain.ParkingSpaceID) error
	LeaveSpace(ctx context.Context, id domain.ParkinglotID, concentratorID domain.ConcentratorID, spaceID domain.ParkingSpaceID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
