package get_owner_parkinglots

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/parkinglots/models"
)

type ParkinglotService interface {
	List(ctx context.Context, ownerID domain.OwnerID) (*models.ParkinglotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
