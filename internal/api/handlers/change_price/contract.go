package change_price

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

type ParkinglotService interface {
	ChangePrice(ctx context.Context, id domain.ParkinglotID, ownerID domain.OwnerID, price float64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
