package cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

type BookingService interface {
	CancelByDriver(ctx context.Context, id domain.BookingID, driverID domain.DriverID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
