package search_parkinglots

import (
	"context"

	searchParkinglots "github.com/m04kA/SMC-ParkingService/internal/usecase/search_parkinglots"
)

type SearchUseCase interface {
	Execute(ctx context.Context, req *searchParkinglots.Request) (*searchParkinglots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
