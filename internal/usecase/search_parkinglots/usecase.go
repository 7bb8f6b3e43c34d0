package search_parkinglots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// UseCase поиск парковок расширяющимися кольцами hex-ячеек
type UseCase struct {
	index          SearchIndex
	grid           Grid
	maxEndDistance int
	logger         Logger
}

// NewUseCase создает новый экземпляр use case. maxEndDistance <= 0 снимает ограничение.
func NewUseCase(index SearchIndex, grid Grid, maxEndDistance int, logger Logger) *UseCase {
	return &UseCase{
		index:          index,
		grid:           grid,
		maxEndDistance: maxEndDistance,
		logger:         logger,
	}
}

// Execute обходит кольца от StartDistance до EndDistance и останавливается, как только
// набрано Limit парковок. Кольцо, на котором достигнут лимит, отдается целиком.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SearchParkinglots: cell=%q, coordinates=%v, distance=%d..%d, limit=%d",
		req.CentralCell, req.Coordinates, req.StartDistance, req.EndDistance, req.Limit)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxEndDistance); err != nil {
		uc.logger.Warn("SearchParkinglots: validation failed: %v", err)
		return nil, err
	}

	// 2. Определяем центральную ячейку
	center, err := uc.resolveCenter(req)
	if err != nil {
		uc.logger.Warn("SearchParkinglots: cannot resolve central cell: %v", err)
		return nil, err
	}

	// 3. Обходим кольца
	resp := &Response{CentralCell: center, Parkinglots: []domain.ParkinglotSummary{}}
	current := req.StartDistance - 1
	for {
		current++

		cells := []string{center}
		if current > 0 {
			cells, err = uc.grid.Ring(center, current)
			if err != nil {
				uc.logger.Error("SearchParkinglots: ring %d around %s failed: %v", current, center, err)
				return nil, fmt.Errorf("%w: Execute - ring %d: %v", ErrInternal, current, err)
			}
		}

		found, err := uc.index.Query(ctx, cells)
		if err != nil {
			uc.logger.Error("SearchParkinglots: index query at distance %d failed: %v", current, err)
			return nil, fmt.Errorf("%w: Execute - index query: %v", ErrInternal, err)
		}
		resp.Parkinglots = append(resp.Parkinglots, found...)

		if len(resp.Parkinglots) >= req.Limit || current >= req.EndDistance {
			break
		}
	}
	resp.CurrentDistance = current

	uc.logger.Info("SearchParkinglots: found %d parkinglots around %s up to distance %d",
		len(resp.Parkinglots), center, current)
	return resp, nil
}

func (uc *UseCase) resolveCenter(req *Request) (string, error) {
	if req.CentralCell != "" {
		if !uc.grid.IsValid(req.CentralCell) {
			return "", fmt.Errorf("%w: invalid central cell %q", ErrInvalidInput, req.CentralCell)
		}
		return req.CentralCell, nil
	}

	cell, err := uc.grid.CellAt(*req.Coordinates)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return cell, nil
}
