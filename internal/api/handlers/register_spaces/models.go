package register_spaces

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// RegisterSpacesRequest HTTP request model
type RegisterSpacesRequest struct {
	SpaceIDs []string `json:"spaceIds"`
}

// ToServiceArg разбирает ID мест; повторы и уже зарегистрированные места отклоняет домен
func (r *RegisterSpacesRequest) ToServiceArg() ([]domain.ParkingSpaceID, error) {
	if len(r.SpaceIDs) == 0 {
		return nil, errors.New("spaceIds must not be empty")
	}
	ids := make([]domain.ParkingSpaceID, 0, len(r.SpaceIDs))
	for i, raw := range r.SpaceIDs {
		id, err := domain.ParseParkingSpaceID(raw)
		if err != nil {
			return nil, fmt.Errorf("spaceIds[%d]: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
