package register_concentrator

import (
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// RegisterConcentratorRequest HTTP request model
type RegisterConcentratorRequest struct {
	ConcentratorID string `json:"concentratorId"`
}

// ToServiceArg разбирает ID концентратора
func (r *RegisterConcentratorRequest) ToServiceArg() (domain.ConcentratorID, error) {
	id, err := domain.ParseConcentratorID(r.ConcentratorID)
	if err != nil {
		return domain.ConcentratorID{}, fmt.Errorf("concentratorId: %w", err)
	}
	return id, nil
}
