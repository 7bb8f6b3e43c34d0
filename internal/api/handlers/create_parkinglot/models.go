package create_parkinglot

import (
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/parkinglots/models"
)

// CreateParkinglotRequest HTTP request model
type CreateParkinglotRequest struct {
	ID        *string `json:"id,omitempty"`
	Name      string  `json:"name"`
	Street    string  `json:"street"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Price     float64 `json:"price"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateParkinglotRequest) ToServiceRequest(ownerID domain.OwnerID) (*models.CreateParkinglotRequest, error) {
	req := &models.CreateParkinglotRequest{
		OwnerID:   ownerID,
		Name:      r.Name,
		Street:    r.Street,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Price:     r.Price,
	}
	if r.ID != nil {
		id, err := domain.ParseParkinglotID(*r.ID)
		if err != nil {
			return nil, fmt.Errorf("id: %w", err)
		}
		req.ID = id
	}
	return req, nil
}
