package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	createBooking "github.com/m04kA/SMC-ParkingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ID              *string `json:"id,omitempty"`
	ParkinglotID    string  `json:"parkinglotId"`
	Description     string  `json:"description,omitempty"`
	DurationSeconds *int64  `json:"durationSeconds,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID           string `json:"id"`
	DriverID     string `json:"driverId"`
	ParkinglotID string `json:"parkinglotId"`
	State        string `json:"state"`
	CreatedAt    string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(driverID domain.DriverID) (*createBooking.Request, error) {
	parkinglotID, err := domain.ParseParkinglotID(r.ParkinglotID)
	if err != nil {
		return nil, fmt.Errorf("parkinglotId: %w", err)
	}

	req := &createBooking.Request{
		DriverID:     driverID,
		ParkinglotID: parkinglotID,
		Description:  r.Description,
	}

	if r.ID != nil {
		if req.BookingID, err = domain.ParseBookingID(*r.ID); err != nil {
			return nil, fmt.Errorf("id: %w", err)
		}
	}

	// Длительность проверяет домен: ноль и отрицательные значения отклоняются там
	if r.DurationSeconds != nil {
		req.Duration = ptr.Of(time.Duration(*r.DurationSeconds) * time.Second)
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:           resp.ID.String(),
		DriverID:     resp.DriverID.String(),
		ParkinglotID: resp.ParkinglotID.String(),
		State:        resp.State,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
	}
}
