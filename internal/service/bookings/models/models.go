package models

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              string   `json:"id"`
	DriverID        string   `json:"driverId"`
	ParkinglotID    string   `json:"parkinglotId"`
	Description     string   `json:"description"`
	DurationSeconds *int64   `json:"durationSeconds,omitempty"`
	State           string   `json:"state"`
	Price           *float64 `json:"price,omitempty"`
	SpaceID         *string  `json:"spaceId,omitempty"`

	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:           b.ID.String(),
		DriverID:     b.DriverID.String(),
		ParkinglotID: b.ParkinglotID.String(),
		Description:  b.Description,
		State:        string(b.State),
		Price:        b.Price,
		StartedAt:    b.StartedAt,
		FinishedAt:   b.FinishedAt,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
	if b.Duration != nil {
		seconds := int64(b.Duration.Seconds())
		resp.DurationSeconds = &seconds
	}
	if b.SpaceID != nil {
		spaceID := b.SpaceID.String()
		resp.SpaceID = &spaceID
	}
	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}
	return resp
}
