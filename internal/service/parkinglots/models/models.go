package models

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request модели

// CreateParkinglotRequest запрос на создание парковки
type CreateParkinglotRequest struct {
	ID        domain.ParkinglotID
	OwnerID   domain.OwnerID
	Name      string
	Street    string
	Latitude  float64
	Longitude float64
	Price     float64
}

// Response модели

// SpaceResponse место парковки в представлении владельца
type SpaceResponse struct {
	ID          string     `json:"id"`
	Sequence    int        `json:"sequence"`
	Booked      bool       `json:"booked"`
	BookingID   *string    `json:"bookingId,omitempty"`
	DriverID    *string    `json:"driverId,omitempty"`
	BookedFrom  *time.Time `json:"bookedFrom,omitempty"`
	BookedUntil *time.Time `json:"bookedUntil,omitempty"`
	ArrivedAt   *time.Time `json:"arrivedAt,omitempty"`
}

// ParkinglotResponse парковка в представлении владельца
type ParkinglotResponse struct {
	ID             string          `json:"id"`
	OwnerID        string          `json:"ownerId"`
	Name           string          `json:"name"`
	Street         string          `json:"street"`
	Latitude       float64         `json:"latitude"`
	Longitude      float64         `json:"longitude"`
	Cell           string          `json:"h3Cell"`
	Price          float64         `json:"price"`
	ConcentratorID *string         `json:"concentratorId,omitempty"`
	FreeSpaces     int             `json:"freeSpaces"`
	Spaces         []SpaceResponse `json:"spaces"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ParkinglotListResponse ответ со списком парковок владельца
type ParkinglotListResponse struct {
	Parkinglots []ParkinglotResponse `json:"parkinglots"`
}

// PublicParkinglotResponse публичное представление парковки
type PublicParkinglotResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Street        string  `json:"street"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Price         float64 `json:"price"`
	FreeSpaces    int     `json:"freeSpaces"`
	TotalSpaces   int     `json:"totalSpaces"`
	OccupancyRate float64 `json:"occupancyRate"`
	IsFull        bool    `json:"isFull"`
	IsEmpty       bool    `json:"isEmpty"`
}

// PublicSpaceResponse публичное представление места: без водителя и бронирования
type PublicSpaceResponse struct {
	ID          string     `json:"id"`
	Booked      bool       `json:"booked"`
	BookedUntil *time.Time `json:"bookedUntil,omitempty"`
}

// PublicSpaceListResponse ответ со списком мест парковки
type PublicSpaceListResponse struct {
	Spaces []PublicSpaceResponse `json:"spaces"`
}

// Методы конвертации

// FromDomainParkinglot конвертирует domain модель в DTO владельца
func FromDomainParkinglot(p *domain.Parkinglot) *ParkinglotResponse {
	if p == nil {
		return nil
	}

	resp := &ParkinglotResponse{
		ID:         p.ID.String(),
		OwnerID:    p.OwnerID.String(),
		Name:       p.Name,
		Street:     p.Street,
		Latitude:   p.Coordinates.Latitude,
		Longitude:  p.Coordinates.Longitude,
		Cell:       p.Cell,
		Price:      p.Price,
		FreeSpaces: p.FreeSpaces,
		Spaces:     make([]SpaceResponse, 0, len(p.Spaces)),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.ConcentratorID != nil {
		id := p.ConcentratorID.String()
		resp.ConcentratorID = &id
	}

	for _, s := range p.Spaces {
		space := SpaceResponse{
			ID:          s.ID.String(),
			Sequence:    s.Sequence,
			Booked:      s.IsBooked(),
			BookedFrom:  s.BookedFrom,
			BookedUntil: s.BookedUntil,
			ArrivedAt:   s.ArrivedAt,
		}
		if s.BookingID != nil {
			id := s.BookingID.String()
			space.BookingID = &id
		}
		if s.DriverID != nil {
			id := s.DriverID.String()
			space.DriverID = &id
		}
		resp.Spaces = append(resp.Spaces, space)
	}

	return resp
}

// FromDomainParkinglotList конвертирует список domain моделей в DTO
func FromDomainParkinglotList(lots []*domain.Parkinglot) *ParkinglotListResponse {
	resp := &ParkinglotListResponse{
		Parkinglots: make([]ParkinglotResponse, 0, len(lots)),
	}
	for _, lot := range lots {
		if lotResp := FromDomainParkinglot(lot); lotResp != nil {
			resp.Parkinglots = append(resp.Parkinglots, *lotResp)
		}
	}
	return resp
}

// ToPublicParkinglot конвертирует domain модель в публичное DTO
func ToPublicParkinglot(p *domain.Parkinglot) *PublicParkinglotResponse {
	occupancy := p.Occupancy()
	return &PublicParkinglotResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Street:        p.Street,
		Latitude:      p.Coordinates.Latitude,
		Longitude:     p.Coordinates.Longitude,
		Price:         p.Price,
		FreeSpaces:    occupancy.FreeSpaces,
		TotalSpaces:   occupancy.TotalSpaces,
		OccupancyRate: occupancy.Rate(),
		IsFull:        occupancy.IsFull(),
		IsEmpty:       occupancy.IsEmpty(),
	}
}

// ToPublicSpaces конвертирует места парковки в публичные DTO
func ToPublicSpaces(p *domain.Parkinglot) *PublicSpaceListResponse {
	resp := &PublicSpaceListResponse{
		Spaces: make([]PublicSpaceResponse, 0, len(p.Spaces)),
	}
	for _, s := range p.Spaces {
		resp.Spaces = append(resp.Spaces, PublicSpaceResponse{
			ID:          s.ID.String(),
			Booked:      s.IsBooked(),
			BookedUntil: s.BookedUntil,
		})
	}
	return resp
}
