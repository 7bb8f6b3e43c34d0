package search_parkinglots

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	searchParkinglots "github.com/m04kA/SMC-ParkingService/internal/usecase/search_parkinglots"
)

// Defaults значения параметров поиска, не заданных в запросе
type Defaults struct {
	StartDistance int
	EndDistance   int
	Limit         int
}

// ParkinglotResponse найденная парковка
type ParkinglotResponse struct {
	ID        string  `json:"id"`
	Cell      string  `json:"h3Cell"`
	Name      string  `json:"name"`
	Street    string  `json:"street"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SearchResponse HTTP response model
type SearchResponse struct {
	CentralCell     string               `json:"centralCell"`
	CurrentDistance int                  `json:"currentDistance"`
	Parkinglots     []ParkinglotResponse `json:"parkinglots"`
}

// ParseQuery собирает запрос use case из query параметров.
// Задается central_cell или пара lat/lng; диапазоны проверяет use case.
func ParseQuery(q url.Values, d Defaults) (*searchParkinglots.Request, error) {
	req := &searchParkinglots.Request{
		CentralCell:   q.Get("central_cell"),
		StartDistance: d.StartDistance,
		EndDistance:   d.EndDistance,
		Limit:         d.Limit,
	}

	lat, lng := q.Get("lat"), q.Get("lng")
	if lat != "" || lng != "" {
		latitude, err := strconv.ParseFloat(lat, 64)
		if err != nil {
			return nil, fmt.Errorf("lat: %w", err)
		}
		longitude, err := strconv.ParseFloat(lng, 64)
		if err != nil {
			return nil, fmt.Errorf("lng: %w", err)
		}
		req.Coordinates = &domain.Coordinates{Latitude: latitude, Longitude: longitude}
	}

	for name, dst := range map[string]*int{
		"start_distance": &req.StartDistance,
		"end_distance":   &req.EndDistance,
		"limit":          &req.Limit,
	} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		*dst = v
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *searchParkinglots.Response) *SearchResponse {
	out := &SearchResponse{
		CentralCell:     resp.CentralCell,
		CurrentDistance: resp.CurrentDistance,
		Parkinglots:     make([]ParkinglotResponse, 0, len(resp.Parkinglots)),
	}
	for _, p := range resp.Parkinglots {
		out.Parkinglots = append(out.Parkinglots, ParkinglotResponse{
			ID:        p.ID.String(),
			Cell:      p.Cell,
			Name:      p.Name,
			Street:    p.Street,
			Latitude:  p.Coordinates.Latitude,
			Longitude: p.Coordinates.Longitude,
		})
	}
	return out
}
