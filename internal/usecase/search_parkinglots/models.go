package search_parkinglots

import "github.com/m04kA/SMC-ParkingService/internal/domain"

// Request модель запроса поиска. Задается либо CentralCell, либо Coordinates.
type Request struct {
	CentralCell   string
	Coordinates   *domain.Coordinates
	StartDistance int
	EndDistance   int
	Limit         int
}

// Response результат поиска
type Response struct {
	CentralCell     string                     // Ячейка, от которой шел поиск
	CurrentDistance int                        // Последнее обойденное кольцо
	Parkinglots     []domain.ParkinglotSummary // Не обрезается до Limit: последнее кольцо отдается целиком
}
