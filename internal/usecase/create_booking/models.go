package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	BookingID    domain.BookingID    // ID бронирования, выбранный клиентом; нулевой ID генерируется
	DriverID     domain.DriverID     // ID водителя
	ParkinglotID domain.ParkinglotID // ID парковки
	Description  string              // Описание (опционально)
	Duration     *time.Duration      // Желаемая длительность (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID           domain.BookingID
	DriverID     domain.DriverID
	ParkinglotID domain.ParkinglotID
	State        string
	CreatedAt    time.Time
}
