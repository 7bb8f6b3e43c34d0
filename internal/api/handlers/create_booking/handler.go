package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	createBooking "github.com/m04kA/SMC-ParkingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequest     = "некорректные параметры бронирования"
	msgParkinglotNotFound = "парковка не найдена"
	msgBookingExists      = "бронирование с таким ID уже существует"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	driverID, err := domain.ParseDriverID(userID)
	if err != nil {
		h.logger.Warn("PUT /bookings - Invalid user ID: %v", err)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(driverID)
	if err != nil {
		h.logger.Warn("PUT /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("PUT /bookings - Invalid input: driver_id=%s, error=%v", driverID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, createBooking.ErrParkinglotNotFound):
			h.logger.Warn("PUT /bookings - Parkinglot not found: parkinglot_id=%s", req.ParkinglotID)
			handlers.RespondNotFound(w, msgParkinglotNotFound)

		case errors.Is(err, createBooking.ErrBookingExists):
			h.logger.Warn("PUT /bookings - Booking already exists: driver_id=%s", driverID)
			handlers.RespondConflict(w, msgBookingExists)

		default:
			h.logger.Error("PUT /bookings - Failed to create booking: driver_id=%s, parkinglot_id=%s, error=%v",
				driverID, req.ParkinglotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings - Booking created successfully: booking_id=%s, driver_id=%s, parkinglot_id=%s",
		result.ID, driverID, result.ParkinglotID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
