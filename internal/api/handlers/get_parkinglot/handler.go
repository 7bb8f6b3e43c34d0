package get_parkinglot

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/parkinglots"
)

const (
	msgInvalidParkinglotID = "некорректный ID парковки"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgNotFound            = "парковка не найдена"
)

type Handler struct {
	service ParkinglotService
	logger  Logger
}

func NewHandler(service ParkinglotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/parkinglots/{parkinglotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	parkinglotID, err := domain.ParseParkinglotID(mux.Vars(r)["parkinglotId"])
	if err != nil {
		h.logger.Warn("GET /parkinglots/{id} - Invalid parkinglot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParkinglotID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /parkinglots/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	ownerID, err := domain.ParseOwnerID(userID)
	if err != nil {
		h.logger.Warn("GET /parkinglots/{id} - Invalid user ID: %v", err)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	lot, err := h.service.Get(r.Context(), parkinglotID, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, parkinglots.ErrParkinglotNotFound):
			h.logger.Warn("GET /parkinglots/{id} - Parkinglot not found: parkinglot_id=%s, owner_id=%s", parkinglotID, ownerID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /parkinglots/{id} - Failed to get parkinglot: parkinglot_id=%s, error=%v", parkinglotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /parkinglots/{id} - Parkinglot retrieved successfully: parkinglot_id=%s", parkinglotID)
	handlers.RespondJSON(w, http.StatusOK, lot)
}
