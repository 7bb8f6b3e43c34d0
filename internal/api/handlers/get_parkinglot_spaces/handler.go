package get_parkinglot_spaces

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/parkinglots"
)

const (
	msgInvalidParkinglotID = "некорректный ID парковки"
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

// Handle GET /api/v1/public/parkinglots/{parkinglotId}/spaces
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	parkinglotID, err := domain.ParseParkinglotID(mux.Vars(r)["parkinglotId"])
	if err != nil {
		h.logger.Warn("GET /public/parkinglots/{id}/spaces - Invalid parkinglot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParkinglotID)
		return
	}

	spaces, err := h.service.ListSpaces(r.Context(), parkinglotID)
	if err != nil {
		switch {
		case errors.Is(err, parkinglots.ErrParkinglotNotFound):
			h.logger.Warn("GET /public/parkinglots/{id}/spaces - Parkinglot not found: parkinglot_id=%s", parkinglotID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /public/parkinglots/{id}/spaces - Failed to list spaces: parkinglot_id=%s, error=%v", parkinglotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, spaces)
}
