package register_spaces

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
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgInvalidValue        = "некорректный список мест"
	msgNotFound            = "парковка не найдена"
	msgConflict            = "парковка изменилась, повторите запрос"
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

// Handle PUT /api/v1/parkinglots/{parkinglotId}/spaces
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	parkinglotID, err := domain.ParseParkinglotID(mux.Vars(r)["parkinglotId"])
	if err != nil {
		h.logger.Warn("PUT /parkinglots/{id}/spaces - Invalid parkinglot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParkinglotID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /parkinglots/{id}/spaces - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	ownerID, err := domain.ParseOwnerID(userID)
	if err != nil {
		h.logger.Warn("PUT /parkinglots/{id}/spaces - Invalid user ID: %v", err)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RegisterSpacesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /parkinglots/{id}/spaces - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	spaceIDs, err := req.ToServiceArg()
	if err != nil {
		h.logger.Warn("PUT /parkinglots/{id}/spaces - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidValue)
		return
	}

	err = h.service.RegisterSpaces(r.Context(), parkinglotID, ownerID, spaceIDs)
	if err != nil {
		switch {
		case errors.Is(err, parkinglots.ErrParkinglotNotFound):
			h.logger.Warn("PUT /parkinglots/{id}/spaces - Parkinglot not found: parkinglot_id=%s, owner_id=%s", parkinglotID, ownerID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, parkinglots.ErrInvalidInput):
			h.logger.Warn("PUT /parkinglots/{id}/spaces - Rejected: parkinglot_id=%s, error=%v", parkinglotID, err)
			handlers.RespondBadRequest(w, msgInvalidValue)

		case errors.Is(err, parkinglots.ErrConflict):
			h.logger.Warn("PUT /parkinglots/{id}/spaces - Concurrent update: parkinglot_id=%s", parkinglotID)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PUT /parkinglots/{id}/spaces - Failed to update parkinglot: parkinglot_id=%s, error=%v", parkinglotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /parkinglots/{id}/spaces - Spaces registered successfully: parkinglot_id=%s, owner_id=%s", parkinglotID, ownerID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
