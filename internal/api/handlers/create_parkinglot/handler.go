package create_parkinglot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/parkinglots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidParkinglot  = "некорректные данные парковки"
	msgConflict           = "парковка с таким ID уже существует"
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

// Handle PUT /api/v1/parkinglots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /parkinglots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	ownerID, err := domain.ParseOwnerID(userID)
	if err != nil {
		h.logger.Warn("PUT /parkinglots - Invalid user ID: %v", err)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateParkinglotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /parkinglots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(ownerID)
	if err != nil {
		h.logger.Warn("PUT /parkinglots - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParkinglot)
		return
	}

	lot, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, parkinglots.ErrInvalidInput):
			h.logger.Warn("PUT /parkinglots - Invalid input: owner_id=%s, error=%v", ownerID, err)
			handlers.RespondBadRequest(w, msgInvalidParkinglot)

		case errors.Is(err, parkinglots.ErrConflict):
			h.logger.Warn("PUT /parkinglots - Conflict: owner_id=%s, error=%v", ownerID, err)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PUT /parkinglots - Failed to create parkinglot: owner_id=%s, error=%v", ownerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /parkinglots - Parkinglot created successfully: parkinglot_id=%s, owner_id=%s", lot.ID, ownerID)
	handlers.RespondJSON(w, http.StatusCreated, lot)
}
