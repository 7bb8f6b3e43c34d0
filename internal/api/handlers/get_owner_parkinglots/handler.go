package get_owner_parkinglots

import (
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

const msgMissingUserID = "отсутствует ID пользователя"

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

// Handle GET /api/v1/parkinglots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /parkinglots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	ownerID, err := domain.ParseOwnerID(userID)
	if err != nil {
		h.logger.Warn("GET /parkinglots - Invalid user ID: %v", err)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.List(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("GET /parkinglots - Failed to list parkinglots: owner_id=%s, error=%v", ownerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /parkinglots - Parkinglots retrieved successfully: owner_id=%s, count=%d", ownerID, len(result.Parkinglots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
