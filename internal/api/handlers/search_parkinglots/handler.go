package search_parkinglots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	searchParkinglots "github.com/m04kA/SMC-ParkingService/internal/usecase/search_parkinglots"
)

const (
	msgInvalidQuery  = "некорректные параметры запроса"
	msgInvalidSearch = "некорректные параметры поиска"
)

type Handler struct {
	useCase  SearchUseCase
	defaults Defaults
	logger   Logger
}

func NewHandler(useCase SearchUseCase, defaults Defaults, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		defaults: defaults,
		logger:   logger,
	}
}

// Handle GET /api/v1/search
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := ParseQuery(r.URL.Query(), h.defaults)
	if err != nil {
		h.logger.Warn("GET /search - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, searchParkinglots.ErrInvalidInput):
			h.logger.Warn("GET /search - Invalid search: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSearch)

		default:
			h.logger.Error("GET /search - Failed to search parkinglots: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /search - Found %d parkinglots around cell=%s up to distance=%d",
		len(result.Parkinglots), result.CentralCell, result.CurrentDistance)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
