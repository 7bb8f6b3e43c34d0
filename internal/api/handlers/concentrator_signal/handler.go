package concentrator_signal

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/parkinglots"
)

// HeaderConcentratorID заголовок с ID концентратора, приславшего сигнал
const HeaderConcentratorID = "X-Concentrator-ID"

const (
	msgInvalidParkinglotID   = "некорректный ID парковки"
	msgInvalidSpaceID        = "некорректный ID места"
	msgMissingConcentratorID = "отсутствует или некорректен ID концентратора"
	msgForbidden             = "концентратор не зарегистрирован для этой парковки"
	msgInvalidSignal         = "место не зарегистрировано на парковке"
	msgNotFound              = "парковка не найдена"
	msgConflict              = "парковка изменилась, повторите запрос"
)

type signalFunc func(ctx context.Context, id domain.ParkinglotID, concentratorID domain.ConcentratorID, spaceID domain.ParkingSpaceID) error

// Handler обрабатывает сигнал концентратора: take или release
type Handler struct {
	action string
	signal signalFunc
	logger Logger
}

// NewTakeHandler сигнал о прибытии автомобиля на место
func NewTakeHandler(service ParkinglotService, logger Logger) *Handler {
	return &Handler{action: "take", signal: service.TakeSpace, logger: logger}
}

// NewReleaseHandler сигнал об освобождении места
func NewReleaseHandler(service ParkinglotService, logger Logger) *Handler {
	return &Handler{action: "release", signal: service.LeaveSpace, logger: logger}
}

// Handle POST /api/v1/concentrators/parkinglots/{parkinglotId}/spaces/{spaceId}/{take|release}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	parkinglotID, err := domain.ParseParkinglotID(vars["parkinglotId"])
	if err != nil {
		h.logger.Warn("POST /concentrators/.../%s - Invalid parkinglot ID: %v", h.action, err)
		handlers.RespondBadRequest(w, msgInvalidParkinglotID)
		return
	}
	spaceID, err := domain.ParseParkingSpaceID(vars["spaceId"])
	if err != nil {
		h.logger.Warn("POST /concentrators/.../%s - Invalid space ID: %v", h.action, err)
		handlers.RespondBadRequest(w, msgInvalidSpaceID)
		return
	}
	concentratorID, err := domain.ParseConcentratorID(r.Header.Get(HeaderConcentratorID))
	if err != nil {
		h.logger.Warn("POST /concentrators/.../%s - Invalid concentrator ID: %v", h.action, err)
		handlers.RespondUnauthorized(w, msgMissingConcentratorID)
		return
	}

	err = h.signal(r.Context(), parkinglotID, concentratorID, spaceID)
	if err != nil {
		switch {
		case errors.Is(err, parkinglots.ErrParkinglotNotFound):
			h.logger.Warn("POST /concentrators/.../%s - Parkinglot not found: parkinglot_id=%s", h.action, parkinglotID)
			handlers.RespondNotFound(w, msgNotFound)

		// Проверяется раньше ErrInvalidInput: ошибка концентратора тоже его оборачивает
		case errors.Is(err, parkinglots.ErrUnauthorizedConcentrator):
			h.logger.Warn("POST /concentrators/.../%s - Unauthorized concentrator: concentrator_id=%s, parkinglot_id=%s",
				h.action, concentratorID, parkinglotID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, parkinglots.ErrInvalidInput):
			h.logger.Warn("POST /concentrators/.../%s - Rejected: space_id=%s, error=%v", h.action, spaceID, err)
			handlers.RespondBadRequest(w, msgInvalidSignal)

		case errors.Is(err, parkinglots.ErrConflict):
			h.logger.Warn("POST /concentrators/.../%s - Concurrent update: parkinglot_id=%s", h.action, parkinglotID)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /concentrators/.../%s - Failed to process signal: parkinglot_id=%s, error=%v",
				h.action, parkinglotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /concentrators/.../%s - Signal processed: parkinglot_id=%s, space_id=%s", h.action, parkinglotID, spaceID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
