package concentrator_signal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/parkinglots"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type stubService struct {
	called string
	err    error
}

func (s *stubService) TakeSpace(context.Context, domain.ParkinglotID, domain.ConcentratorID, domain.ParkingSpaceID) error {
	s.called = "take"
	return s.err
}

func (s *stubService) LeaveSpace(context.Context, domain.ParkinglotID, domain.ConcentratorID, domain.ParkingSpaceID) error {
	s.called = "release"
	return s.err
}

func router(service ParkinglotService) *mux.Router {
	r := mux.NewRouter()
	base := "/concentrators/parkinglots/{parkinglotId}/spaces/{spaceId}"
	r.HandleFunc(base+"/take", NewTakeHandler(service, logger.NewNop()).Handle).Methods(http.MethodPost)
	r.HandleFunc(base+"/release", NewReleaseHandler(service, logger.NewNop()).Handle).Methods(http.MethodPost)
	return r
}

func signal(action, lotID, spaceID, concentratorID string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/concentrators/parkinglots/"+lotID+"/spaces/"+spaceID+"/"+action, nil)
	if concentratorID != "" {
		r.Header.Set(HeaderConcentratorID, concentratorID)
	}
	return r
}

func TestHandle_RoutesAction(t *testing.T) {
	for _, action := range []string{"take", "release"} {
		t.Run(action, func(t *testing.T) {
			service := &stubService{}
			w := httptest.NewRecorder()

			router(service).ServeHTTP(w, signal(action,
				domain.NewParkinglotID().String(), domain.NewParkingSpaceID().String(), domain.NewConcentratorID().String()))

			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Equal(t, action, service.called)
		})
	}
}

func TestHandle_Errors(t *testing.T) {
	lotID := domain.NewParkinglotID().String()
	spaceID := domain.NewParkingSpaceID().String()
	concentratorID := domain.NewConcentratorID().String()

	tests := []struct {
		name           string
		lotID, spaceID string
		concentratorID string
		serviceErr     error
		wantStatus     int
	}{
		{name: "bad parkinglot id", lotID: "x", spaceID: spaceID, concentratorID: concentratorID, wantStatus: http.StatusBadRequest},
		{name: "bad space id", lotID: lotID, spaceID: "x", concentratorID: concentratorID, wantStatus: http.StatusBadRequest},
		{name: "missing concentrator", lotID: lotID, spaceID: spaceID, wantStatus: http.StatusUnauthorized},
		{name: "unauthorized concentrator", lotID: lotID, spaceID: spaceID, concentratorID: concentratorID, serviceErr: parkinglots.ErrUnauthorizedConcentrator, wantStatus: http.StatusForbidden},
		{name: "unknown space", lotID: lotID, spaceID: spaceID, concentratorID: concentratorID, serviceErr: parkinglots.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "parkinglot not found", lotID: lotID, spaceID: spaceID, concentratorID: concentratorID, serviceErr: parkinglots.ErrParkinglotNotFound, wantStatus: http.StatusNotFound},
		{name: "conflict", lotID: lotID, spaceID: spaceID, concentratorID: concentratorID, serviceErr: parkinglots.ErrConflict, wantStatus: http.StatusConflict},
		{name: "internal", lotID: lotID, spaceID: spaceID, concentratorID: concentratorID, serviceErr: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			router(&stubService{err: tt.serviceErr}).ServeHTTP(w, signal("take", tt.lotID, tt.spaceID, tt.concentratorID))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
