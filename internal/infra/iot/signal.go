package iot

import (
	"encoding/json"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

const (
	ActionTake    = "take"
	ActionRelease = "release"
)

// Signal сообщение концентратора в очереди
type Signal struct {
	ConcentratorID string `json:"concentrator_id"`
	ParkinglotID   string `json:"parkinglot_id"`
	SpaceID        string `json:"space_id"`
	Action         string `json:"action"`
}

type parsedSignal struct {
	concentratorID domain.ConcentratorID
	parkinglotID   domain.ParkinglotID
	spaceID        domain.ParkingSpaceID
	action         string
}

func parseSignal(body string) (parsedSignal, error) {
	var raw Signal
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return parsedSignal{}, fmt.Errorf("%w: %v", ErrMalformedSignal, err)
	}

	var (
		s   parsedSignal
		err error
	)
	if s.concentratorID, err = domain.ParseConcentratorID(raw.ConcentratorID); err != nil {
		return parsedSignal{}, fmt.Errorf("%w: concentrator_id: %v", ErrMalformedSignal, err)
	}
	if s.parkinglotID, err = domain.ParseParkinglotID(raw.ParkinglotID); err != nil {
		return parsedSignal{}, fmt.Errorf("%w: parkinglot_id: %v", ErrMalformedSignal, err)
	}
	if s.spaceID, err = domain.ParseParkingSpaceID(raw.SpaceID); err != nil {
		return parsedSignal{}, fmt.Errorf("%w: space_id: %v", ErrMalformedSignal, err)
	}

	switch raw.Action {
	case ActionTake, ActionRelease:
		s.action = raw.Action
	default:
		return parsedSignal{}, fmt.Errorf("%w: %q", ErrUnknownAction, raw.Action)
	}
	return s, nil
}
