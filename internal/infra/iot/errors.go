package iot

import "errors"

var (
	// ErrMalformedSignal сообщение концентратора не удалось разобрать
	ErrMalformedSignal = errors.New("iot: malformed concentrator signal")
	// ErrUnknownAction неизвестное действие в сообщении концентратора
	ErrUnknownAction = errors.New("iot: unknown concentrator action")
)
