package events

import "errors"

var (
	// ErrMalformedEvent возвращается, когда полезная нагрузка не соответствует виду события
	ErrMalformedEvent = errors.New("events: malformed event")

	// ErrRetriesExhausted возвращается, когда конфликт версий не разрешился за отведенные попытки
	ErrRetriesExhausted = errors.New("events: conflict retries exhausted")
)
