package eventbus

import "errors"

var (
	ErrEncodeEvent = errors.New("eventbus: failed to encode event")
	ErrProduce     = errors.New("eventbus: failed to produce record")
)
