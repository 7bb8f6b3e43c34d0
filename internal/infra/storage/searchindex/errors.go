package searchindex

import "errors"

var (
	ErrEncode = errors.New("searchindex: failed to encode summary")
	ErrDecode = errors.New("searchindex: failed to decode summary")
	ErrRedis  = errors.New("searchindex: redis command failed")
)
