package selection

import "errors"

// Rejections are local and recoverable: the store is left unchanged.
var (
	ErrSeatUnavailable  = errors.New("seat unavailable")
	ErrSeatLimitReached = errors.New("seat limit reached")
	ErrUnknownTraveler  = errors.New("unknown traveler")
	ErrInvalidScope     = errors.New("invalid selection scope")
)
