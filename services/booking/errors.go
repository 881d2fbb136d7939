package booking

import "errors"

var (
	ErrSessionNotFound      = errors.New("booking session not found or expired")
	ErrInvalidTransition    = errors.New("action not allowed in the current state")
	ErrInvalidTravelers     = errors.New("invalid traveler details")
	ErrOptionNotFound       = errors.New("ancillary option not found")
	ErrAncillariesPending   = errors.New("ancillary selection not confirmed")
	ErrBookingNotPermitted  = errors.New("booking not permitted until travelers are allocated for the current selections")
	ErrBookingInProgress    = errors.New("booking already in progress")
	ErrBookingFailed        = errors.New("booking failed")
	ErrStaleResult          = errors.New("reconciliation result is stale")
	ErrConfirmationNotFound = errors.New("booking confirmation not found")
	ErrAgentRequired        = errors.New("agent id required")

	errNoConfirmation     = errors.New("bookFlight returned no confirmation")
	errBookingOutcomeLost = errors.New("booking result was not stored; check the reservation before retrying")
)
