package handlers

import (
	"errors"
	"net/http"

	"flightdesk/services/booking"
	"flightdesk/services/itinerary"
	"flightdesk/services/provider"
	"flightdesk/services/reconcile"
	"flightdesk/services/selection"
	"flightdesk/utils"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// errorTable is checked in order; the first match wins.
var errorTable = []errorMapping{
	{booking.ErrSessionNotFound, http.StatusNotFound, "session_not_found"},
	{booking.ErrConfirmationNotFound, http.StatusNotFound, "confirmation_not_found"},
	{booking.ErrOptionNotFound, http.StatusNotFound, "option_not_found"},
	{booking.ErrInvalidTravelers, http.StatusBadRequest, "invalid_travelers"},
	{booking.ErrAgentRequired, http.StatusBadRequest, "agent_required"},
	{selection.ErrUnknownTraveler, http.StatusBadRequest, "unknown_traveler"},
	{selection.ErrInvalidScope, http.StatusBadRequest, "invalid_scope"},
	{selection.ErrSeatUnavailable, http.StatusConflict, "seat_unavailable"},
	{selection.ErrSeatLimitReached, http.StatusConflict, "seat_limit_reached"},
	{booking.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{booking.ErrAncillariesPending, http.StatusConflict, "ancillaries_pending"},
	{booking.ErrBookingNotPermitted, http.StatusConflict, "booking_not_permitted"},
	{booking.ErrBookingInProgress, http.StatusConflict, "booking_in_progress"},
	{booking.ErrStaleResult, http.StatusConflict, "stale_result"},
	{itinerary.ErrUnsupportedItinerary, http.StatusUnprocessableEntity, "unsupported_itinerary"},
	{itinerary.ErrDuplicateLeg, http.StatusUnprocessableEntity, "duplicate_leg"},
	{reconcile.ErrAllocationFailed, http.StatusBadGateway, "allocation_failed"},
	{booking.ErrBookingFailed, http.StatusBadGateway, "booking_failed"},
}

// statusFor maps a service error to an HTTP status and a stable error code.
func statusFor(err error) (int, string) {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	var perr *provider.ProviderError
	if errors.As(err, &perr) {
		if perr.Status == 0 {
			return http.StatusGatewayTimeout, "provider_unavailable"
		}
		return http.StatusBadGateway, "provider_error"
	}
	return http.StatusInternalServerError, "internal_error"
}

func respondError(c *gin.Context, message string, err error) {
	status, code := statusFor(err)
	utils.JSONError(c, status, code, message, err.Error())
}
