package handlers

import (
	"net/http"
	"strconv"

	"flightdesk/models"
	"flightdesk/services/booking"
	"flightdesk/services/selection"
	"flightdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking session workflow over HTTP.
type BookingHandler struct {
	Service booking.BookingSessionService
}

func NewBookingHandler(svc booking.BookingSessionService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// sessionView is the session as returned to the agent, with the running ancillary cost.
type sessionView struct {
	*models.BookingSession
	AncillaryTotal models.Money            `json:"ancillaryTotal"`
	TravelerTotals map[string]models.Money `json:"travelerTotals"`
	CanBook        bool                    `json:"canBook"`
}

func newSessionView(s *models.BookingSession) sessionView {
	store := selection.Restore(s.Selections)
	totals := make(map[string]models.Money, len(s.Travelers))
	for _, t := range s.Travelers {
		totals[t.ID] = store.TravelerCost(t.ID)
	}
	return sessionView{
		BookingSession: s,
		AncillaryTotal: store.TotalCost(),
		TravelerTotals: totals,
		CanBook:        booking.CanBook(s),
	}
}

type travelersInput struct {
	Travelers []models.Traveler `json:"travelers" binding:"required,min=1"`
}

type seatInput struct {
	TravelerID string `json:"travelerId" binding:"required"`
	Leg        string `json:"leg" binding:"required"`
	Code       string `json:"code" binding:"required"`
}

type baggageInput struct {
	TravelerID string `json:"travelerId" binding:"required"`
	Direction  string `json:"direction" binding:"required"`
	Code       string `json:"code" binding:"required"`
}

// SearchFlights forwards a flight search to the provider.
func (h *BookingHandler) SearchFlights(c *gin.Context) {
	var req models.FlightSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_request", "Invalid search parameters", err.Error())
		return
	}
	res, err := h.Service.SearchFlights(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Flight search failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// InitiateSession creates the itinerary for the chosen offers and opens a session.
func (h *BookingHandler) InitiateSession(c *gin.Context) {
	var req booking.InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_request", "Invalid session request", err.Error())
		return
	}
	req.AgentID = c.GetString("agentID")

	session, err := h.Service.InitiateSession(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to start booking session", err)
		return
	}
	getLogger(c).Info("booking session created", zap.String("sessionId", session.SessionID))
	c.JSON(http.StatusCreated, newSessionView(session))
}

// GetSession returns the current session state.
func (h *BookingHandler) GetSession(c *gin.Context) {
	session, err := h.Service.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondError(c, "Failed to load booking session", err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session))
}

// SubmitTravelers records the traveler details.
func (h *BookingHandler) SubmitTravelers(c *gin.Context) {
	var input travelersInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_request", "Invalid traveler details", err.Error())
		return
	}
	h.advance(c, booking.SubmitTravelers(input.Travelers), "Failed to submit travelers")
}

// ToggleSeat selects, replaces or releases a traveler's seat on a leg.
func (h *BookingHandler) ToggleSeat(c *gin.Context) {
	var input seatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_request", "Invalid seat selection", err.Error())
		return
	}
	h.advance(c, booking.ToggleSeat(input.TravelerID, models.ScopeKey(input.Leg), input.Code), "Seat selection rejected")
}

// ToggleBaggage selects, replaces or releases a traveler's baggage on a direction.
func (h *BookingHandler) ToggleBaggage(c *gin.Context) {
	var input baggageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_request", "Invalid baggage selection", err.Error())
		return
	}
	h.advance(c, booking.ToggleBaggage(input.TravelerID, models.ScopeKey(input.Direction), input.Code), "Baggage selection rejected")
}

// ToggleMeal selects, replaces or releases a traveler's meal on a leg.
func (h *BookingHandler) ToggleMeal(c *gin.Context) {
	var input seatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_request", "Invalid meal selection", err.Error())
		return
	}
	h.advance(c, booking.ToggleMeal(input.TravelerID, models.ScopeKey(input.Leg), input.Code), "Meal selection rejected")
}

func (h *BookingHandler) ConfirmAncillaries(c *gin.Context) {
	h.advance(c, booking.ConfirmAncillaries(), "Failed to confirm ancillaries")
}

func (h *BookingHandler) CloseAncillaries(c *gin.Context) {
	h.advance(c, booking.CloseAncillaries(), "Failed to close ancillaries")
}

// Reconcile allocates the travelers and rechecks the fare.
func (h *BookingHandler) Reconcile(c *gin.Context) {
	h.advance(c, booking.Reconcile(), "Reconciliation failed")
}

// Book issues the final booking call.
func (h *BookingHandler) Book(c *gin.Context) {
	h.advance(c, booking.Book(), "Booking failed")
}

// CancelSession drops the session.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	if err := h.Service.CancelSession(c.Request.Context(), c.Param("sessionID")); err != nil {
		respondError(c, "Failed to cancel booking session", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking session cancelled"})
}

// GetConfirmation returns a persisted booking by provider reference.
func (h *BookingHandler) GetConfirmation(c *gin.Context) {
	record, err := h.Service.GetConfirmation(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, "Failed to load booking confirmation", err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetSessionConfirmation returns the persisted booking of a session.
func (h *BookingHandler) GetSessionConfirmation(c *gin.Context) {
	record, err := h.Service.GetSessionConfirmation(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondError(c, "Failed to load booking confirmation", err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// ListConfirmations returns the calling agent's recent bookings.
func (h *BookingHandler) ListConfirmations(c *gin.Context) {
	var limit int64
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			utils.JSONError(c, http.StatusBadRequest, "invalid_request", "Invalid limit", "limit must be a positive integer")
			return
		}
		limit = n
	}
	records, err := h.Service.ListConfirmations(c.Request.Context(), c.GetString("agentID"), limit)
	if err != nil {
		respondError(c, "Failed to list booking confirmations", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"confirmations": records})
}

func (h *BookingHandler) advance(c *gin.Context, action booking.Action, message string) {
	sessionID := c.Param("sessionID")
	session, err := h.Service.Advance(c.Request.Context(), sessionID, action)
	if err != nil {
		getLogger(c).Warn(message,
			zap.String("sessionId", sessionID),
			zap.String("action", string(action.Kind)),
			zap.Error(err))
		respondError(c, message, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session))
}
