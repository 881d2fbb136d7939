package booking

import (
	"context"
	"time"

	bookingRepo "flightdesk/database/repository/bookings"
	sessionRepo "flightdesk/database/repository/session"
	"flightdesk/models"
	"flightdesk/services/provider"

	"go.uber.org/zap"
)

// InitiateRequest opens a booking session on offers returned by a search.
type InitiateRequest struct {
	Provider string   `json:"provider"`
	TraceID  string   `json:"traceId" binding:"required"`
	Items    []string `json:"items" binding:"required,min=1,max=2"`
	AgentID  string   `json:"-"`
}

// RecordWriter persists confirmed bookings, directly or through the task queue.
type RecordWriter interface {
	Write(ctx context.Context, record models.BookingRecord) error
}

// BookingSessionService manages the stateful booking session between itinerary creation
// and final booking.
type BookingSessionService interface {
	SearchFlights(ctx context.Context, req models.FlightSearchRequest) (*models.FlightSearchResponse, error)
	InitiateSession(ctx context.Context, req InitiateRequest) (*models.BookingSession, error)
	GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error)
	Advance(ctx context.Context, sessionID string, action Action) (*models.BookingSession, error)
	CancelSession(ctx context.Context, sessionID string) error
	GetConfirmation(ctx context.Context, reference string) (*models.BookingRecord, error)
	GetSessionConfirmation(ctx context.Context, sessionID string) (*models.BookingRecord, error)
	ListConfirmations(ctx context.Context, agentID string, limit int64) ([]models.BookingRecord, error)
}

// DefaultBookingSessionService implements BookingSessionService.
type DefaultBookingSessionService struct {
	Provider        provider.Provider
	Controller      *Controller
	Sessions        sessionRepo.SessionStore
	Records         bookingRepo.BookingRepository // optional
	RecordWriter    RecordWriter                  // optional, writes to Records when nil
	DefaultProvider string
	Logger          *zap.Logger
	// RecordTimeout bounds the write of a confirmed booking.
	RecordTimeout time.Duration

	locks sessionLocks
}
