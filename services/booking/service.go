package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "flightdesk/database/repository/bookings"
	sessionRepo "flightdesk/database/repository/session"
	"flightdesk/models"
	"flightdesk/services/itinerary"
	"flightdesk/services/selection"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func (s *DefaultBookingSessionService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// SearchFlights forwards a search to the provider.
func (s *DefaultBookingSessionService) SearchFlights(ctx context.Context, req models.FlightSearchRequest) (*models.FlightSearchResponse, error) {
	if req.Provider == "" {
		req.Provider = s.DefaultProvider
	}
	if req.Adults == 0 {
		req.Adults = 1
	}
	res, err := s.Provider.SearchFlights(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to search flights: %w", err)
	}
	return res, nil
}

// InitiateSession creates the itinerary upstream, normalizes it and stores a new session.
func (s *DefaultBookingSessionService) InitiateSession(ctx context.Context, req InitiateRequest) (*models.BookingSession, error) {
	if req.Provider == "" {
		req.Provider = s.DefaultProvider
	}
	raw, err := s.Provider.CreateItinerary(ctx, models.CreateItineraryRequest{
		Provider: req.Provider,
		TraceID:  req.TraceID,
		Items:    req.Items,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create itinerary: %w", err)
	}

	it, err := itinerary.Build(*raw, s.logger())
	if err != nil {
		return nil, fmt.Errorf("failed to read itinerary: %w", err)
	}

	session := s.Controller.NewSession(uuid.New().String(), req.Provider, req.AgentID, it)
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	s.logger().Info("booking session started",
		zap.String("sessionId", session.SessionID),
		zap.String("tripKind", string(it.TripKind)),
		zap.String("itineraryCode", it.ItineraryCode),
		zap.Int("notices", len(it.Notices)))
	return session, nil
}

// GetSession returns the stored session.
func (s *DefaultBookingSessionService) GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.recoverBooking(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Advance applies one action. Local actions run under the session lock; remote actions hold
// the lock only while reading and writing the session, never during the provider call.
func (s *DefaultBookingSessionService) Advance(ctx context.Context, sessionID string, action Action) (*models.BookingSession, error) {
	if action.Remote() {
		if action.Kind == ActionBook {
			return s.book(ctx, sessionID)
		}
		return s.reconcile(ctx, sessionID)
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.Controller.Apply(session, action); err != nil {
		return session, err
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *DefaultBookingSessionService) reconcile(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	unlock := s.locks.Lock(sessionID)
	session, err := s.load(ctx, sessionID)
	if err != nil {
		unlock()
		return nil, err
	}
	input, err := s.Controller.PrepareReconcile(session)
	if err != nil {
		unlock()
		return session, err
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		unlock()
		return nil, err
	}
	unlock()

	outcome := s.Controller.RunPipeline(ctx, input)

	unlock = s.locks.Lock(sessionID)
	defer unlock()
	session, err = s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	applyErr := s.Controller.ApplyReconcile(session, outcome)
	if errors.Is(applyErr, ErrStaleResult) || errors.Is(applyErr, ErrInvalidTransition) {
		return session, applyErr
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, applyErr
}

func (s *DefaultBookingSessionService) book(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	unlock := s.locks.Lock(sessionID)
	session, err := s.load(ctx, sessionID)
	if err != nil {
		unlock()
		return nil, err
	}
	if err := s.recoverBooking(ctx, session); err != nil {
		unlock()
		return nil, err
	}
	req, err := s.Controller.PrepareBooking(session)
	if err != nil {
		unlock()
		return session, err
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		unlock()
		return nil, err
	}
	unlock()

	conf, callErr := s.Controller.SendBooking(ctx, req)

	unlock = s.locks.Lock(sessionID)
	defer unlock()
	// Other actions are rejected while booking. Keep the in-memory copy if the session
	// expired during the call.
	current, err := s.load(ctx, sessionID)
	if err == nil {
		session = current
	}
	bookErr := s.Controller.ApplyBooking(session, conf, callErr)
	if bookErr == nil {
		s.saveRecord(session, req)
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		s.logger().Error("failed to store booked session",
			zap.String("sessionId", sessionID),
			zap.String("state", string(session.State)),
			zap.Error(err))
		return nil, err
	}
	return session, bookErr
}

// recoverBooking settles a session left in booking by a call whose result was never
// stored. A persisted record for the session means the reservation went through.
func (s *DefaultBookingSessionService) recoverBooking(ctx context.Context, session *models.BookingSession) error {
	if !s.Controller.BookingExpired(session) {
		return nil
	}
	var record *models.BookingRecord
	if s.Records != nil {
		found, err := s.Records.GetBySessionID(ctx, session.SessionID)
		if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return fmt.Errorf("failed to look up booking record: %w", err)
		}
		record = found
	}

	if record != nil {
		_ = s.Controller.ApplyBooking(session, &models.BookingConfirmation{
			Reference:   record.Reference,
			PNR:         record.PNR,
			Status:      record.Status,
			TotalAmount: record.FareAmount,
			Currency:    session.Itinerary.Currency,
		}, nil)
	} else {
		_ = s.Controller.ApplyBooking(session, nil, errBookingOutcomeLost)
	}
	s.logger().Warn("recovered stalled booking",
		zap.String("sessionId", session.SessionID),
		zap.String("state", string(session.State)))
	return s.Sessions.Save(ctx, session)
}

// saveRecord persists a confirmed booking. A failure is logged: the reservation exists
// upstream and the session still carries the confirmation.
func (s *DefaultBookingSessionService) saveRecord(session *models.BookingSession, req models.BookRequest) {
	if (s.Records == nil && s.RecordWriter == nil) || session.Confirmation == nil {
		return
	}
	store := selection.Restore(session.Selections)
	travelers := make([]models.AllocatedTraveler, 0, len(session.Travelers))
	for _, t := range session.Travelers {
		travelers = append(travelers, models.AllocatedTraveler{Traveler: t, SSR: store.SSR(t.ID)})
	}
	fare := session.Confirmation.TotalAmount
	if fare == 0 && session.Reconciliation != nil {
		fare = session.Reconciliation.TotalAmount
	}

	record := models.BookingRecord{
		ID:            uuid.New().String(),
		SessionID:     session.SessionID,
		Provider:      session.Provider,
		AgentID:       session.AgentID,
		Reference:     session.Confirmation.Reference,
		PNR:           session.Confirmation.PNR,
		TraceID:       req.TraceID,
		ItineraryCode: req.ItineraryCode,
		TripKind:      session.Itinerary.TripKind,
		Travelers:     travelers,
		FareAmount:    fare,
		Ancillaries:   store.TotalCost(),
		Status:        session.Confirmation.Status,
		CreatedAt:     time.Now(),
	}

	timeout := s.RecordTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	var err error
	if s.RecordWriter != nil {
		err = s.RecordWriter.Write(ctx, record)
	} else {
		_, err = s.Records.Create(ctx, record)
	}
	if err != nil {
		s.logger().Error("failed to persist booking record",
			zap.String("sessionId", session.SessionID),
			zap.String("reference", record.Reference),
			zap.Error(err))
	}
}

// CancelSession drops a session. A session with a booking call in flight cannot be
// cancelled.
func (s *DefaultBookingSessionService) CancelSession(ctx context.Context, sessionID string) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.recoverBooking(ctx, session); err != nil {
		return err
	}
	if session.State == models.StateBooking {
		return ErrBookingInProgress
	}
	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// GetConfirmation looks up a persisted booking by provider reference.
func (s *DefaultBookingSessionService) GetConfirmation(ctx context.Context, reference string) (*models.BookingRecord, error) {
	if s.Records == nil {
		return nil, ErrConfirmationNotFound
	}
	record, err := s.Records.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrConfirmationNotFound
		}
		return nil, fmt.Errorf("failed to load booking confirmation: %w", err)
	}
	return record, nil
}

// GetSessionConfirmation looks up the persisted booking a session produced.
func (s *DefaultBookingSessionService) GetSessionConfirmation(ctx context.Context, sessionID string) (*models.BookingRecord, error) {
	if s.Records == nil {
		return nil, ErrConfirmationNotFound
	}
	record, err := s.Records.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrConfirmationNotFound
		}
		return nil, fmt.Errorf("failed to load booking confirmation: %w", err)
	}
	return record, nil
}

// ListConfirmations returns an agent's most recent bookings.
func (s *DefaultBookingSessionService) ListConfirmations(ctx context.Context, agentID string, limit int64) ([]models.BookingRecord, error) {
	if agentID == "" {
		return nil, ErrAgentRequired
	}
	if s.Records == nil {
		return []models.BookingRecord{}, nil
	}
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	records, err := s.Records.ListByAgent(ctx, agentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list booking confirmations: %w", err)
	}
	return records, nil
}

func (s *DefaultBookingSessionService) load(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}
