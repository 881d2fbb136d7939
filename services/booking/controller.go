package booking

import (
	"context"
	"fmt"
	"slices"
	"time"

	"flightdesk/models"
	"flightdesk/services/reconcile"
	"flightdesk/services/selection"

	"go.uber.org/zap"
)

// Booker issues the final booking call.
type Booker interface {
	BookFlight(ctx context.Context, req models.BookRequest) (*models.BookingConfirmation, error)
}

// Controller drives a booking session through its workflow:
//
//	collecting_travelers -> ancillary_selection -> reconciling -> ready_to_book
//	                                                                   |
//	                                                booking_failed <- booking -> booked
//
// An itinerary without any ancillary skips ancillary_selection. Any selection change
// after reconciliation sends the session back to ancillary_selection.
type Controller struct {
	pipeline    *reconcile.Pipeline
	booker      Booker
	logger      *zap.Logger
	bookTimeout time.Duration
	now         func() time.Time
}

func NewController(pipeline *reconcile.Pipeline, booker Booker, logger *zap.Logger, bookTimeout time.Duration) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bookTimeout <= 0 {
		bookTimeout = 60 * time.Second
	}
	return &Controller{
		pipeline:    pipeline,
		booker:      booker,
		logger:      logger,
		bookTimeout: bookTimeout,
		now:         time.Now,
	}
}

// NewSession starts a session for a freshly built itinerary.
func (c *Controller) NewSession(id, provider, agentID string, it *models.Itinerary) *models.BookingSession {
	now := c.now()
	return &models.BookingSession{
		SessionID:  id,
		Provider:   provider,
		AgentID:    agentID,
		State:      models.StateCollectingTravelers,
		Itinerary:  *it,
		Selections: selection.NewStore(it.Currency, nil).Snapshot(),
		Pipeline:   models.PipelineIdle,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Advance applies one action to the session. Remote actions run to completion before
// Advance returns. On error the session is left as it was, except for remote failures,
// which are recorded on the session.
func (c *Controller) Advance(ctx context.Context, s *models.BookingSession, a Action) error {
	switch a.Kind {
	case ActionReconcile:
		in, err := c.PrepareReconcile(s)
		if err != nil {
			return err
		}
		return c.ApplyReconcile(s, c.pipeline.Run(ctx, in))
	case ActionBook:
		req, err := c.PrepareBooking(s)
		if err != nil {
			return err
		}
		conf, err := c.SendBooking(ctx, req)
		return c.ApplyBooking(s, conf, err)
	default:
		return c.Apply(s, a)
	}
}

// Apply runs a local action. Remote actions are rejected.
func (c *Controller) Apply(s *models.BookingSession, a Action) error {
	if s.State == models.StateBooked || s.State == models.StateBooking {
		return fmt.Errorf("%w: session is %s", ErrInvalidTransition, s.State)
	}

	var err error
	switch a.Kind {
	case ActionSubmitTravelers:
		err = c.submitTravelers(s, a.Travelers)
	case ActionToggleSeat, ActionToggleBaggage, ActionToggleMeal:
		err = c.toggle(s, a)
	case ActionConfirmAncillaries:
		err = c.confirmAncillaries(s)
	case ActionCloseAncillaries:
		err = c.closeAncillaries(s)
	default:
		err = fmt.Errorf("%w: %s is not a local action", ErrInvalidTransition, a.Kind)
	}
	if err != nil {
		return err
	}
	s.UpdatedAt = c.now()
	return nil
}

func (c *Controller) submitTravelers(s *models.BookingSession, travelers []models.Traveler) error {
	if s.State != models.StateCollectingTravelers {
		return fmt.Errorf("%w: travelers are already submitted", ErrInvalidTransition)
	}
	travelers = slices.Clone(travelers)
	if err := validateTravelers(travelers); err != nil {
		return err
	}

	s.Travelers = travelers
	s.Selections = selection.NewStore(s.Itinerary.Currency, travelerIDs(travelers)).Snapshot()
	if !s.Itinerary.HasAncillaries() {
		s.AncillaryConfirmed = true
		s.State = models.StateReconciling
		return nil
	}
	s.State = models.StateAncillarySelection
	return nil
}

func (c *Controller) toggle(s *models.BookingSession, a Action) error {
	if !selectable(s.State) || !s.Itinerary.HasAncillaries() {
		return fmt.Errorf("%w: ancillaries cannot be changed while %s", ErrInvalidTransition, s.State)
	}

	store := selection.Restore(s.Selections)
	var err error
	switch a.Kind {
	case ActionToggleSeat:
		seat, ok := s.Itinerary.Seat(a.Scope, a.Code)
		if !ok {
			return fmt.Errorf("%w: seat %s on %s", ErrOptionNotFound, a.Code, a.Scope)
		}
		err = store.ToggleSeat(a.TravelerID, a.Scope, seat)
	case ActionToggleBaggage:
		if _, ok := s.Itinerary.Direction(a.Scope); !ok {
			return fmt.Errorf("%w: baggage is sold per direction, %q is not one", selection.ErrInvalidScope, a.Scope)
		}
		opt, ok := s.Itinerary.BaggageOption(a.Scope, a.Code)
		if !ok {
			return fmt.Errorf("%w: baggage %s on %s", ErrOptionNotFound, a.Code, a.Scope)
		}
		err = store.ToggleBaggage(a.TravelerID, a.Scope, opt)
	default:
		opt, ok := s.Itinerary.MealOption(a.Scope, a.Code)
		if !ok {
			return fmt.Errorf("%w: meal %s on %s", ErrOptionNotFound, a.Code, a.Scope)
		}
		err = store.ToggleMeal(a.TravelerID, a.Scope, opt)
	}
	if err != nil {
		return err
	}

	s.Selections = store.Snapshot()
	invalidate(s)
	return nil
}

func (c *Controller) confirmAncillaries(s *models.BookingSession) error {
	switch s.State {
	case models.StateAncillarySelection:
		s.AncillaryConfirmed = true
		s.State = models.StateReconciling
		return nil
	case models.StateReconciling, models.StateReadyToBook, models.StateBookingFailed:
		if s.AncillaryConfirmed {
			return nil
		}
	}
	return fmt.Errorf("%w: no ancillary selection to confirm while %s", ErrInvalidTransition, s.State)
}

// closeAncillaries discards every selection. A session without ancillaries has nothing
// to close.
func (c *Controller) closeAncillaries(s *models.BookingSession) error {
	if !selectable(s.State) || !s.Itinerary.HasAncillaries() {
		return fmt.Errorf("%w: no ancillary selection open while %s", ErrInvalidTransition, s.State)
	}
	store := selection.Restore(s.Selections)
	store.Clear()
	s.Selections = store.Snapshot()
	invalidate(s)
	return nil
}

// invalidate drops the reconciliation computed for a previous selection state.
func invalidate(s *models.BookingSession) {
	s.Reconciliation = nil
	s.AncillaryConfirmed = false
	s.Pipeline = models.PipelineIdle
	s.LastError = ""
	s.State = models.StateAncillarySelection
}

func selectable(state models.BookingState) bool {
	switch state {
	case models.StateAncillarySelection, models.StateReconciling, models.StateReadyToBook, models.StateBookingFailed:
		return true
	}
	return false
}

// PrepareReconcile freezes the session into a pipeline input and marks the pipeline as
// allocating.
func (c *Controller) PrepareReconcile(s *models.BookingSession) (reconcile.Input, error) {
	switch s.State {
	case models.StateReconciling, models.StateReadyToBook, models.StateBookingFailed:
	case models.StateAncillarySelection:
		return reconcile.Input{}, ErrAncillariesPending
	default:
		return reconcile.Input{}, fmt.Errorf("%w: cannot reconcile while %s", ErrInvalidTransition, s.State)
	}
	if !s.AncillaryConfirmed {
		return reconcile.Input{}, ErrAncillariesPending
	}

	store := selection.Restore(s.Selections)
	travelers := make([]models.AllocatedTraveler, 0, len(s.Travelers))
	for _, t := range s.Travelers {
		travelers = append(travelers, models.AllocatedTraveler{Traveler: t, SSR: store.SSR(t.ID)})
	}

	in := reconcile.Input{
		Provider:      s.Provider,
		TraceID:       s.Itinerary.TraceID,
		ItineraryCode: s.Itinerary.ItineraryCode,
		Currency:      s.Itinerary.Currency,
		Travelers:     travelers,
		PreviousTotal: s.Itinerary.TotalAmount + store.TotalCost().Major(),
		Epoch:         store.Epoch(),
	}
	if last := s.LastSettled; last != nil {
		in.TraceID = firstNonEmpty(last.TraceID, in.TraceID)
		in.ItineraryCode = firstNonEmpty(last.ItineraryCode, in.ItineraryCode)
		// A total settled for another selection priced different ancillaries.
		if last.Epoch == in.Epoch {
			in.PreviousTotal = last.TotalAmount
		}
	}

	s.Pipeline = models.PipelineAllocating
	s.LastError = ""
	s.UpdatedAt = c.now()
	return in, nil
}

// RunPipeline executes the remote part of a reconciliation.
func (c *Controller) RunPipeline(ctx context.Context, in reconcile.Input) reconcile.Outcome {
	return c.pipeline.Run(ctx, in)
}

// ApplyReconcile records a pipeline outcome. An outcome computed for another selection
// epoch is discarded with ErrStaleResult and the session is not touched. A degraded
// outcome is applied and reported through LastError, not as an error.
func (c *Controller) ApplyReconcile(s *models.BookingSession, out reconcile.Outcome) error {
	if out.Epoch != s.Selections.Epoch {
		c.pipeline.Metrics().IncrementStale()
		c.logger.Info("discarding stale reconciliation",
			zap.String("sessionId", s.SessionID),
			zap.Uint64("resultEpoch", out.Epoch),
			zap.Uint64("currentEpoch", s.Selections.Epoch))
		return fmt.Errorf("%w: computed for epoch %d, session is at %d", ErrStaleResult, out.Epoch, s.Selections.Epoch)
	}
	if s.State == models.StateBooking || s.State == models.StateBooked {
		return fmt.Errorf("%w: session is %s", ErrInvalidTransition, s.State)
	}

	s.Pipeline = out.State
	s.UpdatedAt = c.now()
	if !out.State.Settled() {
		s.Reconciliation = nil
		s.State = models.StateReconciling
		if out.Err != nil {
			s.LastError = out.Err.Error()
		}
		return out.Err
	}

	s.Reconciliation = out.Result
	s.LastSettled = out.Result
	s.State = models.StateReadyToBook
	s.LastError = ""
	if out.Err != nil {
		s.LastError = out.Err.Error()
	}
	return nil
}

// CanBook reports whether the booking call is permitted: travelers are allocated for the
// current selections and the ancillary step is closed.
func CanBook(s *models.BookingSession) bool {
	return s.Pipeline.Settled() &&
		s.AncillaryConfirmed &&
		s.Reconciliation != nil &&
		s.Reconciliation.Epoch == s.Selections.Epoch
}

// PrepareBooking builds the booking request and moves the session to booking.
func (c *Controller) PrepareBooking(s *models.BookingSession) (models.BookRequest, error) {
	switch s.State {
	case models.StateReadyToBook, models.StateBookingFailed:
	case models.StateBooking:
		return models.BookRequest{}, ErrBookingInProgress
	case models.StateBooked:
		return models.BookRequest{}, fmt.Errorf("%w: session is already booked", ErrInvalidTransition)
	default:
		return models.BookRequest{}, fmt.Errorf("%w: session is %s", ErrBookingNotPermitted, s.State)
	}
	if !CanBook(s) {
		return models.BookRequest{}, ErrBookingNotPermitted
	}

	req := models.BookRequest{
		Provider:      s.Provider,
		TraceID:       firstNonEmpty(s.Reconciliation.TraceID, s.Itinerary.TraceID),
		ItineraryCode: firstNonEmpty(s.Reconciliation.ItineraryCode, s.Itinerary.ItineraryCode),
	}
	s.State = models.StateBooking
	s.BookingAttempts++
	s.LastError = ""
	s.UpdatedAt = c.now()
	return req, nil
}

// BookingExpired reports whether a session has been in booking for longer than any booking
// call can run, so its result was never stored.
func (c *Controller) BookingExpired(s *models.BookingSession) bool {
	return s.State == models.StateBooking && c.now().Sub(s.UpdatedAt) > 2*c.bookTimeout
}

// SendBooking issues the booking call under the booking timeout.
func (c *Controller) SendBooking(ctx context.Context, req models.BookRequest) (*models.BookingConfirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, c.bookTimeout)
	defer cancel()
	conf, err := c.booker.BookFlight(ctx, req)
	if err == nil && conf == nil {
		err = errNoConfirmation
	}
	return conf, err
}

// ApplyBooking records the result of a booking call. A failed booking leaves the
// allocation in place so the call can be retried.
func (c *Controller) ApplyBooking(s *models.BookingSession, conf *models.BookingConfirmation, callErr error) error {
	s.UpdatedAt = c.now()
	if callErr != nil {
		s.State = models.StateBookingFailed
		s.LastError = callErr.Error()
		c.logger.Warn("booking failed",
			zap.String("sessionId", s.SessionID),
			zap.Int("attempt", s.BookingAttempts),
			zap.Error(callErr))
		return fmt.Errorf("%w: %w", ErrBookingFailed, callErr)
	}
	s.State = models.StateBooked
	s.Confirmation = conf
	c.logger.Info("booking confirmed",
		zap.String("sessionId", s.SessionID),
		zap.String("reference", conf.Reference),
		zap.String("pnr", conf.PNR))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
