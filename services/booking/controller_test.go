package booking

import (
	"context"
	"errors"
	"testing"

	"flightdesk/models"
	"flightdesk/services/reconcile"
	"flightdesk/services/selection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ControllerSuite struct {
	suite.Suite
	provider   *fakeProvider
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.provider = &fakeProvider{}
	s.controller = NewController(reconcile.New(s.provider), s.provider, nil, 0)
	s.ctx = context.Background()
}

func (s *ControllerSuite) session(it *models.Itinerary) *models.BookingSession {
	session := s.controller.NewSession("sess-1", "sky", "agent-1", it)
	s.Require().NoError(s.controller.Apply(session, SubmitTravelers(testTravelers())))
	return session
}

// =============================================================================
// Travelers and ancillaries
// =============================================================================

func (s *ControllerSuite) TestNewSession() {
	session := s.controller.NewSession("sess-1", "sky", "agent-1", testItinerary())
	s.Equal(models.StateCollectingTravelers, session.State)
	s.Equal(models.PipelineIdle, session.Pipeline)
	s.False(CanBook(session))

	s.Run("reconcile before travelers is rejected", func() {
		err := s.controller.Advance(s.ctx, session, Reconcile())
		s.Require().ErrorIs(err, ErrInvalidTransition)
		s.Empty(s.provider.allocations())
	})

	s.Run("toggles before travelers are rejected", func() {
		err := s.controller.Apply(session, ToggleSeat("t1", legOut, "12A"))
		s.Require().ErrorIs(err, ErrInvalidTransition)
	})
}

func (s *ControllerSuite) TestSubmitTravelers() {
	s.Run("itinerary with ancillaries opens the selection", func() {
		session := s.session(testItinerary())
		s.Equal(models.StateAncillarySelection, session.State)
		s.False(session.AncillaryConfirmed)
		s.Equal([]string{"t1", "t2"}, session.Selections.Travelers)
		s.Equal(models.TravelerAdult, session.Travelers[1].Type)
	})

	s.Run("itinerary without ancillaries skips the selection", func() {
		session := s.session(bareItinerary())
		s.Equal(models.StateReconciling, session.State)
		s.True(session.AncillaryConfirmed)

		err := s.controller.Apply(session, ConfirmAncillaries())
		s.NoError(err)
		err = s.controller.Apply(session, ToggleMeal("t1", legOut, "VGML"))
		s.ErrorIs(err, ErrInvalidTransition)
	})

	s.Run("travelers are submitted once", func() {
		session := s.session(testItinerary())
		err := s.controller.Apply(session, SubmitTravelers(testTravelers()))
		s.ErrorIs(err, ErrInvalidTransition)
	})

	s.Run("invalid travelers leave the session untouched", func() {
		session := s.controller.NewSession("sess-2", "sky", "", testItinerary())
		travelers := testTravelers()
		travelers[0].Email = ""
		err := s.controller.Apply(session, SubmitTravelers(travelers))
		s.ErrorIs(err, ErrInvalidTravelers)
		s.Equal(models.StateCollectingTravelers, session.State)
		s.Empty(session.Travelers)
	})
}

func (s *ControllerSuite) TestToggle() {
	session := s.session(testItinerary())

	s.Run("price comes from the catalog", func() {
		s.Require().NoError(s.controller.Apply(session, ToggleSeat("t1", legOut, "12A")))
		s.Require().NoError(s.controller.Apply(session, ToggleBaggage("t2", dirOut, "BAG20")))
		store := selection.Restore(session.Selections)
		s.Equal(int64(1500+4000), store.TotalCost().Amount)
		s.Equal(uint64(2), session.Selections.Epoch)
	})

	s.Run("unknown option", func() {
		err := s.controller.Apply(session, ToggleSeat("t1", legOut, "99Z"))
		s.ErrorIs(err, ErrOptionNotFound)
		err = s.controller.Apply(session, ToggleMeal("t1", legCon, "VGML"))
		s.ErrorIs(err, ErrOptionNotFound)
	})

	s.Run("baggage on a leg is out of scope", func() {
		err := s.controller.Apply(session, ToggleBaggage("t1", legOut, "BAG20"))
		s.ErrorIs(err, selection.ErrInvalidScope)
		s.Equal(uint64(2), session.Selections.Epoch)
	})

	s.Run("seat held by another traveler", func() {
		err := s.controller.Apply(session, ToggleSeat("t2", legOut, "12A"))
		s.ErrorIs(err, selection.ErrSeatUnavailable)
		err = s.controller.Apply(session, ToggleSeat("t2", legOut, "12C"))
		s.ErrorIs(err, selection.ErrSeatUnavailable)
		s.Equal(uint64(2), session.Selections.Epoch)
	})

	s.Run("unknown traveler", func() {
		err := s.controller.Apply(session, ToggleMeal("t9", legOut, "VGML"))
		s.ErrorIs(err, selection.ErrUnknownTraveler)
	})

	s.Run("reconcile waits for confirmation", func() {
		err := s.controller.Advance(s.ctx, session, Reconcile())
		s.ErrorIs(err, ErrAncillariesPending)
	})
}

// =============================================================================
// Reconciliation and booking
// =============================================================================

func (s *ControllerSuite) TestHappyPath() {
	session := s.session(testItinerary())
	s.Require().NoError(s.controller.Apply(session, ToggleSeat("t1", legOut, "12A")))
	s.Require().NoError(s.controller.Apply(session, ConfirmAncillaries()))
	s.Equal(models.StateReconciling, session.State)

	s.Require().NoError(s.controller.Advance(s.ctx, session, Reconcile()))
	s.Equal(models.StateReadyToBook, session.State)
	s.Equal(models.PipelineSettledOK, session.Pipeline)
	s.True(CanBook(session))

	allocs := s.provider.allocations()
	s.Require().Len(allocs, 1)
	s.Require().Len(allocs[0].Travelers, 2)
	s.Require().Len(allocs[0].Travelers[0].SSR.Seat, 1)
	s.Equal("12A", allocs[0].Travelers[0].SSR.Seat[0].Code)
	s.Empty(allocs[0].Travelers[1].SSR.Seat)

	s.Require().NoError(s.controller.Advance(s.ctx, session, Book()))
	s.Equal(models.StateBooked, session.State)
	s.Require().NotNil(session.Confirmation)
	s.Equal("REF-1", session.Confirmation.Reference)
	s.Equal(1, session.BookingAttempts)

	books := s.provider.bookings()
	s.Require().Len(books, 1)
	s.Equal("trace-3", books[0].TraceID)
	s.Equal("ITN-3", books[0].ItineraryCode)

	s.Run("booked sessions accept nothing", func() {
		s.ErrorIs(s.controller.Apply(session, ToggleSeat("t1", legOut, "12B")), ErrInvalidTransition)
		s.ErrorIs(s.controller.Advance(s.ctx, session, Book()), ErrInvalidTransition)
		s.ErrorIs(s.controller.Advance(s.ctx, session, Reconcile()), ErrInvalidTransition)
	})
}

func (s *ControllerSuite) TestSelectedSeatsAreNotAPriceChange() {
	session := s.session(testItinerary())
	s.Require().NoError(s.controller.Apply(session, ToggleSeat("t1", legOut, "12A")))
	s.Require().NoError(s.controller.Apply(session, ToggleSeat("t2", legOut, "12B")))
	s.Require().NoError(s.controller.Apply(session, ConfirmAncillaries()))

	s.provider.recheck = func(context.Context, models.RecheckRequest) (*models.RecheckResponse, error) {
		return &models.RecheckResponse{TotalAmount: 447.5}, nil
	}
	s.Require().NoError(s.controller.Advance(s.ctx, session, Reconcile()))
	s.Require().NotNil(session.Reconciliation)
	s.False(session.Reconciliation.IsPriceChanged)
	s.Equal(447.5, session.Reconciliation.PreviousTotalAmount)

	s.Run("a new selection is priced from the fare again", func() {
		s.Require().NoError(s.controller.Apply(session, ToggleMeal("t1", legOut, "VGML")))
		s.Require().NoError(s.controller.Apply(session, ConfirmAncillaries()))
		s.provider.recheck = func(context.Context, models.RecheckRequest) (*models.RecheckResponse, error) {
			return &models.RecheckResponse{TotalAmount: 455.75}, nil
		}
		s.Require().NoError(s.controller.Advance(s.ctx, session, Reconcile()))
		s.False(session.Reconciliation.IsPriceChanged)
		s.Equal(455.75, session.Reconciliation.PreviousTotalAmount)
	})

	s.Run("a degraded recheck keeps the selections in the price", func() {
		fresh := s.session(testItinerary())
		s.Require().NoError(s.controller.Apply(fresh, ToggleSeat("t1", legOut, "12A")))
		s.Require().NoError(s.controller.Apply(fresh, ConfirmAncillaries()))
		s.provider.recheck = func(context.Context, models.RecheckRequest) (*models.RecheckResponse, error) {
			return nil, errors.New("fare service down")
		}
		s.Require().NoError(s.controller.Advance(s.ctx, fresh, Reconcile()))
		s.Equal(models.PipelineSettledDegraded, fresh.Pipeline)
		s.Equal(435.5, fresh.Reconciliation.TotalAmount)
	})
}

func (s *ControllerSuite) TestSelectionChangeInvalidates() {
	session := s.session(testItinerary())
	s.Require().NoError(s.controller.Apply(session, ConfirmAncillaries()))
	s.Require().NoError(s.controller.Advance(s.ctx, session, Reconcile()))
	s.Require().True(CanBook(session))

	s.Require().NoError(s.controller.Apply(session, ToggleMeal("t2", legOut, "VGML")))
	s.Equal(models.StateAncillarySelection, session.State)
	s.Nil(session.Reconciliation)
	s.False(session.AncillaryConfirmed)
	s.False(CanBook(session))

	err := s.controller.Advance(s.ctx, session, Book())
	s.ErrorIs(err, ErrBookingNotPermitted)
	s.Empty(s.provider.bookings())

	s.Run("reconcile after reconfirming restores booking", func() {
		s.Require().NoError(s.controller.Apply(session, ConfirmAncillaries()))
		s.Require().NoError(s.controller.Advance(s.ctx, session, Reconcile()))
		s.True(CanBook(session))
		allocs := s.provider.allocations()
		s.Require().Len(allocs, 2)
		s.Equal("trace-3", allocs[1].TraceID)
		s.Len(allocs[1].Travelers[1].SSR.Meal, 1)
	})

	s.Run("closing the selection clears it and invalidates", func() {
		s.Require().NoError(s.controller.Apply(session, CloseAncillaries()))
		s.True(selection.Restore(session.Selections).Empty())
		s.False(CanBook(session))
		s.Equal(models.StateAncillarySelection, session.State)
	})
}

func (s *ControllerSuite) TestStaleOutcomeIsDiscarded() {
	session := s.session(testItinerary())
	s.Require().NoError(s.controller.Apply(session, ConfirmAncillaries()))

	in, err := s.controller.PrepareReconcile(session)
	s.Require().NoError(err)
	out := s.controller.RunPipeline(s.ctx, in)
	s.Require().Equal(models.PipelineSettledOK, out.State)

	s.Require().NoError(s.controller.Apply(session, ToggleSeat("t1", legOut, "12B")))

	err = s.controller.ApplyReconcile(session, out)
	s.ErrorIs(err, ErrStaleResult)
	s.Nil(session.Reconciliation)
	s.Equal(models.StateAncillarySelection, session.State)
	s.False(CanBook(session))
}

func (s *ControllerSuite) TestReconcileFailures() {
	s.Run("allocation failure keeps the session reconciling", func() {
		s.provider.allocate = func(context.Context, models.AllocateRequest) (*models.AllocateResponse, error) {
			return nil, errors.New("name mismatch")
		}
		session := s.session(bareItinerary())
		err := s.controller.Advance(s.ctx, session, Reconcile())
		s.ErrorIs(err, reconcile.ErrAllocationFailed)
		s.Equal(models.StateReconciling, session.State)
		s.Equal(models.PipelineFailed, session.Pipeline)
		s.Contains(session.LastError, "name mismatch")
		s.False(CanBook(session))
	})

	s.Run("degraded recheck still permits booking", func() {
		s.provider.allocate = nil
		s.provider.recheck = func(context.Context, models.RecheckRequest) (*models.RecheckResponse, error) {
			return nil, errors.New("fare service down")
		}
		session := s.session(bareItinerary())
		s.Require().NoError(s.controller.Advance(s.ctx, session, Reconcile()))
		s.Equal(models.PipelineSettledDegraded, session.Pipeline)
		s.Equal(models.StateReadyToBook, session.State)
		s.NotEmpty(session.LastError)
		s.True(session.Reconciliation.Degraded)
		s.Equal(420.5, session.Reconciliation.TotalAmount)
		s.True(CanBook(session))
	})
}

func (s *ControllerSuite) TestBookingFailureCanBeRetried() {
	attempts := 0
	s.provider.book = func(context.Context, models.BookRequest) (*models.BookingConfirmation, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("fare expired")
		}
		return &models.BookingConfirmation{Reference: "REF-2", Status: "CONFIRMED"}, nil
	}
	session := s.session(bareItinerary())
	s.Require().NoError(s.controller.Advance(s.ctx, session, Reconcile()))

	err := s.controller.Advance(s.ctx, session, Book())
	s.Require().ErrorIs(err, ErrBookingFailed)
	s.Equal(models.StateBookingFailed, session.State)
	s.True(CanBook(session))

	s.Require().NoError(s.controller.Advance(s.ctx, session, Book()))
	s.Equal(models.StateBooked, session.State)
	s.Equal("REF-2", session.Confirmation.Reference)
	s.Equal(2, session.BookingAttempts)
}

func (s *ControllerSuite) TestBookingInProgress() {
	session := s.session(bareItinerary())
	s.Require().NoError(s.controller.Advance(s.ctx, session, Reconcile()))
	_, err := s.controller.PrepareBooking(session)
	s.Require().NoError(err)

	_, err = s.controller.PrepareBooking(session)
	s.ErrorIs(err, ErrBookingInProgress)
	s.ErrorIs(s.controller.Apply(session, ConfirmAncillaries()), ErrInvalidTransition)
}

func TestSendBookingWithoutConfirmation(t *testing.T) {
	p := &fakeProvider{book: func(context.Context, models.BookRequest) (*models.BookingConfirmation, error) {
		return nil, nil
	}}
	c := NewController(reconcile.New(p), p, nil, 0)
	_, err := c.SendBooking(context.Background(), models.BookRequest{})
	require.ErrorIs(t, err, errNoConfirmation)
}

// =============================================================================
// Traveler validation
// =============================================================================

func TestValidateTravelers(t *testing.T) {
	cases := []struct {
		name   string
		mutate func([]models.Traveler) []models.Traveler
	}{
		{"empty list", func([]models.Traveler) []models.Traveler { return nil }},
		{"missing id", func(ts []models.Traveler) []models.Traveler { ts[1].ID = ""; return ts }},
		{"duplicate id", func(ts []models.Traveler) []models.Traveler { ts[1].ID = "t1"; return ts }},
		{"missing name", func(ts []models.Traveler) []models.Traveler { ts[1].LastName = " "; return ts }},
		{"bad birth date", func(ts []models.Traveler) []models.Traveler { ts[1].DateOfBirth = "30/09/1990"; return ts }},
		{"unknown type", func(ts []models.Traveler) []models.Traveler { ts[1].Type = "SNR"; return ts }},
		{"no lead", func(ts []models.Traveler) []models.Traveler { ts[0].IsLead = false; return ts }},
		{"lead without phone", func(ts []models.Traveler) []models.Traveler { ts[0].Phone = ""; return ts }},
		{"two leads", func(ts []models.Traveler) []models.Traveler {
			ts[1].IsLead, ts[1].Email, ts[1].Phone = true, "b@example.com", "+254700000002"
			return ts
		}},
		{"more infants than adults", func(ts []models.Traveler) []models.Traveler {
			ts[1].Type = models.TravelerInfant
			return append(ts, models.Traveler{ID: "t3", Type: models.TravelerInfant, FirstName: "Cleo", LastName: "Otieno"})
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateTravelers(tc.mutate(testTravelers()))
			assert.ErrorIs(t, err, ErrInvalidTravelers)
		})
	}

	t.Run("valid list defaults the type", func(t *testing.T) {
		travelers := testTravelers()
		travelers = append(travelers, models.Traveler{ID: "t3", Type: models.TravelerInfant, FirstName: "Cleo", LastName: "Otieno"})
		require.NoError(t, validateTravelers(travelers))
		assert.Equal(t, models.TravelerAdult, travelers[1].Type)
	})
}
