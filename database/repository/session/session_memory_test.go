package sessionRepo

import (
	"context"
	"testing"
	"time"

	"flightdesk/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type MemorySessionStoreSuite struct {
	suite.Suite
	store *MemorySessionStore
	now   time.Time
}

func (s *MemorySessionStoreSuite) SetupTest() {
	s.now = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	s.store = NewMemorySessionStore(30 * time.Minute)
	s.store.SetClock(func() time.Time { return s.now })
}

func TestMemorySessionStoreSuite(t *testing.T) {
	suite.Run(t, new(MemorySessionStoreSuite))
}

func newSession() *models.BookingSession {
	return &models.BookingSession{
		SessionID: uuid.New().String(),
		Provider:  "sky",
		State:     models.StateAncillarySelection,
		Itinerary: models.Itinerary{
			TripKind: models.TripOneWay,
			Currency: "USD",
			SeatMaps: map[models.ScopeKey]models.SeatMap{
				"NBO-JED": {Leg: "NBO-JED", Source: "NBO-DXB", Rows: [][]models.SeatOption{{{Code: "12A", Price: 15}}}},
			},
		},
		Selections: models.SelectionSet{
			Currency:  "USD",
			Travelers: []string{"t1"},
			Entries: map[string]models.TravelerSelection{
				"t1": {Seats: []models.SelectionEntry{{TravelerID: "t1", Scope: "NBO-JED", Code: "12A", Price: 15}}},
			},
			Epoch: 3,
		},
		Pipeline: models.PipelineIdle,
	}
}

func (s *MemorySessionStoreSuite) TestSaveAndGet() {
	s.Run("returns a copy of the stored session", func() {
		session := newSession()
		s.Require().NoError(s.store.Save(context.Background(), session))

		found, err := s.store.Get(context.Background(), session.SessionID)
		s.Require().NoError(err)
		s.Equal(session.State, found.State)
		s.Equal(uint64(3), found.Selections.Epoch)
		s.Equal(models.ScopeKey("NBO-DXB"), found.Itinerary.SeatMaps["NBO-JED"].Source)

		found.State = models.StateBooked
		again, err := s.store.Get(context.Background(), session.SessionID)
		s.Require().NoError(err)
		s.Equal(models.StateAncillarySelection, again.State)
	})

	s.Run("returns ErrSessionNotFound for unknown ids", func() {
		_, err := s.store.Get(context.Background(), uuid.New().String())
		s.Require().ErrorIs(err, ErrSessionNotFound)
	})
}

func (s *MemorySessionStoreSuite) TestExpiry() {
	session := newSession()
	s.Require().NoError(s.store.Save(context.Background(), session))

	s.Run("save refreshes the expiry", func() {
		s.now = s.now.Add(20 * time.Minute)
		s.Require().NoError(s.store.Save(context.Background(), session))
		s.now = s.now.Add(20 * time.Minute)

		_, err := s.store.Get(context.Background(), session.SessionID)
		s.Require().NoError(err)
	})

	s.Run("expired sessions are gone", func() {
		s.now = s.now.Add(11 * time.Minute)
		_, err := s.store.Get(context.Background(), session.SessionID)
		s.Require().ErrorIs(err, ErrSessionNotFound)
	})
}

func (s *MemorySessionStoreSuite) TestDelete() {
	session := newSession()
	s.Require().NoError(s.store.Save(context.Background(), session))

	s.Require().NoError(s.store.Delete(context.Background(), session.SessionID))
	_, err := s.store.Get(context.Background(), session.SessionID)
	s.Require().ErrorIs(err, ErrSessionNotFound)

	s.Require().ErrorIs(s.store.Delete(context.Background(), session.SessionID), ErrSessionNotFound)
}

func TestMemorySessionStoreWithoutTTL(t *testing.T) {
	store := NewMemorySessionStore(0)
	session := newSession()
	if err := store.Save(context.Background(), session); err != nil {
		t.Fatal(err)
	}
	store.SetClock(func() time.Time { return time.Now().Add(24 * 365 * time.Hour) })
	if _, err := store.Get(context.Background(), session.SessionID); err != nil {
		t.Fatalf("session without ttl expired: %v", err)
	}
}
