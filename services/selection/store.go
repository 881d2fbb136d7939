// Package selection owns the per-traveler ancillary choices of a booking session and
// enforces their scoping rules: one seat and one meal per traveler per leg, one baggage
// option per traveler per direction, and no seat shared between travelers.
package selection

import (
	"fmt"
	"slices"

	"flightdesk/models"
)

type kind int

const (
	kindSeat kind = iota
	kindBaggage
	kindMeal
)

// Store wraps a SelectionSet. It is not safe for concurrent use; callers serialize
// access per booking session.
type Store struct {
	set models.SelectionSet
}

// NewStore returns an empty store for the given travelers.
func NewStore(currency string, travelerIDs []string) *Store {
	entries := make(map[string]models.TravelerSelection, len(travelerIDs))
	for _, id := range travelerIDs {
		entries[id] = emptySelection()
	}
	return &Store{set: models.SelectionSet{
		Currency:  currency,
		Travelers: slices.Clone(travelerIDs),
		Entries:   entries,
	}}
}

// Restore rebuilds a store from a persisted snapshot.
func Restore(set models.SelectionSet) *Store {
	s := &Store{set: clone(set)}
	for _, id := range s.set.Travelers {
		if _, ok := s.set.Entries[id]; !ok {
			s.set.Entries[id] = emptySelection()
		}
	}
	return s
}

// Snapshot returns a deep copy of the current selections.
func (s *Store) Snapshot() models.SelectionSet {
	return clone(s.set)
}

// Epoch identifies the current selection state. It increases on every accepted change.
func (s *Store) Epoch() uint64 {
	return s.set.Epoch
}

// Holder returns the traveler holding a seat on a leg.
func (s *Store) Holder(leg models.ScopeKey, code string) (string, bool) {
	for id, sel := range s.set.Entries {
		for _, e := range sel.Seats {
			if e.Scope == leg && e.Code == code {
				return id, true
			}
		}
	}
	return "", false
}

// ToggleSeat selects, replaces or deselects a traveler's seat on a leg.
func (s *Store) ToggleSeat(travelerID string, leg models.ScopeKey, seat models.SeatOption) error {
	if err := s.check(travelerID, leg); err != nil {
		return err
	}
	if seat.IsBooked {
		return fmt.Errorf("%w: %s on %s is already booked", ErrSeatUnavailable, seat.Code, leg)
	}
	if holder, ok := s.Holder(leg, seat.Code); ok && holder != travelerID {
		return fmt.Errorf("%w: %s on %s is held by another traveler", ErrSeatUnavailable, seat.Code, leg)
	}

	entries := s.set.Entries[travelerID].Seats
	if idx := indexOf(entries, leg); idx < 0 && s.seatHolders(leg) >= len(s.set.Travelers) {
		return fmt.Errorf("%w: %s already has %d seats", ErrSeatLimitReached, leg, len(s.set.Travelers))
	}

	label := seat.Number
	if label == "" {
		label = seat.Code
	}
	s.toggle(kindSeat, models.SelectionEntry{
		TravelerID: travelerID,
		Scope:      leg,
		Code:       seat.Code,
		Label:      label,
		Price:      seat.Price,
	})
	return nil
}

// ToggleBaggage selects, replaces or deselects a traveler's baggage on a direction.
func (s *Store) ToggleBaggage(travelerID string, direction models.ScopeKey, opt models.BaggageOption) error {
	if err := s.check(travelerID, direction); err != nil {
		return err
	}
	s.toggle(kindBaggage, models.SelectionEntry{
		TravelerID: travelerID,
		Scope:      direction,
		Code:       opt.Code,
		Label:      opt.Description,
		Price:      opt.Price,
	})
	return nil
}

// ToggleMeal selects, replaces or deselects a traveler's meal on a leg.
func (s *Store) ToggleMeal(travelerID string, leg models.ScopeKey, opt models.MealOption) error {
	if err := s.check(travelerID, leg); err != nil {
		return err
	}
	s.toggle(kindMeal, models.SelectionEntry{
		TravelerID: travelerID,
		Scope:      leg,
		Code:       opt.Code,
		Label:      opt.Description,
		Price:      opt.Price,
	})
	return nil
}

// Clear drops every selection, as when the ancillary view is closed.
func (s *Store) Clear() {
	for _, id := range s.set.Travelers {
		s.set.Entries[id] = emptySelection()
	}
	s.set.Epoch++
}

// Empty reports whether no traveler holds any ancillary.
func (s *Store) Empty() bool {
	for _, sel := range s.set.Entries {
		if len(sel.Seats)+len(sel.Baggage)+len(sel.Meals) > 0 {
			return false
		}
	}
	return true
}

func (s *Store) check(travelerID string, scope models.ScopeKey) error {
	if _, ok := s.set.Entries[travelerID]; !ok || !slices.Contains(s.set.Travelers, travelerID) {
		return fmt.Errorf("%w: %s", ErrUnknownTraveler, travelerID)
	}
	if !scope.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
	return nil
}

// toggle removes the entry when the traveler already holds the same option on the scope,
// and otherwise replaces whatever the traveler held on that scope.
func (s *Store) toggle(k kind, entry models.SelectionEntry) {
	sel := s.set.Entries[entry.TravelerID]
	list := listOf(&sel, k)

	if idx := indexOf(*list, entry.Scope); idx >= 0 {
		current := (*list)[idx]
		*list = slices.Delete(*list, idx, idx+1)
		if current.Code == entry.Code {
			s.set.Entries[entry.TravelerID] = sel
			s.set.Epoch++
			return
		}
	}
	*list = append(*list, entry)
	s.set.Entries[entry.TravelerID] = sel
	s.set.Epoch++
}

func listOf(sel *models.TravelerSelection, k kind) *[]models.SelectionEntry {
	switch k {
	case kindSeat:
		return &sel.Seats
	case kindBaggage:
		return &sel.Baggage
	default:
		return &sel.Meals
	}
}

// seatHolders counts the travelers holding a seat on a leg, including entries restored
// for travelers no longer on the set.
func (s *Store) seatHolders(leg models.ScopeKey) int {
	n := 0
	for _, sel := range s.set.Entries {
		if indexOf(sel.Seats, leg) >= 0 {
			n++
		}
	}
	return n
}

func indexOf(entries []models.SelectionEntry, scope models.ScopeKey) int {
	return slices.IndexFunc(entries, func(e models.SelectionEntry) bool { return e.Scope == scope })
}

func emptySelection() models.TravelerSelection {
	return models.TravelerSelection{
		Seats:   []models.SelectionEntry{},
		Baggage: []models.SelectionEntry{},
		Meals:   []models.SelectionEntry{},
	}
}

func clone(set models.SelectionSet) models.SelectionSet {
	out := models.SelectionSet{
		Currency:  set.Currency,
		Travelers: slices.Clone(set.Travelers),
		Entries:   make(map[string]models.TravelerSelection, len(set.Entries)),
		Epoch:     set.Epoch,
	}
	for id, sel := range set.Entries {
		out.Entries[id] = models.TravelerSelection{
			Seats:   cloneEntries(sel.Seats),
			Baggage: cloneEntries(sel.Baggage),
			Meals:   cloneEntries(sel.Meals),
		}
	}
	return out
}

func cloneEntries(entries []models.SelectionEntry) []models.SelectionEntry {
	if entries == nil {
		return []models.SelectionEntry{}
	}
	return slices.Clone(entries)
}
