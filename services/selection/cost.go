package selection

import "flightdesk/models"

// TotalCost sums every held ancillary. Each price is rounded to the currency's minor unit
// before summing, so the result does not depend on insertion order.
func (s *Store) TotalCost() models.Money {
	total := models.Money{Currency: s.set.Currency}
	for _, sel := range s.set.Entries {
		for _, list := range [][]models.SelectionEntry{sel.Seats, sel.Baggage, sel.Meals} {
			for _, e := range list {
				total.Amount += models.ToMinor(e.Price, s.set.Currency)
			}
		}
	}
	return total
}

// TravelerCost sums the ancillaries held by one traveler.
func (s *Store) TravelerCost(travelerID string) models.Money {
	total := models.Money{Currency: s.set.Currency}
	sel := s.set.Entries[travelerID]
	for _, list := range [][]models.SelectionEntry{sel.Seats, sel.Baggage, sel.Meals} {
		for _, e := range list {
			total.Amount += models.ToMinor(e.Price, s.set.Currency)
		}
	}
	return total
}

// SSR rebuilds the allocatePassengers ancillary payload of a traveler. Lists are never nil.
func (s *Store) SSR(travelerID string) models.SSR {
	sel := s.set.Entries[travelerID]
	out := models.SSR{
		Seat:    make([]models.SSRSeat, 0, len(sel.Seats)),
		Baggage: make([]models.SSRItem, 0, len(sel.Baggage)),
		Meal:    make([]models.SSRItem, 0, len(sel.Meals)),
	}
	for _, e := range sel.Seats {
		out.Seat = append(out.Seat, models.SSRSeat{
			Origin:      e.Scope.Origin(),
			Destination: e.Scope.Destination(),
			Code:        e.Code,
			Amount:      e.Price,
			Seat:        e.Label,
		})
	}
	for _, e := range sel.Baggage {
		out.Baggage = append(out.Baggage, ssrItem(e))
	}
	for _, e := range sel.Meals {
		out.Meal = append(out.Meal, ssrItem(e))
	}
	return out
}

func ssrItem(e models.SelectionEntry) models.SSRItem {
	return models.SSRItem{
		Origin:      e.Scope.Origin(),
		Destination: e.Scope.Destination(),
		Code:        e.Code,
		Amount:      e.Price,
		Description: e.Label,
	}
}
