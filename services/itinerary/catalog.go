package itinerary

import "flightdesk/models"

func findSeatMap(maps []models.RawSeatMap, key models.ScopeKey) (models.RawSeatMap, bool) {
	for _, m := range maps {
		if models.NewScopeKey(m.Origin, m.Destination) == key {
			return m, true
		}
	}
	return models.RawSeatMap{}, false
}

func findMenu(menus []models.RawMenu, key models.ScopeKey) (models.RawMenu, bool) {
	for _, m := range menus {
		if models.NewScopeKey(m.Origin, m.Destination) == key {
			return m, true
		}
	}
	return models.RawMenu{}, false
}

func toSeatMap(leg, source models.ScopeKey, raw models.RawSeatMap) models.SeatMap {
	rows := make([][]models.SeatOption, 0, len(raw.Rows))
	for _, r := range raw.Rows {
		row := make([]models.SeatOption, 0, len(r.Seats))
		for _, s := range r.Seats {
			if s.Code == "" {
				continue
			}
			number := s.Number
			if number == "" {
				number = s.Code
			}
			row = append(row, models.SeatOption{
				Code:     s.Code,
				Number:   number,
				Row:      r.Row,
				Price:    s.Amount,
				IsBooked: s.Booked,
				IsAisle:  s.Aisle,
			})
		}
		rows = append(rows, row)
	}
	return models.SeatMap{Leg: leg, Source: source, Rows: rows}
}

func toBaggageOptions(menu models.RawMenu) []models.BaggageOption {
	opts := make([]models.BaggageOption, 0, len(menu.Options))
	for _, o := range menu.Options {
		if o.Code == "" {
			continue
		}
		opts = append(opts, models.BaggageOption{Code: o.Code, Description: o.Description, Price: o.Amount})
	}
	return opts
}

func toMealOptions(menu models.RawMenu) []models.MealOption {
	opts := make([]models.MealOption, 0, len(menu.Options))
	for _, o := range menu.Options {
		if o.Code == "" {
			continue
		}
		opts = append(opts, models.MealOption{Code: o.Code, Description: o.Description, Price: o.Amount})
	}
	return opts
}
