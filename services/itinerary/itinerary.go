// Package itinerary normalizes createItinerary responses into one canonical shape:
// directions made of physical legs, with seat maps and meal menus keyed per leg and
// baggage menus keyed per direction. All trip-shape differences are resolved here.
package itinerary

import (
	"errors"
	"fmt"
	"time"

	"flightdesk/models"

	"go.uber.org/zap"
)

var (
	ErrUnsupportedItinerary = errors.New("unsupported itinerary shape")
	ErrDuplicateLeg         = errors.New("duplicate leg in itinerary")
)

// Classify tells which of the known shapes the raw response has.
func Classify(raw models.ItineraryRaw) (models.TripKind, error) {
	switch len(raw.Items) {
	case 1:
		item := raw.Items[0]
		switch {
		case len(item.Journeys) == 2:
			return models.TripInternationalRoundTrip, nil
		case len(item.Journeys) == 1, len(item.Journeys) == 0 && len(item.Segments) > 0:
			return models.TripOneWay, nil
		}
		return "", fmt.Errorf("%w: item has %d journeys and %d segments", ErrUnsupportedItinerary, len(item.Journeys), len(item.Segments))
	case 2:
		for i, item := range raw.Items {
			if len(item.Journeys) > 0 || len(item.Segments) == 0 {
				return "", fmt.Errorf("%w: round trip item %d is not a single direction", ErrUnsupportedItinerary, i)
			}
		}
		return models.TripDomesticRoundTrip, nil
	}
	return "", fmt.Errorf("%w: %d items", ErrUnsupportedItinerary, len(raw.Items))
}

type builder struct {
	logger *zap.Logger
	it     *models.Itinerary
}

// Build normalizes a raw itinerary. Unkeyable legs and missing catalogs are recorded as
// notices on the result, never returned as errors.
func Build(raw models.ItineraryRaw, logger *zap.Logger) (*models.Itinerary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	kind, err := Classify(raw)
	if err != nil {
		return nil, err
	}

	b := &builder{
		logger: logger.With(zap.String("itineraryCode", raw.ItineraryCode), zap.String("tripKind", string(kind))),
		it: &models.Itinerary{
			TripKind:      kind,
			TraceID:       raw.TraceID,
			ItineraryCode: raw.ItineraryCode,
			Currency:      raw.Currency,
			TotalAmount:   raw.TotalAmount,
			SeatMaps:      make(map[models.ScopeKey]models.SeatMap),
			Baggage:       make(map[models.ScopeKey][]models.BaggageOption),
			Meals:         make(map[models.ScopeKey][]models.MealOption),
		},
	}

	switch kind {
	case models.TripOneWay:
		item := raw.Items[0]
		origin, destination, segments := item.Origin, item.Destination, item.Segments
		if len(item.Journeys) == 1 {
			j := item.Journeys[0]
			origin, destination, segments = j.Origin, j.Destination, j.Segments
		}
		err = b.addDirection(origin, destination, segments, item.SSR)
	case models.TripDomesticRoundTrip:
		for _, item := range raw.Items {
			if err = b.addDirection(item.Origin, item.Destination, item.Segments, item.SSR); err != nil {
				break
			}
		}
	case models.TripInternationalRoundTrip:
		item := raw.Items[0]
		for _, j := range item.Journeys {
			if err = b.addDirection(j.Origin, j.Destination, j.Segments, item.SSR); err != nil {
				break
			}
		}
	}
	if err != nil {
		return nil, err
	}

	b.logger.Debug("itinerary normalized",
		zap.Int("directions", len(b.it.Directions)),
		zap.Int("seatMaps", len(b.it.SeatMaps)),
		zap.Int("notices", len(b.it.Notices)))
	return b.it, nil
}

func (b *builder) addDirection(origin, destination string, segments []models.RawSegment, ssr models.RawSSRCatalog) error {
	if origin == "" && len(segments) > 0 {
		origin = segments[0].Origin
	}
	if destination == "" && len(segments) > 0 {
		destination = segments[len(segments)-1].Destination
	}

	index := len(b.it.Directions)
	kind := models.DirectionOutbound
	if index > 0 {
		kind = models.DirectionReturn
	}
	dir := models.Direction{
		Index:       index,
		Kind:        kind,
		Key:         models.NewScopeKey(origin, destination),
		Origin:      origin,
		Destination: destination,
		Legs:        make([]models.PhysicalLeg, 0, len(segments)),
	}

	for _, seg := range segments {
		leg := models.PhysicalLeg{
			Key:          models.NewScopeKey(seg.Origin, seg.Destination),
			Origin:       seg.Origin,
			Destination:  seg.Destination,
			FlightNumber: seg.FlightNumber,
			DepartureAt:  formatTime(seg.DepartureAt),
			ArrivalAt:    formatTime(seg.ArrivalAt),
		}
		if leg.Key == "" {
			leg.Degraded = true
			b.notice(models.NoticeLegUnresolved, dir.Key, fmt.Sprintf("leg %q of direction %d has no origin or destination", seg.FlightNumber, index))
			dir.Legs = append(dir.Legs, leg)
			continue
		}
		if _, exists := b.it.Leg(leg.Key); exists || containsLeg(dir.Legs, leg.Key) {
			return fmt.Errorf("%w: %s", ErrDuplicateLeg, leg.Key)
		}

		b.attachSeatMap(leg.Key, dir.Key, ssr.Seats)
		if meals, ok := findMenu(ssr.Meals, leg.Key); ok {
			b.it.Meals[leg.Key] = toMealOptions(meals)
		}
		dir.Legs = append(dir.Legs, leg)
	}

	if dir.Key == "" {
		b.notice(models.NoticeMenuUnresolved, "", fmt.Sprintf("direction %d has no origin or destination; baggage unavailable", index))
	} else if bags, ok := findMenu(ssr.Baggage, dir.Key); ok {
		b.it.Baggage[dir.Key] = toBaggageOptions(bags)
	}

	b.it.Directions = append(b.it.Directions, dir)
	return nil
}

// attachSeatMap prefers the map published for the leg itself and falls back to the
// direction-level map.
func (b *builder) attachSeatMap(leg, direction models.ScopeKey, maps []models.RawSeatMap) {
	if raw, ok := findSeatMap(maps, leg); ok {
		b.it.SeatMaps[leg] = toSeatMap(leg, leg, raw)
		return
	}
	if direction != "" && direction != leg {
		if raw, ok := findSeatMap(maps, direction); ok {
			b.it.SeatMaps[leg] = toSeatMap(leg, direction, raw)
			b.notice(models.NoticeSeatMapFallback, leg, fmt.Sprintf("seat map for %s taken from direction %s", leg, direction))
			return
		}
	}
	if len(maps) > 0 {
		b.notice(models.NoticeSeatMapMissing, leg, fmt.Sprintf("no seat map published for %s", leg))
	}
}

func (b *builder) notice(kind models.NoticeKind, scope models.ScopeKey, message string) {
	b.it.Notices = append(b.it.Notices, models.Notice{Kind: kind, Scope: scope, Message: message})
	b.logger.Warn("itinerary notice",
		zap.String("kind", string(kind)),
		zap.String("scope", string(scope)),
		zap.String("message", message))
}

func containsLeg(legs []models.PhysicalLeg, key models.ScopeKey) bool {
	for _, l := range legs {
		if l.Key == key {
			return true
		}
	}
	return false
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
