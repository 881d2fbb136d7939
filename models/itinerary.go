package models

import "strings"

// TripKind discriminates the itinerary shapes the provider publishes.
type TripKind string

const (
	TripOneWay                 TripKind = "ONE_WAY"
	TripDomesticRoundTrip      TripKind = "DOMESTIC_ROUND_TRIP"
	TripInternationalRoundTrip TripKind = "INTERNATIONAL_ROUND_TRIP"
)

// DirectionKind tells outbound from return traversals.
type DirectionKind string

const (
	DirectionOutbound DirectionKind = "outbound"
	DirectionReturn   DirectionKind = "return"
)

// ScopeKey identifies a leg or a direction by its "ORIGIN-DESTINATION" airport pair.
type ScopeKey string

// NewScopeKey builds a key from airport codes. It returns "" when either side is missing.
func NewScopeKey(origin, destination string) ScopeKey {
	origin = strings.ToUpper(strings.TrimSpace(origin))
	destination = strings.ToUpper(strings.TrimSpace(destination))
	if origin == "" || destination == "" {
		return ""
	}
	return ScopeKey(origin + "-" + destination)
}

// Origin returns the departure airport of the key.
func (k ScopeKey) Origin() string {
	origin, _, _ := strings.Cut(string(k), "-")
	return origin
}

// Destination returns the arrival airport of the key.
func (k ScopeKey) Destination() string {
	_, destination, _ := strings.Cut(string(k), "-")
	return destination
}

// Valid reports whether both airports are present.
func (k ScopeKey) Valid() bool {
	return k.Origin() != "" && k.Destination() != ""
}

// PhysicalLeg is one flown segment inside a Direction.
type PhysicalLeg struct {
	Key          ScopeKey `json:"key"`
	Origin       string   `json:"origin"`
	Destination  string   `json:"destination"`
	FlightNumber string   `json:"flightNumber,omitempty"`
	DepartureAt  string   `json:"departureAt,omitempty"`
	ArrivalAt    string   `json:"arrivalAt,omitempty"`
	// Degraded legs could not be keyed and expose no ancillaries.
	Degraded bool `json:"degraded,omitempty"`
}

// Direction is one traversal of the journey.
type Direction struct {
	Index       int           `json:"index"`
	Kind        DirectionKind `json:"kind"`
	Key         ScopeKey      `json:"key"`
	Origin      string        `json:"origin"`
	Destination string        `json:"destination"`
	Legs        []PhysicalLeg `json:"legs"`
}

type SeatOption struct {
	Code     string  `json:"code"`
	Number   string  `json:"number"`
	Row      string  `json:"row"`
	Price    float64 `json:"price"`
	IsBooked bool    `json:"isBooked"`
	IsAisle  bool    `json:"isAisle"`
}

// SeatMap is the seat catalog of one leg. Source records the key it was published under,
// which differs from Leg when the direction-level map was used.
type SeatMap struct {
	Leg    ScopeKey       `json:"leg"`
	Source ScopeKey       `json:"source"`
	Rows   [][]SeatOption `json:"rows"`
}

type BaggageOption struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type MealOption struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// NoticeKind classifies the non-fatal findings of itinerary normalization.
type NoticeKind string

const (
	NoticeSeatMapFallback NoticeKind = "seat_map_fallback"
	NoticeSeatMapMissing  NoticeKind = "seat_map_missing"
	NoticeLegUnresolved   NoticeKind = "leg_unresolved"
	NoticeMenuUnresolved  NoticeKind = "menu_unresolved"
)

type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Scope   ScopeKey   `json:"scope,omitempty"`
	Message string     `json:"message"`
}

// Itinerary is the normalized, read-only view of a createItinerary response.
type Itinerary struct {
	TripKind      TripKind                     `json:"tripKind"`
	TraceID       string                       `json:"traceId"`
	ItineraryCode string                       `json:"itineraryCode"`
	Currency      string                       `json:"currency"`
	TotalAmount   float64                      `json:"totalAmount"`
	Directions    []Direction                  `json:"directions"`
	SeatMaps      map[ScopeKey]SeatMap         `json:"seatMaps"`
	Baggage       map[ScopeKey][]BaggageOption `json:"baggage"`
	Meals         map[ScopeKey][]MealOption    `json:"meals"`
	Notices       []Notice                     `json:"notices,omitempty"`
}

// SeatMap returns the seat catalog of a leg.
func (it *Itinerary) SeatMap(leg ScopeKey) (SeatMap, bool) {
	m, ok := it.SeatMaps[leg]
	return m, ok
}

// Seat finds a seat by code on a leg.
func (it *Itinerary) Seat(leg ScopeKey, code string) (SeatOption, bool) {
	m, ok := it.SeatMaps[leg]
	if !ok {
		return SeatOption{}, false
	}
	for _, row := range m.Rows {
		for _, seat := range row {
			if seat.Code == code {
				return seat, true
			}
		}
	}
	return SeatOption{}, false
}

// BaggageOption finds a baggage option by code on a direction.
func (it *Itinerary) BaggageOption(direction ScopeKey, code string) (BaggageOption, bool) {
	for _, opt := range it.Baggage[direction] {
		if opt.Code == code {
			return opt, true
		}
	}
	return BaggageOption{}, false
}

// MealOption finds a meal option by code on a leg.
func (it *Itinerary) MealOption(leg ScopeKey, code string) (MealOption, bool) {
	for _, opt := range it.Meals[leg] {
		if opt.Code == code {
			return opt, true
		}
	}
	return MealOption{}, false
}

// Leg returns the physical leg with the given key.
func (it *Itinerary) Leg(key ScopeKey) (PhysicalLeg, bool) {
	for _, d := range it.Directions {
		for _, leg := range d.Legs {
			if leg.Key != "" && leg.Key == key {
				return leg, true
			}
		}
	}
	return PhysicalLeg{}, false
}

// Direction returns the direction with the given key.
func (it *Itinerary) Direction(key ScopeKey) (Direction, bool) {
	for _, d := range it.Directions {
		if d.Key != "" && d.Key == key {
			return d, true
		}
	}
	return Direction{}, false
}

// HasAncillaries reports whether any seat, baggage or meal option is on sale.
func (it *Itinerary) HasAncillaries() bool {
	for _, m := range it.SeatMaps {
		for _, row := range m.Rows {
			if len(row) > 0 {
				return true
			}
		}
	}
	for _, opts := range it.Baggage {
		if len(opts) > 0 {
			return true
		}
	}
	for _, opts := range it.Meals {
		if len(opts) > 0 {
			return true
		}
	}
	return false
}
