package models

import "time"

// ItineraryRaw is the createItinerary response as published by the upstream provider.
// A one-way or domestic round trip publishes one item per direction with flat segments;
// an international round trip publishes a single item whose Journeys hold both directions.
type ItineraryRaw struct {
	TraceID       string    `json:"traceId"`
	ItineraryCode string    `json:"itineraryCode"`
	Currency      string    `json:"currency"`
	TotalAmount   float64   `json:"totalAmount"`
	Items         []RawItem `json:"items"`
}

type RawItem struct {
	Origin      string        `json:"origin"`
	Destination string        `json:"destination"`
	Segments    []RawSegment  `json:"segments,omitempty"`
	Journeys    []RawJourney  `json:"journeys,omitempty"`
	SSR         RawSSRCatalog `json:"ssr"`
}

// RawJourney is one direction of an international round trip.
type RawJourney struct {
	Origin      string       `json:"origin"`
	Destination string       `json:"destination"`
	Segments    []RawSegment `json:"segments"`
}

type RawSegment struct {
	Origin       string    `json:"origin"`
	Destination  string    `json:"destination"`
	FlightNumber string    `json:"flightNumber"`
	DepartureAt  time.Time `json:"departureAt"`
	ArrivalAt    time.Time `json:"arrivalAt"`
}

// RawSSRCatalog lists the special service requests (ancillaries) on sale for an item.
// Seat maps are usually published per leg, but connection-less carriers publish a single
// map for the whole direction.
type RawSSRCatalog struct {
	Seats   []RawSeatMap `json:"seats,omitempty"`
	Baggage []RawMenu    `json:"baggage,omitempty"`
	Meals   []RawMenu    `json:"meals,omitempty"`
}

type RawSeatMap struct {
	Origin      string       `json:"origin"`
	Destination string       `json:"destination"`
	Rows        []RawSeatRow `json:"rows"`
}

type RawSeatRow struct {
	Row   string    `json:"row"`
	Seats []RawSeat `json:"seats"`
}

type RawSeat struct {
	Code   string  `json:"code"`
	Number string  `json:"number"`
	Amount float64 `json:"amount"`
	Booked bool    `json:"booked"`
	Aisle  bool    `json:"aisle"`
}

type RawMenu struct {
	Origin      string      `json:"origin"`
	Destination string      `json:"destination"`
	Options     []RawOption `json:"options"`
}

type RawOption struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}
