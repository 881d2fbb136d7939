package models

import "time"

// Logical request and response shapes exchanged with the upstream flight provider.

type FlightSearchRequest struct {
	Provider      string `json:"provider" form:"provider"`
	Origin        string `json:"origin" form:"origin" binding:"required"`
	Destination   string `json:"destination" form:"destination" binding:"required"`
	DepartureDate string `json:"departureDate" form:"departureDate" binding:"required"`
	ReturnDate    string `json:"returnDate,omitempty" form:"returnDate"`
	Adults        int    `json:"adults" form:"adults"`
	Children      int    `json:"children" form:"children"`
	Infants       int    `json:"infants" form:"infants"`
	CabinClass    string `json:"cabinClass,omitempty" form:"cabinClass"`
}

type FlightOffer struct {
	ItemID      string       `json:"itemId"`
	Airline     string       `json:"airline"`
	Origin      string       `json:"origin"`
	Destination string       `json:"destination"`
	Segments    []RawSegment `json:"segments"`
	Currency    string       `json:"currency"`
	TotalAmount float64      `json:"totalAmount"`
}

type FlightSearchResponse struct {
	TraceID string        `json:"traceId"`
	Offers  []FlightOffer `json:"offers"`
}

type CreateItineraryRequest struct {
	Provider string   `json:"provider"`
	TraceID  string   `json:"traceId"`
	Items    []string `json:"items"`
}

// AllocatedTraveler is a traveler record as sent to allocatePassengers.
type AllocatedTraveler struct {
	Traveler `bson:",inline"`
	SSR      SSR `json:"ssr" bson:"ssr"`
}

type AllocateRequest struct {
	Provider      string              `json:"provider"`
	TraceID       string              `json:"traceId"`
	ItineraryCode string              `json:"itineraryCode"`
	Travelers     []AllocatedTraveler `json:"travelers"`
}

// AllocateResponse may omit either code, in which case the pre-allocation codes still apply.
type AllocateResponse struct {
	TraceID       string `json:"traceId"`
	ItineraryCode string `json:"itineraryCode"`
}

type RecheckRequest struct {
	Provider      string `json:"provider"`
	TraceID       string `json:"traceId"`
	ItineraryCode string `json:"itineraryCode"`
}

type RecheckResponse struct {
	TotalAmount         float64 `json:"totalAmount"`
	PreviousTotalAmount float64 `json:"previousTotalAmount"`
	IsPriceChanged      bool    `json:"isPriceChanged"`
	IsBaggageChanged    bool    `json:"isBaggageChanged"`
	TraceID             string  `json:"traceId"`
	ItineraryCode       string  `json:"itineraryCode"`
}

type BookRequest struct {
	Provider      string `json:"provider"`
	TraceID       string `json:"traceId"`
	ItineraryCode string `json:"itineraryCode"`
}

// BookingConfirmation is the provider's answer to bookFlight.
type BookingConfirmation struct {
	Reference   string    `json:"reference" bson:"reference"`
	PNR         string    `json:"pnr" bson:"pnr"`
	Status      string    `json:"status" bson:"status"`
	TotalAmount float64   `json:"totalAmount" bson:"total_amount"`
	Currency    string    `json:"currency" bson:"currency"`
	TicketLimit time.Time `json:"ticketLimit,omitempty" bson:"ticket_limit,omitempty"`
}
