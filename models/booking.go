package models

import "time"

// BookingRecord is a confirmed reservation kept for after-sales lookups.
type BookingRecord struct {
	ID            string              `bson:"id" json:"id"`                         // Unique record identifier (UUID)
	SessionID     string              `bson:"session_id" json:"session_id"`         // Booking session that produced it
	Provider      string              `bson:"provider" json:"provider"`             // Upstream provider code
	AgentID       string              `bson:"agent_id" json:"agent_id"`             // Travel agent who booked
	Reference     string              `bson:"reference" json:"reference"`           // Provider booking reference
	PNR           string              `bson:"pnr" json:"pnr"`                       // Airline record locator
	TraceID       string              `bson:"trace_id" json:"trace_id"`             // Trace ID the booking was made with
	ItineraryCode string              `bson:"itinerary_code" json:"itinerary_code"` // Itinerary code the booking was made with
	TripKind      TripKind            `bson:"trip_kind" json:"trip_kind"`
	Travelers     []AllocatedTraveler `bson:"travelers" json:"travelers"`
	FareAmount    float64             `bson:"fare_amount" json:"fare_amount"` // Rechecked fare total
	Ancillaries   Money               `bson:"ancillaries" json:"ancillaries"` // Sum of chosen ancillaries
	Status        string              `bson:"status" json:"status"`           // Provider booking status
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
}
