package provider

import (
	"context"

	"flightdesk/models"
)

// Provider is the upstream flight-provider API the booking core drives.
// Calls for one booking session are issued strictly one after another since each step
// consumes the trace ID and itinerary code returned by the previous one.
type Provider interface {
	SearchFlights(ctx context.Context, req models.FlightSearchRequest) (*models.FlightSearchResponse, error)
	CreateItinerary(ctx context.Context, req models.CreateItineraryRequest) (*models.ItineraryRaw, error)
	AllocatePassengers(ctx context.Context, req models.AllocateRequest) (*models.AllocateResponse, error)
	RecheckRate(ctx context.Context, req models.RecheckRequest) (*models.RecheckResponse, error)
	BookFlight(ctx context.Context, req models.BookRequest) (*models.BookingConfirmation, error)
}

// Operation names, used in errors, logs and metrics.
const (
	OpSearchFlights      = "searchFlights"
	OpCreateItinerary    = "createItinerary"
	OpAllocatePassengers = "allocatePassengers"
	OpRecheckRate        = "recheckRate"
	OpBookFlight         = "bookFlight"
)
