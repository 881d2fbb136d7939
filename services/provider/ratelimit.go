package provider

import (
	"context"

	"flightdesk/models"

	"golang.org/x/time/rate"
)

type rateLimitedProvider struct {
	provider Provider
	limiter  *rate.Limiter
}

// NewRateLimitedProvider spaces calls to the upstream at perSecond, with a burst of one.
func NewRateLimitedProvider(p Provider, perSecond float64) Provider {
	if perSecond <= 0 {
		return p
	}
	return &rateLimitedProvider{
		provider: p,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

func (r *rateLimitedProvider) wait(ctx context.Context, op string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return NewProviderError(op, 0, "rate limiter", err)
	}
	return nil
}

func (r *rateLimitedProvider) SearchFlights(ctx context.Context, req models.FlightSearchRequest) (*models.FlightSearchResponse, error) {
	if err := r.wait(ctx, OpSearchFlights); err != nil {
		return nil, err
	}
	return r.provider.SearchFlights(ctx, req)
}

func (r *rateLimitedProvider) CreateItinerary(ctx context.Context, req models.CreateItineraryRequest) (*models.ItineraryRaw, error) {
	if err := r.wait(ctx, OpCreateItinerary); err != nil {
		return nil, err
	}
	return r.provider.CreateItinerary(ctx, req)
}

func (r *rateLimitedProvider) AllocatePassengers(ctx context.Context, req models.AllocateRequest) (*models.AllocateResponse, error) {
	if err := r.wait(ctx, OpAllocatePassengers); err != nil {
		return nil, err
	}
	return r.provider.AllocatePassengers(ctx, req)
}

func (r *rateLimitedProvider) RecheckRate(ctx context.Context, req models.RecheckRequest) (*models.RecheckResponse, error) {
	if err := r.wait(ctx, OpRecheckRate); err != nil {
		return nil, err
	}
	return r.provider.RecheckRate(ctx, req)
}

func (r *rateLimitedProvider) BookFlight(ctx context.Context, req models.BookRequest) (*models.BookingConfirmation, error) {
	if err := r.wait(ctx, OpBookFlight); err != nil {
		return nil, err
	}
	return r.provider.BookFlight(ctx, req)
}
