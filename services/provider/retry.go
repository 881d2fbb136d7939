package provider

import (
	"context"
	"time"

	"flightdesk/models"

	"go.uber.org/zap"
)

// retryingProvider retries flight search on retryable failures. The booking steps are
// passed through untouched; a failed step is surfaced and retried by the agent.
type retryingProvider struct {
	Provider
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

func NewRetryingProvider(p Provider, maxRetries int, backoff time.Duration, logger *zap.Logger) Provider {
	if maxRetries <= 0 {
		return p
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &retryingProvider{Provider: p, maxRetries: maxRetries, backoff: backoff, logger: logger}
}

func (r *retryingProvider) SearchFlights(ctx context.Context, req models.FlightSearchRequest) (*models.FlightSearchResponse, error) {
	var out *models.FlightSearchResponse
	err := r.retry(ctx, OpSearchFlights, func() error {
		var err error
		out, err = r.Provider.SearchFlights(ctx, req)
		return err
	})
	return out, err
}

func (r *retryingProvider) retry(ctx context.Context, op string, fn func() error) error {
	backoff := r.backoff
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == r.maxRetries {
			return err
		}
		r.logger.Info("retrying provider call", zap.String("op", op), zap.Int("attempt", attempt+1), zap.Error(err))
		select {
		case <-ctx.Done():
			return NewProviderError(op, 0, "retry aborted", ctx.Err())
		case <-time.After(backoff):
			backoff *= 2
		}
	}
}
