package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"flightdesk/models"

	"go.uber.org/zap"
)

// HTTPProvider talks JSON to the upstream provider gateway.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// envelope is the response wrapper of every gateway endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *HTTPProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (p *HTTPProvider) SearchFlights(ctx context.Context, req models.FlightSearchRequest) (*models.FlightSearchResponse, error) {
	var out models.FlightSearchResponse
	if err := p.call(ctx, OpSearchFlights, "/flights/search", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *HTTPProvider) CreateItinerary(ctx context.Context, req models.CreateItineraryRequest) (*models.ItineraryRaw, error) {
	var out models.ItineraryRaw
	if err := p.call(ctx, OpCreateItinerary, "/itineraries", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *HTTPProvider) AllocatePassengers(ctx context.Context, req models.AllocateRequest) (*models.AllocateResponse, error) {
	var out models.AllocateResponse
	if err := p.call(ctx, OpAllocatePassengers, "/itineraries/passengers", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *HTTPProvider) RecheckRate(ctx context.Context, req models.RecheckRequest) (*models.RecheckResponse, error) {
	var out models.RecheckResponse
	if err := p.call(ctx, OpRecheckRate, "/itineraries/recheck", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *HTTPProvider) BookFlight(ctx context.Context, req models.BookRequest) (*models.BookingConfirmation, error) {
	var out models.BookingConfirmation
	if err := p.call(ctx, OpBookFlight, "/bookings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *HTTPProvider) call(ctx context.Context, op, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return NewProviderError(op, 0, "encode request", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return NewProviderError(op, 0, "build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("X-Api-Key", p.apiKey)
	}

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.logger.Warn("provider call failed", zap.String("op", op), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return NewProviderError(op, 0, "no response", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return NewProviderError(op, resp.StatusCode, "read response", err)
	}
	p.logger.Debug("provider call",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return NewProviderError(op, resp.StatusCode, "decode response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		status := resp.StatusCode
		if status >= 200 && status <= 299 {
			// Business rejection inside a 2xx envelope is final.
			status = http.StatusUnprocessableEntity
		}
		return NewProviderError(op, status, msg, nil)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return NewProviderError(op, resp.StatusCode, "empty response data", errors.New("missing data"))
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return NewProviderError(op, resp.StatusCode, "decode response data", err)
	}
	return nil
}

// String is used in logs.
func (p *HTTPProvider) String() string {
	return fmt.Sprintf("http provider %s", p.baseURL)
}
