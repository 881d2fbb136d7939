// Package reconcile runs the allocate then recheck sequence that confirms travelers and
// refreshes the fare before booking.
//
// The pipeline moves strictly forward:
//
//	idle -> allocating -> rechecking -> settled_ok | settled_degraded
//	          |
//	          +-> failed
//
// An allocation failure stops the run. A recheck failure settles the run in a degraded
// state that keeps the last known price and still permits booking.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flightdesk/models"

	"go.uber.org/zap"
)

var (
	ErrAllocationFailed = errors.New("passenger allocation failed")
	ErrRecheckDegraded  = errors.New("rate recheck failed; using last known price")
	errEmptyResponse    = errors.New("empty response")
)

const defaultStepTimeout = 30 * time.Second

// Remote is the slice of the provider API the pipeline drives.
type Remote interface {
	AllocatePassengers(ctx context.Context, req models.AllocateRequest) (*models.AllocateResponse, error)
	RecheckRate(ctx context.Context, req models.RecheckRequest) (*models.RecheckResponse, error)
}

// Input is a frozen view of the session taken when the pipeline starts.
type Input struct {
	Provider      string
	TraceID       string
	ItineraryCode string
	Currency      string
	Travelers     []models.AllocatedTraveler
	// PreviousTotal is the price the agent last saw for this selection: the last settled
	// total, or the fare plus selected ancillaries when nothing settled for this epoch.
	PreviousTotal float64
	// Epoch is the selection epoch the travelers' SSR lists were built from.
	Epoch uint64
}

// Outcome is the typed result of one run. Err wraps ErrAllocationFailed when State is
// failed and ErrRecheckDegraded when State is settled_degraded.
type Outcome struct {
	State  models.PipelineState
	Result *models.ReconciliationResult
	Err    error
	Trace  []models.PipelineState
	Epoch  uint64
}

// Booking reports whether the outcome allows the booking call.
func (o Outcome) Booking() bool {
	return o.State.Settled()
}

type Pipeline struct {
	remote      Remote
	stepTimeout time.Duration
	metrics     *Metrics
	logger      *zap.Logger
	now         func() time.Time
}

type Option func(*Pipeline)

func WithStepTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.stepTimeout = d
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func New(remote Remote, opts ...Option) *Pipeline {
	p := &Pipeline{
		remote:      remote,
		stepTimeout: defaultStepTimeout,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Metrics returns the metrics the pipeline reports to, possibly nil.
func (p *Pipeline) Metrics() *Metrics {
	return p.metrics
}

type run struct {
	state models.PipelineState
	trace []models.PipelineState
}

func (r *run) enter(s models.PipelineState) {
	r.state = s
	r.trace = append(r.trace, s)
}

// Run executes the pipeline once. It never returns an error: every remote failure is
// folded into the Outcome.
func (p *Pipeline) Run(ctx context.Context, in Input) Outcome {
	logger := p.logger.With(
		zap.String("provider", in.Provider),
		zap.String("itineraryCode", in.ItineraryCode),
		zap.Uint64("epoch", in.Epoch))

	r := &run{}
	r.enter(models.PipelineIdle)

	r.enter(models.PipelineAllocating)
	allocReq := models.AllocateRequest{
		Provider:      in.Provider,
		TraceID:       in.TraceID,
		ItineraryCode: in.ItineraryCode,
		Travelers:     in.Travelers,
	}
	alloc, err := timed(ctx, p, "allocate", func(ctx context.Context) (*models.AllocateResponse, error) {
		return p.remote.AllocatePassengers(ctx, allocReq)
	})
	if err != nil {
		r.enter(models.PipelineFailed)
		logger.Warn("allocation failed", zap.Error(err))
		p.metrics.IncrementOutcome(string(models.PipelineFailed))
		return Outcome{
			State: r.state,
			Err:   fmt.Errorf("%w: %w", ErrAllocationFailed, err),
			Trace: r.trace,
			Epoch: in.Epoch,
		}
	}

	traceID := firstNonEmpty(alloc.TraceID, in.TraceID)
	itineraryCode := firstNonEmpty(alloc.ItineraryCode, in.ItineraryCode)

	r.enter(models.PipelineRechecking)
	recheckReq := models.RecheckRequest{Provider: in.Provider, TraceID: traceID, ItineraryCode: itineraryCode}
	quote, err := timed(ctx, p, "recheck", func(ctx context.Context) (*models.RecheckResponse, error) {
		return p.remote.RecheckRate(ctx, recheckReq)
	})
	if err != nil {
		r.enter(models.PipelineSettledDegraded)
		logger.Warn("recheck failed; settling with last known price", zap.Error(err))
		p.metrics.IncrementOutcome(string(models.PipelineSettledDegraded))
		warn := fmt.Errorf("%w: %w", ErrRecheckDegraded, err)
		return Outcome{
			State: r.state,
			Result: &models.ReconciliationResult{
				TraceID:             traceID,
				ItineraryCode:       itineraryCode,
				TotalAmount:         in.PreviousTotal,
				PreviousTotalAmount: in.PreviousTotal,
				Degraded:            true,
				Warning:             warn.Error(),
				Epoch:               in.Epoch,
				SettledAt:           p.now(),
			},
			Err:   warn,
			Trace: r.trace,
			Epoch: in.Epoch,
		}
	}

	previous := in.PreviousTotal
	if quote.PreviousTotalAmount != 0 {
		previous = quote.PreviousTotalAmount
	}
	priceChanged := quote.IsPriceChanged ||
		models.ToMinor(quote.TotalAmount, in.Currency) != models.ToMinor(previous, in.Currency)

	r.enter(models.PipelineSettledOK)
	p.metrics.IncrementOutcome(string(models.PipelineSettledOK))
	logger.Info("reconciliation settled",
		zap.Float64("totalAmount", quote.TotalAmount),
		zap.Float64("previousTotalAmount", previous),
		zap.Bool("priceChanged", priceChanged),
		zap.Bool("baggageChanged", quote.IsBaggageChanged))

	return Outcome{
		State: r.state,
		Result: &models.ReconciliationResult{
			TraceID:             firstNonEmpty(quote.TraceID, traceID),
			ItineraryCode:       firstNonEmpty(quote.ItineraryCode, itineraryCode),
			TotalAmount:         quote.TotalAmount,
			PreviousTotalAmount: previous,
			IsPriceChanged:      priceChanged,
			IsBaggageChanged:    quote.IsBaggageChanged,
			Epoch:               in.Epoch,
			SettledAt:           p.now(),
		},
		Trace: r.trace,
		Epoch: in.Epoch,
	}
}

// timed runs one remote step under the step timeout. The step is abandoned when the
// deadline passes even if the remote ignores its context, so a silent upstream is
// reported as a failure instead of stalling the pipeline.
func timed[T any](ctx context.Context, p *Pipeline, step string, fn func(context.Context) (*T, error)) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, p.stepTimeout)
	defer cancel()

	type result struct {
		val *T
		err error
	}
	done := make(chan result, 1)
	start := p.now()
	go func() {
		val, err := fn(ctx)
		done <- result{val: val, err: err}
	}()

	select {
	case <-ctx.Done():
		p.metrics.ObserveStep(step, p.now().Sub(start))
		return nil, fmt.Errorf("%s: no response: %w", step, ctx.Err())
	case res := <-done:
		p.metrics.ObserveStep(step, p.now().Sub(start))
		if res.err != nil {
			return nil, res.err
		}
		if res.val == nil {
			return nil, fmt.Errorf("%s: %w", step, errEmptyResponse)
		}
		return res.val, nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
