package models

import "time"

// ReconciliationResult is the outcome of the latest allocate and recheck run.
// It is replaced wholesale on every run and is only valid for the selection Epoch it names.
type ReconciliationResult struct {
	TraceID             string    `json:"traceId"`
	ItineraryCode       string    `json:"itineraryCode"`
	TotalAmount         float64   `json:"totalAmount"`
	PreviousTotalAmount float64   `json:"previousTotalAmount"`
	IsPriceChanged      bool      `json:"isPriceChanged"`
	IsBaggageChanged    bool      `json:"isBaggageChanged"`
	Degraded            bool      `json:"degraded"`
	Warning             string    `json:"warning,omitempty"`
	Epoch               uint64    `json:"epoch"`
	SettledAt           time.Time `json:"settledAt"`
}
