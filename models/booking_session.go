package models

import "time"

// BookingState is the position of a session in the booking workflow.
type BookingState string

const (
	StateCollectingTravelers BookingState = "collecting_travelers"
	StateAncillarySelection  BookingState = "ancillary_selection"
	StateReconciling         BookingState = "reconciling"
	StateReadyToBook         BookingState = "ready_to_book"
	StateBooking             BookingState = "booking"
	StateBooked              BookingState = "booked"
	StateBookingFailed       BookingState = "booking_failed"
)

// PipelineState mirrors the reconciliation pipeline position for the session.
type PipelineState string

const (
	PipelineIdle            PipelineState = "idle"
	PipelineAllocating      PipelineState = "allocating"
	PipelineRechecking      PipelineState = "rechecking"
	PipelineSettledOK       PipelineState = "settled_ok"
	PipelineSettledDegraded PipelineState = "settled_degraded"
	PipelineFailed          PipelineState = "failed"
)

// Settled reports whether travelers are allocated.
func (p PipelineState) Settled() bool {
	return p == PipelineSettledOK || p == PipelineSettledDegraded
}

// BookingSession holds context between itinerary creation and final booking.
type BookingSession struct {
	SessionID          string                `json:"sessionId"`
	Provider           string                `json:"provider"`
	AgentID            string                `json:"agentId,omitempty"`
	State              BookingState          `json:"state"`
	Itinerary          Itinerary             `json:"itinerary"`
	Travelers          []Traveler            `json:"travelers,omitempty"`
	Selections         SelectionSet          `json:"selections"`
	AncillaryConfirmed bool                  `json:"ancillaryConfirmed"`
	Pipeline           PipelineState         `json:"pipeline"`
	Reconciliation     *ReconciliationResult `json:"reconciliation,omitempty"`
	LastSettled        *ReconciliationResult `json:"lastSettled,omitempty"`
	LastError          string                `json:"lastError,omitempty"`
	Confirmation       *BookingConfirmation  `json:"confirmation,omitempty"`
	BookingAttempts    int                   `json:"bookingAttempts"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
}
