package models

// SelectionEntry is one ancillary held by a traveler. Scope is the leg key for seats and
// meals and the direction key for baggage.
type SelectionEntry struct {
	TravelerID string   `json:"travelerId"`
	Scope      ScopeKey `json:"scope"`
	Code       string   `json:"code"`
	Label      string   `json:"label,omitempty"` // seat number or option description
	Price      float64  `json:"price"`
}

type TravelerSelection struct {
	Seats   []SelectionEntry `json:"seats"`
	Baggage []SelectionEntry `json:"baggage"`
	Meals   []SelectionEntry `json:"meals"`
}

// SelectionSet holds every traveler's ancillaries. Epoch increases on each accepted change
// and identifies the selection session a reconciliation was computed for.
type SelectionSet struct {
	Currency  string                       `json:"currency"`
	Travelers []string                     `json:"travelers"`
	Entries   map[string]TravelerSelection `json:"entries"`
	Epoch     uint64                       `json:"epoch"`
}

// SSR is the per-traveler ancillary payload sent with allocatePassengers.
type SSR struct {
	Seat    []SSRSeat `json:"seat"`
	Baggage []SSRItem `json:"baggage"`
	Meal    []SSRItem `json:"meal"`
}

type SSRSeat struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Code        string  `json:"code"`
	Amount      float64 `json:"amt"`
	Seat        string  `json:"seat"`
}

type SSRItem struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Code        string  `json:"code"`
	Amount      float64 `json:"amt"`
	Description string  `json:"dsc"`
}
