package booking

import "flightdesk/models"

// ActionKind names one user action on a booking session.
type ActionKind string

const (
	ActionSubmitTravelers    ActionKind = "submit_travelers"
	ActionToggleSeat         ActionKind = "toggle_seat"
	ActionToggleBaggage      ActionKind = "toggle_baggage"
	ActionToggleMeal         ActionKind = "toggle_meal"
	ActionConfirmAncillaries ActionKind = "confirm_ancillaries"
	ActionCloseAncillaries   ActionKind = "close_ancillaries"
	ActionReconcile          ActionKind = "reconcile"
	ActionBook               ActionKind = "book"
)

// Action carries the payload of an ActionKind. Toggle actions reference an option by
// code; prices always come from the itinerary catalog.
type Action struct {
	Kind       ActionKind
	Travelers  []models.Traveler
	TravelerID string
	Scope      models.ScopeKey // leg for seats and meals, direction for baggage
	Code       string
}

// Remote reports whether the action calls the upstream provider.
func (a Action) Remote() bool {
	return a.Kind == ActionReconcile || a.Kind == ActionBook
}

func SubmitTravelers(travelers []models.Traveler) Action {
	return Action{Kind: ActionSubmitTravelers, Travelers: travelers}
}

func ToggleSeat(travelerID string, leg models.ScopeKey, code string) Action {
	return Action{Kind: ActionToggleSeat, TravelerID: travelerID, Scope: leg, Code: code}
}

func ToggleBaggage(travelerID string, direction models.ScopeKey, code string) Action {
	return Action{Kind: ActionToggleBaggage, TravelerID: travelerID, Scope: direction, Code: code}
}

func ToggleMeal(travelerID string, leg models.ScopeKey, code string) Action {
	return Action{Kind: ActionToggleMeal, TravelerID: travelerID, Scope: leg, Code: code}
}

func ConfirmAncillaries() Action { return Action{Kind: ActionConfirmAncillaries} }

func CloseAncillaries() Action { return Action{Kind: ActionCloseAncillaries} }

func Reconcile() Action { return Action{Kind: ActionReconcile} }

func Book() Action { return Action{Kind: ActionBook} }
