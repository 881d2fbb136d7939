package models

// TravelerType follows the IATA passenger type codes.
type TravelerType string

const (
	TravelerAdult  TravelerType = "ADT"
	TravelerChild  TravelerType = "CHD"
	TravelerInfant TravelerType = "INF"
)

// Traveler is a passenger on the reservation. Identity is fixed once the itinerary's
// passenger counts are known; only ancillary selections change afterwards.
type Traveler struct {
	ID             string       `json:"id" bson:"id"`
	Type           TravelerType `json:"type" bson:"type"`
	Title          string       `json:"title" bson:"title"`
	FirstName      string       `json:"firstName" bson:"first_name"`
	LastName       string       `json:"lastName" bson:"last_name"`
	Gender         string       `json:"gender" bson:"gender"`
	DateOfBirth    string       `json:"dateOfBirth" bson:"date_of_birth"` // YYYY-MM-DD
	Nationality    string       `json:"nationality,omitempty" bson:"nationality,omitempty"`
	PassportNumber string       `json:"passportNumber,omitempty" bson:"passport_number,omitempty"`
	PassportExpiry string       `json:"passportExpiry,omitempty" bson:"passport_expiry,omitempty"`
	Email          string       `json:"email,omitempty" bson:"email,omitempty"`
	Phone          string       `json:"phone,omitempty" bson:"phone,omitempty"`
	IsLead         bool         `json:"isLead" bson:"is_lead"`
}

// ContactRequired reports whether the traveler must carry contact details. Only the lead
// passenger is contacted by the provider.
func (t Traveler) ContactRequired() bool {
	return t.IsLead
}
