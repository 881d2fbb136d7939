package booking

import (
	"fmt"
	"strings"
	"time"

	"flightdesk/models"
)

const dateLayout = "2006-01-02"

// validateTravelers checks the traveler list submitted to a session and fills in the
// default passenger type.
func validateTravelers(travelers []models.Traveler) error {
	if len(travelers) == 0 {
		return fmt.Errorf("%w: at least one traveler is required", ErrInvalidTravelers)
	}

	seen := make(map[string]struct{}, len(travelers))
	leads, adults, infants := 0, 0, 0
	for i := range travelers {
		t := &travelers[i]
		if t.ID == "" {
			return fmt.Errorf("%w: traveler %d has no id", ErrInvalidTravelers, i+1)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: duplicate traveler id %s", ErrInvalidTravelers, t.ID)
		}
		seen[t.ID] = struct{}{}

		if strings.TrimSpace(t.FirstName) == "" || strings.TrimSpace(t.LastName) == "" {
			return fmt.Errorf("%w: traveler %s needs a first and last name", ErrInvalidTravelers, t.ID)
		}
		if t.DateOfBirth != "" {
			if _, err := time.Parse(dateLayout, t.DateOfBirth); err != nil {
				return fmt.Errorf("%w: traveler %s date of birth must be YYYY-MM-DD", ErrInvalidTravelers, t.ID)
			}
		}

		switch t.Type {
		case "":
			t.Type = models.TravelerAdult
			adults++
		case models.TravelerAdult:
			adults++
		case models.TravelerChild:
		case models.TravelerInfant:
			infants++
		default:
			return fmt.Errorf("%w: traveler %s has unknown type %q", ErrInvalidTravelers, t.ID, t.Type)
		}

		if t.IsLead {
			leads++
		}
		if t.ContactRequired() && (t.Email == "" || t.Phone == "") {
			return fmt.Errorf("%w: lead traveler %s needs an email and a phone number", ErrInvalidTravelers, t.ID)
		}
	}

	if leads != 1 {
		return fmt.Errorf("%w: exactly one lead traveler is required, got %d", ErrInvalidTravelers, leads)
	}
	if infants > adults {
		return fmt.Errorf("%w: each infant must travel with an adult", ErrInvalidTravelers)
	}
	return nil
}

func travelerIDs(travelers []models.Traveler) []string {
	ids := make([]string, 0, len(travelers))
	for _, t := range travelers {
		ids = append(ids, t.ID)
	}
	return ids
}
