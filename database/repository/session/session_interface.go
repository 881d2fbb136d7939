package sessionRepo

import (
	"context"
	"errors"

	"flightdesk/models"
)

var ErrSessionNotFound = errors.New("booking session not found or expired")

// SessionStore keeps in-flight booking sessions. Save refreshes the expiry.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.BookingSession, error)
	Save(ctx context.Context, session *models.BookingSession) error
	Delete(ctx context.Context, sessionID string) error
}
