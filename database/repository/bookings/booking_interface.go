package bookingRepo

import (
	"context"
	"errors"

	"flightdesk/models"
)

var ErrBookingNotFound = errors.New("booking record not found")

// BookingRepository persists confirmed reservations.
type BookingRepository interface {
	Create(ctx context.Context, record models.BookingRecord) (string, error)
	GetByReference(ctx context.Context, reference string) (*models.BookingRecord, error)
	GetBySessionID(ctx context.Context, sessionID string) (*models.BookingRecord, error)
	ListByAgent(ctx context.Context, agentID string, limit int64) ([]models.BookingRecord, error)
}
