package bookingRepo

import (
	"context"
	"errors"
	"time"

	"flightdesk/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a booking record and returns its ID.
func (r *MongoBookingRepo) Create(ctx context.Context, record models.BookingRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return "", err
	}
	return record.ID, nil
}

// GetByReference returns the record for a provider booking reference.
func (r *MongoBookingRepo) GetByReference(ctx context.Context, reference string) (*models.BookingRecord, error) {
	return r.findOne(ctx, bson.M{"reference": reference})
}

// GetBySessionID returns the record a booking session produced.
func (r *MongoBookingRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.BookingRecord, error) {
	return r.findOne(ctx, bson.M{"session_id": sessionID})
}

// ListByAgent returns an agent's most recent bookings first.
func (r *MongoBookingRepo) ListByAgent(ctx context.Context, agentID string, limit int64) ([]models.BookingRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, bson.M{"agent_id": agentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.BookingRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *MongoBookingRepo) findOne(ctx context.Context, filter bson.M) (*models.BookingRecord, error) {
	var record models.BookingRecord
	if err := r.coll.FindOne(ctx, filter).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &record, nil
}
