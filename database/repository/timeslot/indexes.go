// FILE: database/repository/timeslot/indexes.go
package timeslotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the timeslots collection.
func (r *mongoTimeSlotRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on Timeslot ID
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Compound index for ownerId and start (primary query pattern)
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("owner_start_idx"),
		},
		// Compound index for ownerId + isBooked + start for free-capacity scans
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "isBooked", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("owner_booked_start_idx"),
		},
		// Unique sparse back-references to the booking aggregate
		{
			Keys:    bson.D{{Key: "bookingRequestId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("unique_booking_request_idx"),
		},
		{
			Keys:    bson.D{{Key: "bookingJobId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("unique_booking_job_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create timeslot indexes: %w", err)
	}
	return nil
}
