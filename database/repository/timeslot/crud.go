// File: database/repository/timeslot/crud.go
package timeslotRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotify/models"
)

func (r *mongoTimeSlotRepo) CreateMany(ctx context.Context, slots []models.Timeslot) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	docs := make([]interface{}, len(slots))
	ids := make([]string, len(slots))
	for i, slot := range slots {
		if slot.ID == "" {
			slot.ID = uuid.New().String()
		}
		if slot.Title == "" {
			slot.Title = models.TitleAvailable
		}
		docs[i] = slot
		ids[i] = slot.ID
	}

	if _, err := r.coll.InsertMany(ctx, docs, &options.InsertManyOptions{Ordered: boolPtr(true)}); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *mongoTimeSlotRepo) Update(ctx context.Context, slot *models.Timeslot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slot.ID}
	res, err := r.coll.ReplaceOne(ctx, filter, slot)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoTimeSlotRepo) DeleteByID(ctx context.Context, ownerID, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID, "ownerId": ownerID}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoTimeSlotRepo) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *mongoTimeSlotRepo) GetByID(ctx context.Context, slotID string) (*models.Timeslot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.Timeslot
	err := r.coll.FindOne(ctx, bson.M{"id": slotID}).Decode(&slot)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *mongoTimeSlotRepo) GetByRequestID(ctx context.Context, requestID string) (*models.Timeslot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.Timeslot
	err := r.coll.FindOne(ctx, bson.M{"bookingRequestId": requestID}).Decode(&slot)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *mongoTimeSlotRepo) GetByJobID(ctx context.Context, jobID string) (*models.Timeslot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.Timeslot
	err := r.coll.FindOne(ctx, bson.M{"bookingJobId": jobID}).Decode(&slot)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func boolPtr(b bool) *bool { return &b }
