// File: database/repository/timeslot/queries.go
package timeslotRepo

import (
	"context"
	"fmt"
	"time"

	"slotify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (repo *mongoTimeSlotRepo) GetByOwnerInRange(ctx context.Context, ownerID string, from, to time.Time) ([]models.Timeslot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Matches on the plain window or on the transit-padded one, so partially
	// visible booked buffers surface alongside free availability.
	filter := bson.M{
		"ownerId": ownerID,
		"$or": bson.A{
			bson.M{"start": bson.M{"$lt": to}, "end": bson.M{"$gt": from}},
			bson.M{"transitStart": bson.M{"$lt": to}, "transitEnd": bson.M{"$gt": from}},
		},
	}

	cursor, err := repo.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeslots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.Timeslot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding timeslots: %w", err)
	}
	return slots, nil
}

func (repo *mongoTimeSlotRepo) GetUnbookedInRange(ctx context.Context, ownerID string, from, to time.Time) ([]models.Timeslot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Boundary-inclusive: a slot ending exactly at `from` (or starting at
	// `to`) still counts, because contiguous free intervals must merge.
	filter := bson.M{
		"ownerId":  ownerID,
		"isBooked": false,
		"start":    bson.M{"$lte": to},
		"end":      bson.M{"$gte": from},
	}

	cursor, err := repo.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unbooked timeslots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.Timeslot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding timeslots: %w", err)
	}
	return slots, nil
}

func (repo *mongoTimeSlotRepo) GetUnbookedFrom(ctx context.Context, ownerID string, from time.Time) ([]models.Timeslot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"ownerId":  ownerID,
		"isBooked": false,
		"end":      bson.M{"$gt": from},
	}

	cursor, err := repo.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unbooked timeslots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.Timeslot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding timeslots: %w", err)
	}
	return slots, nil
}

func (repo *mongoTimeSlotRepo) GetFixedTemplates(ctx context.Context, ownerID string, from, to time.Time) ([]models.Timeslot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"ownerId": ownerID,
		"isFixed": true,
		"start":   bson.M{"$gte": from, "$lt": to},
	}

	cursor, err := repo.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fixed templates: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.Timeslot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding fixed templates: %w", err)
	}
	return slots, nil
}

// HasFutureInstance matches only on (day-of-week, start-time, end-time);
// which calendar week a candidate belongs to is ignored.
func (repo *mongoTimeSlotRepo) HasFutureInstance(ctx context.Context, ownerID string, weekday time.Weekday, startMin, endMin int, after time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	minutesOf := func(field string) bson.M {
		return bson.M{"$add": bson.A{
			bson.M{"$multiply": bson.A{bson.M{"$hour": "$" + field}, 60}},
			bson.M{"$minute": "$" + field},
		}}
	}

	filter := bson.M{
		"ownerId": ownerID,
		"isFixed": true,
		"start":   bson.M{"$gt": after},
		"$expr": bson.M{"$and": bson.A{
			// $dayOfWeek is 1-based starting at Sunday.
			bson.M{"$eq": bson.A{bson.M{"$dayOfWeek": "$start"}, int(weekday) + 1}},
			bson.M{"$eq": bson.A{minutesOf("start"), startMin}},
			bson.M{"$eq": bson.A{minutesOf("end"), endMin}},
		}},
	}

	count, err := repo.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to probe future instances: %w", err)
	}
	return count > 0, nil
}

func (repo *mongoTimeSlotRepo) OwnersWithFixedSlots(ctx context.Context, from, to time.Time) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"isFixed": true,
		"start":   bson.M{"$gte": from, "$lt": to},
	}

	raw, err := repo.coll.Distinct(ctx, "ownerId", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list owners with fixed slots: %w", err)
	}

	owners := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			owners = append(owners, s)
		}
	}
	return owners, nil
}
