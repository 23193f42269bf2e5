// File: database/repository/timeslot/interface.go
package timeslotRepo

import (
	"context"
	"time"

	"slotify/config"
	"slotify/database"
	"slotify/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// TimeSlotRepository is the persistence seam for Timeslot records. It carries
// no business logic; callers compose its range queries and CRUD inside
// WithTransaction when atomicity is required.
type TimeSlotRepository interface {
	CreateMany(ctx context.Context, slots []models.Timeslot) ([]string, error)
	Update(ctx context.Context, slot *models.Timeslot) error
	DeleteByID(ctx context.Context, ownerID, slotID string) error
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)

	GetByID(ctx context.Context, slotID string) (*models.Timeslot, error)
	GetByRequestID(ctx context.Context, requestID string) (*models.Timeslot, error)
	GetByJobID(ctx context.Context, jobID string) (*models.Timeslot, error)

	// GetByOwnerInRange returns every slot of the owner whose occupied span
	// (plain or transit-padded) overlaps [from, to).
	GetByOwnerInRange(ctx context.Context, ownerID string, from, to time.Time) ([]models.Timeslot, error)
	// GetUnbookedInRange returns unbooked slots overlapping [from, to],
	// boundary-inclusive so that adjacent slots surface for merging.
	GetUnbookedInRange(ctx context.Context, ownerID string, from, to time.Time) ([]models.Timeslot, error)
	// GetUnbookedFrom returns unbooked slots ending after `from`, sorted by start.
	GetUnbookedFrom(ctx context.Context, ownerID string, from time.Time) ([]models.Timeslot, error)

	GetFixedTemplates(ctx context.Context, ownerID string, from, to time.Time) ([]models.Timeslot, error)
	// HasFutureInstance reports whether the owner has any slot after `after`
	// matching the weekly signature (weekday, minutes-from-midnight bounds).
	// The calendar week of a match is deliberately not considered.
	HasFutureInstance(ctx context.Context, ownerID string, weekday time.Weekday, startMin, endMin int, after time.Time) (bool, error)
	// OwnersWithFixedSlots lists distinct owners holding fixed templates in [from, to).
	OwnersWithFixedSlots(ctx context.Context, from, to time.Time) ([]string, error)

	// WithTransaction runs fn inside one multi-statement transaction with
	// snapshot read concern. fn receives a session-bound context that must be
	// passed to every repository call made within it.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	EnsureIndexes(ctx context.Context) error
}

type mongoTimeSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoTimeSlotRepo constructs a new MongoDB TimeSlotRepository.
func NewMongoTimeSlotRepo() TimeSlotRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoTimeSlotRepo{
		coll: db.Collection("timeslots"),
	}
}
