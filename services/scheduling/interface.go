package scheduling

import (
	"context"
	"fmt"
	"time"

	timeslotRepo "slotify/database/repository/timeslot"
	"slotify/models"
	"slotify/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SchedulingEngine is the availability & booking engine. It holds no state
// between calls; all exclusion is transaction-scoped inside the store.
type SchedulingEngine interface {
	// Booking coordinator
	Book(ctx context.Context, req models.BookRequest) (*models.Timeslot, error)

	// Release service
	Release(ctx context.Context, slotID string) (*models.Timeslot, error)
	ReleaseByRequestID(ctx context.Context, requestID string) (*models.Timeslot, error)
	ReleaseByJobID(ctx context.Context, jobID string) (*models.Timeslot, error)

	// Query facade
	AvailabilityForBrowsing(ctx context.Context, ownerID string, paddingMinutes int, rangeStart, rangeEnd *time.Time) ([]models.Timeslot, error)
	NextAvailable(ctx context.Context, ownerID string, paddingMinutes, minimumDurationMinutes int) (*models.Timeslot, error)
	CheckAvailability(ctx context.Context, ownerID string, start, end time.Time) (bool, error)

	// Owner calendar maintenance
	DeclareAvailability(ctx context.Context, req models.DeclareAvailabilityRequest) ([]models.Timeslot, error)
	DeleteSlot(ctx context.Context, ownerID, slotID string) error
	PurgeOwner(ctx context.Context, ownerID string) (int64, error)

	// Recurrence expander
	ExpandTemplate(ctx context.Context, tmpl models.Timeslot, windowStart, windowEnd time.Time) ([]models.Timeslot, error)
	PromoteToFixed(ctx context.Context, ownerID, slotID string) ([]models.Timeslot, error)
	ExtendFixedSlots(ctx context.Context, ownerID string, windowStart, windowEnd time.Time) (int, error)
}

// DefaultSchedulingEngine is our production scheduling engine.
type DefaultSchedulingEngine struct {
	Repo  timeslotRepo.TimeSlotRepository
	Cache *redis.Client // optional; nil disables availability caching

	// MinBookableMinutes drops expansion fragments too short to ever book.
	MinBookableMinutes int
	// HorizonMonths bounds fixed-template expansion from "now".
	HorizonMonths int
}

const (
	defaultMinBookableMinutes = 30
	defaultHorizonMonths      = 6

	availabilityCacheTTL = 30 * time.Second
)

func (se *DefaultSchedulingEngine) minBookable() int {
	if se.MinBookableMinutes > 0 {
		return se.MinBookableMinutes
	}
	return defaultMinBookableMinutes
}

func (se *DefaultSchedulingEngine) horizonMonths() int {
	if se.HorizonMonths > 0 {
		return se.HorizonMonths
	}
	return defaultHorizonMonths
}

// Availability cache entries embed a per-owner generation number; bumping it
// on any calendar mutation orphans stale entries without a key scan.

func (se *DefaultSchedulingEngine) cacheGeneration(ctx context.Context, ownerID string) int64 {
	if se.Cache == nil {
		return 0
	}
	gen, err := se.Cache.Get(ctx, "slots:gen:"+ownerID).Int64()
	if err != nil {
		return 0
	}
	return gen
}

func (se *DefaultSchedulingEngine) invalidateAvailability(ctx context.Context, ownerID string) {
	if se.Cache == nil {
		return
	}
	if err := se.Cache.Incr(ctx, "slots:gen:"+ownerID).Err(); err != nil {
		utils.GetLogger().Warn("failed to bump availability cache generation",
			zap.String("ownerID", ownerID), zap.Error(err))
	}
}

func availabilityCacheKey(ownerID string, gen int64, padding int, from, to time.Time) string {
	return fmt.Sprintf("slots:avail:%s:%d:%d:%d:%d", ownerID, gen, padding, from.Unix(), to.Unix())
}
