package scheduling

import (
	"context"
	"encoding/json"
	"time"

	"slotify/models"
	"slotify/utils"

	"go.uber.org/zap"
)

// AvailabilityForBrowsing returns the owner's free future capacity the way a
// consumer should see it: merged, then padded inward so displayed windows
// already account for the owner's transit buffer. Results are cached briefly
// per owner; any calendar mutation invalidates by bumping the generation.
func (se *DefaultSchedulingEngine) AvailabilityForBrowsing(ctx context.Context, ownerID string, paddingMinutes int, rangeStart, rangeEnd *time.Time) ([]models.Timeslot, error) {
	logger := utils.GetLogger()

	if ownerID == "" {
		return nil, NewValidationError("ownerId is required")
	}
	if paddingMinutes < 0 {
		return nil, NewValidationError("padding must not be negative")
	}

	from := time.Now().UTC()
	if rangeStart != nil && rangeStart.After(from) {
		from = *rangeStart
	}
	var to time.Time
	if rangeEnd != nil {
		to = *rangeEnd
		if !to.After(from) {
			return nil, NewValidationError("range end must be after range start")
		}
	}

	key := availabilityCacheKey(ownerID, se.cacheGeneration(ctx, ownerID), paddingMinutes, from.Truncate(time.Minute), to)
	if se.Cache != nil {
		if raw, err := se.Cache.Get(ctx, key).Bytes(); err == nil {
			var cached []models.Timeslot
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var (
		slots []models.Timeslot
		err   error
	)
	if rangeEnd != nil {
		slots, err = se.Repo.GetUnbookedInRange(ctx, ownerID, from, to)
	} else {
		slots, err = se.Repo.GetUnbookedFrom(ctx, ownerID, from)
	}
	if err != nil {
		return nil, classifyEngineError(err)
	}

	padded := AdjustForTransit(MergeSlots(slots), paddingMinutes)
	out := make([]models.Timeslot, 0, len(padded))
	for _, s := range padded {
		if s.Start.Before(s.End) {
			out = append(out, s)
		}
	}

	if se.Cache != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := se.Cache.Set(ctx, key, raw, availabilityCacheTTL).Err(); err != nil {
				logger.Warn("failed to cache availability", zap.String("ownerID", ownerID), zap.Error(err))
			}
		}
	}
	return out, nil
}

// NextAvailable returns the first future unbooked slot whose inward-padded
// duration meets the minimum, or nil when none qualifies.
func (se *DefaultSchedulingEngine) NextAvailable(ctx context.Context, ownerID string, paddingMinutes, minimumDurationMinutes int) (*models.Timeslot, error) {
	if ownerID == "" {
		return nil, NewValidationError("ownerId is required")
	}
	if paddingMinutes < 0 || minimumDurationMinutes < 0 {
		return nil, NewValidationError("padding and minimum duration must not be negative")
	}

	slots, err := se.Repo.GetUnbookedFrom(ctx, ownerID, time.Now().UTC())
	if err != nil {
		return nil, classifyEngineError(err)
	}

	for _, s := range AdjustForTransit(slots, paddingMinutes) {
		// Windows shorter than twice the padding collapse to a degenerate
		// span; browsing never shows them, so neither does this.
		if !s.Start.Before(s.End) {
			continue
		}
		if DurationMinutes(s.Start, s.End) >= minimumDurationMinutes {
			return &s, nil
		}
	}
	return nil, nil
}

// CheckAvailability is a read-only feasibility probe: true iff one contiguous
// merged free interval covers [start, end].
func (se *DefaultSchedulingEngine) CheckAvailability(ctx context.Context, ownerID string, start, end time.Time) (bool, error) {
	if ownerID == "" {
		return false, NewValidationError("ownerId is required")
	}
	if !start.Before(end) {
		return false, NewValidationError("start must be before end")
	}

	slots, err := se.Repo.GetUnbookedInRange(ctx, ownerID, start, end)
	if err != nil {
		return false, classifyEngineError(err)
	}

	return coveredByOne(MergeSlots(slots), start, end), nil
}
