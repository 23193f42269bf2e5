package scheduling

import (
	"context"
	"errors"
	"time"

	"slotify/models"
	"slotify/utils"

	"github.com/teambition/rrule-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ExpandTemplate projects a weekly template into concrete instances across
// [windowStart, windowEnd]. Candidates step week-by-week from the first
// matching weekday on or after windowStart; each candidate is split around
// the owner's existing occupancy (booked and fixed alike), so a fully
// occupied week is skipped and a partially occupied one keeps the surviving
// fragments. Surviving fragments shorter than the minimum bookable duration
// are discarded. The occupancy snapshot is read inside the same transaction
// that inserts, so a concurrently committed booking cannot be overwritten.
func (se *DefaultSchedulingEngine) ExpandTemplate(ctx context.Context, tmpl models.Timeslot, windowStart, windowEnd time.Time) ([]models.Timeslot, error) {
	logger := utils.GetLogger()

	if tmpl.OwnerID == "" {
		return nil, NewValidationError("template ownerId is required")
	}
	if !tmpl.Start.Before(tmpl.End) {
		return nil, NewValidationError("template start must be before end")
	}
	if !windowStart.Before(windowEnd) {
		return nil, NewValidationError("window start must be before window end")
	}

	first := firstWeeklyOccurrence(windowStart, tmpl.Start)
	if first.After(windowEnd) {
		return nil, nil
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.WEEKLY,
		Dtstart: first,
		Until:   windowEnd,
	})
	if err != nil {
		return nil, NewValidationError("invalid recurrence window: %v", err)
	}
	candidates := rule.All()
	duration := tmpl.End.Sub(tmpl.Start)

	var created []models.Timeslot
	err = se.Repo.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := se.Repo.GetByOwnerInRange(txCtx, tmpl.OwnerID, windowStart, windowEnd.Add(duration))
		if err != nil {
			return err
		}

		// The template itself is a fixed slot, so counting it as occupied
		// keeps a window covering its own occurrence from duplicating it.
		var occupied []models.Timeslot
		for _, s := range existing {
			if s.IsBooked || s.IsFixed {
				occupied = append(occupied, s)
			}
		}

		var instances []models.Timeslot
		for _, at := range candidates {
			candidate := models.Timeslot{
				OwnerID: tmpl.OwnerID,
				Start:   at,
				End:     at.Add(duration),
				IsFixed: tmpl.IsFixed,
				Title:   tmpl.Title,
			}
			for _, frag := range SplitAroundOccupied(candidate, occupied) {
				if DurationMinutes(frag.Start, frag.End) < se.minBookable() {
					continue
				}
				instances = append(instances, frag)
			}
		}
		if len(instances) == 0 {
			return nil
		}

		ids, err := se.Repo.CreateMany(txCtx, instances)
		if err != nil {
			return err
		}
		for i := range instances {
			instances[i].ID = ids[i]
		}
		created = instances
		return nil
	})
	if err != nil {
		return nil, classifyEngineError(err)
	}

	se.invalidateAvailability(ctx, tmpl.OwnerID)
	logger.Info("expanded weekly template",
		zap.String("ownerID", tmpl.OwnerID),
		zap.Time("windowStart", windowStart),
		zap.Time("windowEnd", windowEnd),
		zap.Int("instances", len(created)))
	return created, nil
}

// PromoteToFixed marks an ad hoc instance as a weekly template and expands
// it forward, starting one week after the instance, up to the rolling
// horizon.
func (se *DefaultSchedulingEngine) PromoteToFixed(ctx context.Context, ownerID, slotID string) ([]models.Timeslot, error) {
	slot, err := se.Repo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{Resource: "timeslot", ID: slotID}
		}
		return nil, classifyEngineError(err)
	}
	if slot.OwnerID != ownerID {
		return nil, &NotFoundError{Resource: "timeslot", ID: slotID}
	}
	if slot.IsBooked {
		return nil, NewValidationError("a booked slot cannot become a weekly template")
	}

	if !slot.IsFixed {
		slot.IsFixed = true
		if err := se.Repo.Update(ctx, slot); err != nil {
			return nil, classifyEngineError(err)
		}
	}

	windowStart := slot.Start.AddDate(0, 0, 7)
	horizon := time.Now().UTC().AddDate(0, se.horizonMonths(), 0)
	if !windowStart.Before(horizon) {
		return nil, nil
	}
	return se.ExpandTemplate(ctx, *slot, windowStart, horizon)
}

// ExtendFixedSlots is the periodic maintenance pass: for every distinct
// weekly signature observed among the owner's fixed slots in the window, it
// probes for a matching instance beyond the window and expands the template
// to the rolling horizon when none exists. The probe matches only
// (day-of-week, start-time, end-time) and ignores which calendar week a past
// instance belonged to. Existing occupancy trims the expansion, so re-running
// over the same window creates no duplicates.
func (se *DefaultSchedulingEngine) ExtendFixedSlots(ctx context.Context, ownerID string, windowStart, windowEnd time.Time) (int, error) {
	logger := utils.GetLogger()

	if ownerID == "" {
		return 0, NewValidationError("ownerId is required")
	}
	if !windowStart.Before(windowEnd) {
		return 0, NewValidationError("window start must be before window end")
	}

	templates, err := se.Repo.GetFixedTemplates(ctx, ownerID, windowStart, windowEnd)
	if err != nil {
		return 0, classifyEngineError(err)
	}

	horizon := windowStart.AddDate(0, se.horizonMonths(), 0)
	seen := make(map[weeklySignature]bool)
	extended := 0

	for _, tmpl := range templates {
		sig := signatureOf(tmpl)
		if seen[sig] {
			continue
		}
		seen[sig] = true

		exists, err := se.Repo.HasFutureInstance(ctx, ownerID, sig.Weekday, sig.StartMin, sig.EndMin, windowEnd)
		if err != nil {
			return extended, classifyEngineError(err)
		}
		if exists {
			continue
		}

		if _, err := se.ExpandTemplate(ctx, tmpl, windowStart, horizon); err != nil {
			return extended, err
		}
		extended++
	}

	if extended > 0 {
		logger.Info("extended fixed slots",
			zap.String("ownerID", ownerID), zap.Int("templates", extended))
	}
	return extended, nil
}

// weeklySignature identifies a fixed template by weekday and time-of-day.
type weeklySignature struct {
	Weekday  time.Weekday
	StartMin int
	EndMin   int
}

func signatureOf(t models.Timeslot) weeklySignature {
	return weeklySignature{
		Weekday:  t.Start.Weekday(),
		StartMin: t.Start.Hour()*60 + t.Start.Minute(),
		EndMin:   t.End.Hour()*60 + t.End.Minute(),
	}
}

// firstWeeklyOccurrence returns the first instant on or after windowStart
// that falls on the template's weekday at the template's time of day.
func firstWeeklyOccurrence(windowStart, tmplStart time.Time) time.Time {
	at := time.Date(windowStart.Year(), windowStart.Month(), windowStart.Day(),
		tmplStart.Hour(), tmplStart.Minute(), 0, 0, tmplStart.Location())
	delta := (int(tmplStart.Weekday()) - int(at.Weekday()) + 7) % 7
	at = at.AddDate(0, 0, delta)
	if at.Before(windowStart) {
		at = at.AddDate(0, 0, 7)
	}
	return at
}
