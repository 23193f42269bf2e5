package scheduling

import (
	"context"
	"errors"
	"time"

	"slotify/models"
	"slotify/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Book atomically converts free capacity into a booked slot. The requested
// window is widened outward by the transit padding, then checked against the
// owner's merged unbooked slots inside one transaction: coverage must come
// from a single contiguous interval, never from fragmented free time, even
// when the total free duration would suffice.
func (se *DefaultSchedulingEngine) Book(ctx context.Context, req models.BookRequest) (*models.Timeslot, error) {
	logger := utils.GetLogger()

	if req.OwnerID == "" {
		return nil, NewValidationError("ownerId is required")
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return nil, NewValidationError("start and end are required")
	}
	if !req.Start.Before(req.End) {
		return nil, NewValidationError("start %s must be before end %s", req.Start, req.End)
	}
	if req.PaddingMinutes < 0 {
		return nil, NewValidationError("padding must not be negative")
	}
	if req.BookingRequestID != "" && req.BookingJobID != "" {
		return nil, NewValidationError("at most one of bookingRequestId and bookingJobId may be set")
	}

	pad := time.Duration(req.PaddingMinutes) * time.Minute
	transitStart := req.Start.Add(-pad)
	transitEnd := req.End.Add(pad)

	title := req.Title
	if title == "" {
		title = "booked"
	}

	var booked *models.Timeslot
	err := se.Repo.WithTransaction(ctx, func(txCtx context.Context) error {
		free, err := se.Repo.GetUnbookedInRange(txCtx, req.OwnerID, transitStart, transitEnd)
		if err != nil {
			return err
		}
		if len(free) == 0 {
			return NewConflictError("no available capacity for owner %s in the requested window", req.OwnerID)
		}

		merged := MergeSlots(free)
		if !coveredByOne(merged, transitStart, transitEnd) {
			if req.IsUpdate {
				return &CoverageError{Message: "requested window is not covered by one contiguous free interval"}
			}
			return NewConflictError("requested window is not covered by one contiguous free interval")
		}

		slot := models.Timeslot{
			ID:               uuid.New().String(),
			OwnerID:          req.OwnerID,
			Start:            req.Start,
			End:              req.End,
			TransitStart:     &transitStart,
			TransitEnd:       &transitEnd,
			IsBooked:         true,
			BookingRequestID: req.BookingRequestID,
			BookingJobID:     req.BookingJobID,
			Title:            title,
		}
		if _, err := se.Repo.CreateMany(txCtx, []models.Timeslot{slot}); err != nil {
			return err
		}

		for _, s := range free {
			if err := se.consumeFreeSlot(txCtx, s, transitStart, transitEnd); err != nil {
				return err
			}
		}

		booked = &slot
		return nil
	})
	if err != nil {
		// A concurrent overlapping booking makes the loser abort with a
		// labeled write conflict instead of re-observing the winner inside
		// its snapshot. Re-read coverage once: gone means the window was
		// genuinely taken; still covered means a transient abort the caller
		// may retry.
		if isWriteConflict(err) {
			if covered, rerr := se.windowStillCovered(ctx, req.OwnerID, transitStart, transitEnd); rerr == nil && !covered {
				return nil, NewConflictError("requested window was taken by a concurrent booking")
			}
		}
		return nil, classifyEngineError(err)
	}

	se.invalidateAvailability(ctx, req.OwnerID)
	logger.Info("booked timeslot",
		zap.String("ownerID", req.OwnerID),
		zap.String("slotID", booked.ID),
		zap.Time("transitStart", transitStart),
		zap.Time("transitEnd", transitEnd))
	return booked, nil
}

// consumeFreeSlot removes [transitStart, transitEnd] from one originally
// overlapping unbooked slot: an exact match is deleted, a strict container is
// split into head and tail fragments, and anything else is trimmed at
// whichever boundary intrudes.
func (se *DefaultSchedulingEngine) consumeFreeSlot(ctx context.Context, s models.Timeslot, transitStart, transitEnd time.Time) error {
	switch {
	case s.Start.Equal(transitStart) && s.End.Equal(transitEnd):
		return se.Repo.DeleteByID(ctx, s.OwnerID, s.ID)

	case s.Start.Before(transitStart) && s.End.After(transitEnd):
		if err := se.Repo.DeleteByID(ctx, s.OwnerID, s.ID); err != nil {
			return err
		}
		head := models.Timeslot{OwnerID: s.OwnerID, Start: s.Start, End: transitStart, IsFixed: s.IsFixed, Title: s.Title}
		tail := models.Timeslot{OwnerID: s.OwnerID, Start: transitEnd, End: s.End, IsFixed: s.IsFixed, Title: s.Title}
		_, err := se.Repo.CreateMany(ctx, []models.Timeslot{head, tail})
		return err

	case !s.Start.Before(transitStart) && !s.End.After(transitEnd):
		// Fully consumed by the booked window.
		return se.Repo.DeleteByID(ctx, s.OwnerID, s.ID)

	case s.Start.Before(transitStart):
		s.End = transitStart
		return se.Repo.Update(ctx, &s)

	default:
		s.Start = transitEnd
		return se.Repo.Update(ctx, &s)
	}
}

// coveredByOne reports whether one merged interval fully contains [start, end].
func coveredByOne(merged []models.Timeslot, start, end time.Time) bool {
	for _, m := range merged {
		if m.Covers(start, end) {
			return true
		}
	}
	return false
}

// isWriteConflict reports whether the store aborted with the transient label
// that mongo attaches to intra-transaction write conflicts.
func isWriteConflict(err error) bool {
	var srvErr mongo.ServerError
	return errors.As(err, &srvErr) && srvErr.HasErrorLabel("TransientTransactionError")
}

// windowStillCovered re-checks, outside any transaction, whether one merged
// unbooked interval still covers the transit-padded window.
func (se *DefaultSchedulingEngine) windowStillCovered(ctx context.Context, ownerID string, transitStart, transitEnd time.Time) (bool, error) {
	free, err := se.Repo.GetUnbookedInRange(ctx, ownerID, transitStart, transitEnd)
	if err != nil {
		return false, err
	}
	return coveredByOne(MergeSlots(free), transitStart, transitEnd), nil
}

// classifyEngineError passes typed engine errors through and wraps anything
// else (connectivity, aborted commits) as a TransactionError.
func classifyEngineError(err error) error {
	var (
		ve  *ValidationError
		ce  *ConflictError
		cve *CoverageError
		nfe *NotFoundError
	)
	if errors.As(err, &ve) || errors.As(err, &ce) || errors.As(err, &cve) || errors.As(err, &nfe) {
		return err
	}
	return &TransactionError{Err: err}
}
