package scheduling

import (
	"context"
	"errors"

	"slotify/models"
	"slotify/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DeclareAvailability adds a free window to an owner's calendar. The window
// is first split around existing booked occupancy, then merged with any
// overlapping or adjacent unbooked slots so the invariant holds on return:
// unbooked intervals stay pairwise non-overlapping and non-contiguous.
func (se *DefaultSchedulingEngine) DeclareAvailability(ctx context.Context, req models.DeclareAvailabilityRequest) ([]models.Timeslot, error) {
	logger := utils.GetLogger()

	if req.OwnerID == "" {
		return nil, NewValidationError("ownerId is required")
	}
	if req.Start.IsZero() || req.End.IsZero() || !req.Start.Before(req.End) {
		return nil, NewValidationError("start must be before end")
	}

	title := req.Title
	if title == "" {
		title = models.TitleAvailable
	}

	var created []models.Timeslot
	err := se.Repo.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := se.Repo.GetByOwnerInRange(txCtx, req.OwnerID, req.Start, req.End)
		if err != nil {
			return err
		}

		var booked []models.Timeslot
		for _, s := range existing {
			if s.IsBooked {
				booked = append(booked, s)
			}
		}

		candidate := models.Timeslot{OwnerID: req.OwnerID, Start: req.Start, End: req.End, Title: title}
		fragments := SplitAroundOccupied(candidate, booked)
		if len(fragments) == 0 {
			return NewConflictError("declared window is entirely occupied by bookings")
		}

		// Absorb overlapping and adjacent unbooked neighbors into the new
		// fragments, replacing the originals with the merged result.
		free, err := se.Repo.GetUnbookedInRange(txCtx, req.OwnerID, req.Start, req.End)
		if err != nil {
			return err
		}
		for _, s := range free {
			if err := se.Repo.DeleteByID(txCtx, s.OwnerID, s.ID); err != nil {
				return err
			}
		}

		merged := MergeSlots(append(fragments, free...))
		for i := range merged {
			merged[i].ID = ""
			merged[i].IsBooked = false
			merged[i].TransitStart = nil
			merged[i].TransitEnd = nil
		}

		ids, err := se.Repo.CreateMany(txCtx, merged)
		if err != nil {
			return err
		}
		for i := range merged {
			merged[i].ID = ids[i]
		}
		created = merged
		return nil
	})
	if err != nil {
		return nil, classifyEngineError(err)
	}

	se.invalidateAvailability(ctx, req.OwnerID)
	logger.Info("declared availability",
		zap.String("ownerID", req.OwnerID),
		zap.Int("slots", len(created)))
	return created, nil
}

// DeleteSlot removes one slot from the owner's calendar.
func (se *DefaultSchedulingEngine) DeleteSlot(ctx context.Context, ownerID, slotID string) error {
	if ownerID == "" || slotID == "" {
		return NewValidationError("ownerId and slotId are required")
	}

	if err := se.Repo.DeleteByID(ctx, ownerID, slotID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &NotFoundError{Resource: "timeslot", ID: slotID}
		}
		return classifyEngineError(err)
	}

	se.invalidateAvailability(ctx, ownerID)
	return nil
}

// PurgeOwner removes an owner's entire calendar, the cascading cleanup for
// account deletion.
func (se *DefaultSchedulingEngine) PurgeOwner(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, NewValidationError("ownerId is required")
	}

	deleted, err := se.Repo.DeleteByOwner(ctx, ownerID)
	if err != nil {
		return 0, classifyEngineError(err)
	}

	se.invalidateAvailability(ctx, ownerID)
	utils.GetLogger().Info("purged owner calendar",
		zap.String("ownerID", ownerID), zap.Int64("deleted", deleted))
	return deleted, nil
}
