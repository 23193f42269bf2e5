package scheduling

import (
	"context"
	"errors"

	"slotify/models"
	"slotify/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Release restores a booked slot to free capacity. The full transit-padded
// window becomes available again: transit bounds replace start/end, booking
// references and flags are cleared, and the title resets. Re-merging with
// neighboring free slots is deferred to the next read; it is not done here.
// Releasing an already-unbooked slot is a harmless no-op.
func (se *DefaultSchedulingEngine) Release(ctx context.Context, slotID string) (*models.Timeslot, error) {
	if slotID == "" {
		return nil, NewValidationError("slotId is required")
	}

	slot, err := se.Repo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{Resource: "timeslot", ID: slotID}
		}
		return nil, classifyEngineError(err)
	}

	return se.releaseSlot(ctx, slot)
}

// ReleaseByRequestID releases the slot occupied by the given consumer
// request. A request cancelled before it ever reached booking has no slot;
// that is a normal state and the call succeeds as a no-op.
func (se *DefaultSchedulingEngine) ReleaseByRequestID(ctx context.Context, requestID string) (*models.Timeslot, error) {
	if requestID == "" {
		return nil, NewValidationError("requestId is required")
	}

	slot, err := se.Repo.GetByRequestID(ctx, requestID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, classifyEngineError(err)
	}

	return se.releaseSlot(ctx, slot)
}

// ReleaseByJobID mirrors ReleaseByRequestID for the job back-reference.
func (se *DefaultSchedulingEngine) ReleaseByJobID(ctx context.Context, jobID string) (*models.Timeslot, error) {
	if jobID == "" {
		return nil, NewValidationError("jobId is required")
	}

	slot, err := se.Repo.GetByJobID(ctx, jobID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, classifyEngineError(err)
	}

	return se.releaseSlot(ctx, slot)
}

func (se *DefaultSchedulingEngine) releaseSlot(ctx context.Context, slot *models.Timeslot) (*models.Timeslot, error) {
	logger := utils.GetLogger()

	if !slot.IsBooked {
		return slot, nil
	}

	if slot.TransitStart != nil {
		slot.Start = *slot.TransitStart
	}
	if slot.TransitEnd != nil {
		slot.End = *slot.TransitEnd
	}
	slot.TransitStart = nil
	slot.TransitEnd = nil
	slot.IsBooked = false
	slot.BookingRequestID = ""
	slot.BookingJobID = ""
	slot.Title = models.TitleAvailable

	if err := se.Repo.Update(ctx, slot); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{Resource: "timeslot", ID: slot.ID}
		}
		return nil, classifyEngineError(err)
	}

	se.invalidateAvailability(ctx, slot.OwnerID)
	logger.Info("released timeslot",
		zap.String("ownerID", slot.OwnerID),
		zap.String("slotID", slot.ID))
	return slot, nil
}
