package scheduling

import (
	"context"
	"testing"

	"slotify/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclareAvailability_AbsorbsAdjacentFreeSlot(t *testing.T) {
	repo := newFakeRepo()
	engine := newTestEngine(repo)
	ctx := context.Background()

	_, err := repo.CreateMany(ctx, []models.Timeslot{slot(at(9, 0), at(10, 0))})
	require.NoError(t, err)

	created, err := engine.DeclareAvailability(ctx, models.DeclareAvailabilityRequest{
		OwnerID: "owner-1", Start: at(10, 0), End: at(11, 0),
	})
	require.NoError(t, err)

	require.Len(t, created, 1)
	assert.Equal(t, at(9, 0), created[0].Start)
	assert.Equal(t, at(11, 0), created[0].End)

	// The absorbed neighbor is gone, only the merged slot remains.
	free, err := repo.GetUnbookedFrom(ctx, "owner-1", at(0, 0))
	require.NoError(t, err)
	assert.Len(t, free, 1)
}

func TestDeclareAvailability_SplitsAroundBooked(t *testing.T) {
	repo := newFakeRepo()
	engine := newTestEngine(repo)
	ctx := context.Background()

	booked := slot(at(10, 0), at(11, 0))
	booked.IsBooked = true
	_, err := repo.CreateMany(ctx, []models.Timeslot{booked})
	require.NoError(t, err)

	created, err := engine.DeclareAvailability(ctx, models.DeclareAvailabilityRequest{
		OwnerID: "owner-1", Start: at(9, 0), End: at(12, 0),
	})
	require.NoError(t, err)

	require.Len(t, created, 2)
	assert.Equal(t, at(9, 0), created[0].Start)
	assert.Equal(t, at(10, 0), created[0].End)
	assert.Equal(t, at(11, 0), created[1].Start)
	assert.Equal(t, at(12, 0), created[1].End)
}

func TestDeclareAvailability_EntirelyOccupiedConflicts(t *testing.T) {
	repo := newFakeRepo()
	engine := newTestEngine(repo)
	ctx := context.Background()

	booked := slot(at(9, 0), at(12, 0))
	booked.IsBooked = true
	_, err := repo.CreateMany(ctx, []models.Timeslot{booked})
	require.NoError(t, err)

	_, err = engine.DeclareAvailability(ctx, models.DeclareAvailabilityRequest{
		OwnerID: "owner-1", Start: at(10, 0), End: at(11, 0),
	})

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestDeclareAvailability_Validation(t *testing.T) {
	engine := newTestEngine(newFakeRepo())
	ctx := context.Background()

	var validation *ValidationError

	_, err := engine.DeclareAvailability(ctx, models.DeclareAvailabilityRequest{
		OwnerID: "", Start: at(9, 0), End: at(10, 0),
	})
	require.ErrorAs(t, err, &validation)

	_, err = engine.DeclareAvailability(ctx, models.DeclareAvailabilityRequest{
		OwnerID: "owner-1", Start: at(10, 0), End: at(9, 0),
	})
	require.ErrorAs(t, err, &validation)
}

func TestDeleteSlot(t *testing.T) {
	repo := newFakeRepo()
	engine := newTestEngine(repo)
	ctx := context.Background()

	ids, err := repo.CreateMany(ctx, []models.Timeslot{slot(at(9, 0), at(10, 0))})
	require.NoError(t, err)

	// Owner scoping: someone else's ID does not match.
	err = engine.DeleteSlot(ctx, "owner-2", ids[0])
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)

	require.NoError(t, engine.DeleteSlot(ctx, "owner-1", ids[0]))

	_, err = repo.GetByID(ctx, ids[0])
	require.Error(t, err)
}

func TestPurgeOwner(t *testing.T) {
	repo := newFakeRepo()
	engine := newTestEngine(repo)
	ctx := context.Background()

	other := slot(at(9, 0), at(10, 0))
	other.OwnerID = "owner-2"
	_, err := repo.CreateMany(ctx, []models.Timeslot{
		slot(at(9, 0), at(10, 0)),
		slot(at(11, 0), at(12, 0)),
		other,
	})
	require.NoError(t, err)

	deleted, err := engine.PurgeOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := repo.GetUnbookedFrom(ctx, "owner-2", at(0, 0))
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
