package scheduling

import (
	"context"
	"testing"
	"time"

	"slotify/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// future returns an instant tomorrow at the given clock time, so facade
// queries anchored at "now" see the slots.
func future(hour, min int) time.Time {
	d := time.Now().UTC().AddDate(0, 0, 1).Truncate(24 * time.Hour)
	return d.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func TestAvailabilityForBrowsing_MergesAndPadsInward(t *testing.T) {
	repo := newFakeRepo()
	engine := newTestEngine(repo)
	ctx := context.Background()

	_, err := repo.CreateMany(ctx, []models.Timeslot{
		slot(future(9, 0), future(10, 30)),
		slot(future(10, 30), future(12, 0)), // contiguous, must merge first
		slot(future(14, 0), future(15, 0)),
	})
	require.NoError(t, err)

	out, err := engine.AvailabilityForBrowsing(ctx, "owner-1", 15, nil, nil)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, future(9, 15), out[0].Start)
	assert.Equal(t, future(11, 45), out[0].End)
	assert.Equal(t, future(14, 15), out[1].Start)
	assert.Equal(t, future(14, 45), out[1].End)
}

func TestAvailabilityForBrowsing_DropsWindowsConsumedByPadding(t *testing.T) {
	repo := newFakeRepo()
	engine := newTestEngine(repo)
	ctx := context.Background()

	_, err := repo.CreateMany(ctx, []models.Timeslot{
		slot(future(9, 0), future(9, 20)), // 20m window cannot survive 2x15m padding
	})
	require.NoError(t, err)

	out, err := engine.AvailabilityForBrowsing(ctx, "owner-1", 15, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

// Booking a window succeeds exactly when browsing would have displayed a slot
// covering it: the outward padding on the request and the inward padding on
// display are duals.
func TestBookingMatchesBrowsingDuality(t *testing.T) {
	repo := newFakeRepo()
	engine := newTestEngine(repo)
	ctx := context.Background()

	_, err := repo.CreateMany(ctx, []models.Timeslot{slot(future(9, 0), future(12, 0))})
	require.NoError(t, err)

	displayed, err := engine.AvailabilityForBrowsing(ctx, "owner-1", 15, nil, nil)
	require.NoError(t, err)
	require.Len(t, displayed, 1)

	// A window inside the displayed slot books fine.
	inside := models.BookRequest{
		OwnerID: "owner-1", Start: displayed[0].Start, End: displayed[0].End, PaddingMinutes: 15,
	}
	_, err = engine.Book(ctx, inside)
	require.NoError(t, err)

	// A window browsing would not have displayed is rejected.
	repo2 := newFakeRepo()
	engine2 := newTestEngine(repo2)
	_, err = repo2.CreateMany(ctx, []models.Timeslot{slot(future(9, 0), future(12, 0))})
	require.NoError(t, err)

	outside := models.BookRequest{
		OwnerID: "owner-1", Start: future(8, 50), End: future(9, 30), PaddingMinutes: 15,
	}
	_, err = engine2.Book(ctx, outside)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestNextAvailable_SkipsTooShortWindows(t *testing.T) {
	repo := newFakeRepo()
	engine := newTestEngine(repo)
	ctx := context.Background()

	_, err := repo.CreateMany(ctx, []models.Timeslot{
		slot(future(9, 0), future(9, 45)),  // 15m after padding, too short
		slot(future(11, 0), future(13, 0)), // 90m after padding
	})
	require.NoError(t, err)

	next, err := engine.NextAvailable(ctx, "owner-1", 15, 60)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, future(11, 15), next.Start)
	assert.Equal(t, future(12, 45), next.End)
}

func TestNextAvailable_WindowConsumedByPaddingIsSkipped(t *testing.T) {
	repo := newFakeRepo()
	engine := newTestEngine(repo)
	ctx := context.Background()

	// 20 minutes cannot survive 2x15 of padding; browsing hides such a
	// window and next-available must agree even with no minimum duration.
	_, err := repo.CreateMany(ctx, []models.Timeslot{slot(future(9, 0), future(9, 20))})
	require.NoError(t, err)

	next, err := engine.NextAvailable(ctx, "owner-1", 15, 0)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestNextAvailable_NoneQualifies(t *testing.T) {
	repo := newFakeRepo()
	engine := newTestEngine(repo)

	next, err := engine.NextAvailable(context.Background(), "owner-1", 0, 60)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestCheckAvailability_FlipsWithBookAndRelease(t *testing.T) {
	repo := newFakeRepo()
	engine := newTestEngine(repo)
	ctx := context.Background()

	_, err := repo.CreateMany(ctx, []models.Timeslot{slot(at(13, 0), at(16, 0))})
	require.NoError(t, err)

	ok, err := engine.CheckAvailability(ctx, "owner-1", at(14, 0), at(15, 0))
	require.NoError(t, err)
	assert.True(t, ok)

	booked, err := engine.Book(ctx, models.BookRequest{
		OwnerID: "owner-1", Start: at(14, 0), End: at(15, 0),
	})
	require.NoError(t, err)

	ok, err = engine.CheckAvailability(ctx, "owner-1", at(14, 0), at(15, 0))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = engine.Release(ctx, booked.ID)
	require.NoError(t, err)

	// The released window merges with its neighbors on read.
	ok, err = engine.CheckAvailability(ctx, "owner-1", at(14, 0), at(15, 0))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckAvailability_FragmentedIsFalse(t *testing.T) {
	repo := newFakeRepo()
	engine := newTestEngine(repo)
	ctx := context.Background()

	_, err := repo.CreateMany(ctx, []models.Timeslot{
		slot(at(9, 0), at(10, 0)),
		slot(at(10, 30), at(11, 30)),
	})
	require.NoError(t, err)

	ok, err := engine.CheckAvailability(ctx, "owner-1", at(9, 30), at(11, 0))
	require.NoError(t, err)
	assert.False(t, ok)
}
