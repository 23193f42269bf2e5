package scheduling

import (
	"testing"
	"time"

	"slotify/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC) // a Monday

func at(hour, min int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func slot(start, end time.Time) models.Timeslot {
	return models.Timeslot{OwnerID: "owner-1", Start: start, End: end, Title: models.TitleAvailable}
}

func TestMergeSlots_FoldsOverlappingAndContiguous(t *testing.T) {
	in := []models.Timeslot{
		slot(at(13, 0), at(14, 0)),
		slot(at(9, 0), at(10, 30)),
		slot(at(10, 0), at(11, 0)),  // overlaps previous
		slot(at(11, 0), at(12, 0)),  // touching boundary counts as contiguous
		slot(at(15, 0), at(16, 0)),
	}

	out := MergeSlots(in)

	require.Len(t, out, 3)
	assert.Equal(t, at(9, 0), out[0].Start)
	assert.Equal(t, at(12, 0), out[0].End)
	assert.Equal(t, at(13, 0), out[1].Start)
	assert.Equal(t, at(14, 0), out[1].End)
	assert.Equal(t, at(15, 0), out[2].Start)
	assert.Equal(t, at(16, 0), out[2].End)

	// Output is sorted, pairwise non-overlapping and non-contiguous.
	for i := 1; i < len(out); i++ {
		assert.True(t, out[i].Start.After(out[i-1].End))
	}
}

func TestMergeSlots_Empty(t *testing.T) {
	assert.Nil(t, MergeSlots(nil))
}

func TestMergeSlots_DoesNotMutateInput(t *testing.T) {
	in := []models.Timeslot{
		slot(at(10, 0), at(11, 0)),
		slot(at(9, 0), at(12, 0)),
	}
	_ = MergeSlots(in)

	assert.Equal(t, at(10, 0), in[0].Start)
	assert.Equal(t, at(9, 0), in[1].Start)
}

func TestAdjustForTransit_PadsInward(t *testing.T) {
	out := AdjustForTransit([]models.Timeslot{slot(at(9, 0), at(12, 0))}, 15)

	require.Len(t, out, 1)
	assert.Equal(t, at(9, 15), out[0].Start)
	assert.Equal(t, at(11, 45), out[0].End)
}

func TestSplitAroundOccupied_Bisects(t *testing.T) {
	candidate := slot(at(9, 0), at(12, 0))
	occupied := []models.Timeslot{slot(at(10, 0), at(11, 0))}

	frags := SplitAroundOccupied(candidate, occupied)

	require.Len(t, frags, 2)
	assert.Equal(t, at(9, 0), frags[0].Start)
	assert.Equal(t, at(10, 0), frags[0].End)
	assert.Equal(t, at(11, 0), frags[1].Start)
	assert.Equal(t, at(12, 0), frags[1].End)
}

func TestSplitAroundOccupied_TrimsEdges(t *testing.T) {
	candidate := slot(at(9, 0), at(12, 0))
	occupied := []models.Timeslot{
		slot(at(8, 0), at(9, 30)),
		slot(at(11, 30), at(13, 0)),
	}

	frags := SplitAroundOccupied(candidate, occupied)

	require.Len(t, frags, 1)
	assert.Equal(t, at(9, 30), frags[0].Start)
	assert.Equal(t, at(11, 30), frags[0].End)
}

func TestSplitAroundOccupied_FullOverlapRemovesCandidate(t *testing.T) {
	candidate := slot(at(9, 0), at(10, 0))
	occupied := []models.Timeslot{slot(at(8, 0), at(11, 0))}

	assert.Empty(t, SplitAroundOccupied(candidate, occupied))
}

func TestSplitAroundOccupied_UsesTransitBoundsOfBookedSlots(t *testing.T) {
	candidate := slot(at(9, 0), at(12, 0))

	ts, te := at(9, 45), at(11, 15)
	booked := models.Timeslot{
		OwnerID:      "owner-1",
		Start:        at(10, 0),
		End:          at(11, 0),
		TransitStart: &ts,
		TransitEnd:   &te,
		IsBooked:     true,
	}

	frags := SplitAroundOccupied(candidate, []models.Timeslot{booked})

	require.Len(t, frags, 2)
	assert.Equal(t, at(9, 45), frags[0].End)
	assert.Equal(t, at(11, 15), frags[1].Start)
}

func TestDurationMinutes(t *testing.T) {
	assert.Equal(t, 90, DurationMinutes(at(9, 0), at(10, 30)))
	assert.Equal(t, 0, DurationMinutes(at(10, 0), at(9, 0)))
}
