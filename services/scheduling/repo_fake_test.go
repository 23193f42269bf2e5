package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	"slotify/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeRepo is an in-memory TimeSlotRepository mirroring the mongo
// implementation's query semantics, used to exercise the engine without a
// live replica set.
type fakeRepo struct {
	mu    sync.Mutex
	slots map[string]models.Timeslot
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{slots: make(map[string]models.Timeslot)}
}

func (r *fakeRepo) CreateMany(_ context.Context, slots []models.Timeslot) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, len(slots))
	for i, s := range slots {
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		if s.Title == "" {
			s.Title = models.TitleAvailable
		}
		r.slots[s.ID] = s
		ids[i] = s.ID
	}
	return ids, nil
}

func (r *fakeRepo) Update(_ context.Context, slot *models.Timeslot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.slots[slot.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	r.slots[slot.ID] = *slot
	return nil
}

func (r *fakeRepo) DeleteByID(_ context.Context, ownerID, slotID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[slotID]
	if !ok || s.OwnerID != ownerID {
		return mongo.ErrNoDocuments
	}
	delete(r.slots, slotID)
	return nil
}

func (r *fakeRepo) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, s := range r.slots {
		if s.OwnerID == ownerID {
			delete(r.slots, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) GetByID(_ context.Context, slotID string) (*models.Timeslot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[slotID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &s, nil
}

func (r *fakeRepo) GetByRequestID(_ context.Context, requestID string) (*models.Timeslot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.slots {
		if s.BookingRequestID == requestID {
			s := s
			return &s, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeRepo) GetByJobID(_ context.Context, jobID string) (*models.Timeslot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.slots {
		if s.BookingJobID == jobID {
			s := s
			return &s, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeRepo) GetByOwnerInRange(_ context.Context, ownerID string, from, to time.Time) ([]models.Timeslot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Timeslot
	for _, s := range r.slots {
		if s.OwnerID != ownerID {
			continue
		}
		plain := s.Start.Before(to) && s.End.After(from)
		transit := s.TransitStart != nil && s.TransitEnd != nil &&
			s.TransitStart.Before(to) && s.TransitEnd.After(from)
		if plain || transit {
			out = append(out, s)
		}
	}
	sortByStart(out)
	return out, nil
}

func (r *fakeRepo) GetUnbookedInRange(_ context.Context, ownerID string, from, to time.Time) ([]models.Timeslot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Timeslot
	for _, s := range r.slots {
		if s.OwnerID != ownerID || s.IsBooked {
			continue
		}
		if !s.Start.After(to) && !s.End.Before(from) {
			out = append(out, s)
		}
	}
	sortByStart(out)
	return out, nil
}

func (r *fakeRepo) GetUnbookedFrom(_ context.Context, ownerID string, from time.Time) ([]models.Timeslot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Timeslot
	for _, s := range r.slots {
		if s.OwnerID != ownerID || s.IsBooked {
			continue
		}
		if s.End.After(from) {
			out = append(out, s)
		}
	}
	sortByStart(out)
	return out, nil
}

func (r *fakeRepo) GetFixedTemplates(_ context.Context, ownerID string, from, to time.Time) ([]models.Timeslot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Timeslot
	for _, s := range r.slots {
		if s.OwnerID != ownerID || !s.IsFixed {
			continue
		}
		if !s.Start.Before(from) && s.Start.Before(to) {
			out = append(out, s)
		}
	}
	sortByStart(out)
	return out, nil
}

func (r *fakeRepo) HasFutureInstance(_ context.Context, ownerID string, weekday time.Weekday, startMin, endMin int, after time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.slots {
		if s.OwnerID != ownerID || !s.IsFixed || !s.Start.After(after) {
			continue
		}
		if s.Start.Weekday() == weekday &&
			s.Start.Hour()*60+s.Start.Minute() == startMin &&
			s.End.Hour()*60+s.End.Minute() == endMin {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) OwnersWithFixedSlots(_ context.Context, from, to time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool)
	var out []string
	for _, s := range r.slots {
		if !s.IsFixed || seen[s.OwnerID] {
			continue
		}
		if !s.Start.Before(from) && s.Start.Before(to) {
			seen[s.OwnerID] = true
			out = append(out, s.OwnerID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *fakeRepo) EnsureIndexes(context.Context) error { return nil }

func sortByStart(slots []models.Timeslot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})
}
