package memory

import (
	"context"
	"time"

	"sailing-club-backend/internal/domain"
)

type activityRepository struct {
	h *handle
}

func (r *activityRepository) Create(ctx context.Context, a *domain.Activity) error {
	return r.h.write(func(st *state) (func(*state), error) {
		now := time.Now().UTC()
		a.ID = st.next("activities")
		a.CreatedAt, a.UpdatedAt = now, now
		st.activities[a.ID] = *a
		id := a.ID
		return func(st *state) { delete(st.activities, id) }, nil
	})
}

func (r *activityRepository) GetByID(ctx context.Context, id int32) (*domain.Activity, error) {
	var (
		a  domain.Activity
		ok bool
	)
	r.h.read(func(st *state) { a, ok = st.activities[id] })
	if !ok {
		return nil, domain.NotFound("activity not found")
	}
	return &a, nil
}

func (r *activityRepository) List(ctx context.Context, offset, limit int32) ([]domain.Activity, error) {
	var activities []domain.Activity
	r.h.read(func(st *state) {
		for _, a := range st.activities {
			activities = append(activities, a)
		}
	})
	latestStart := func(a, b domain.Activity) bool {
		if a.StartTime.Equal(b.StartTime) {
			return a.ID > b.ID
		}
		return a.StartTime.After(b.StartTime)
	}
	return page(activities, latestStart, offset, limit), nil
}

func (r *activityRepository) LockForUpdate(ctx context.Context, id int32) (*domain.Activity, error) {
	if err := r.h.lock(ctx, rowKey("activities", id)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *activityRepository) LockByCreator(ctx context.Context, creatorID int32) ([]int32, error) {
	ids := []int32{}
	r.h.read(func(st *state) {
		for id, a := range st.activities {
			if a.CreatorID == creatorID {
				ids = append(ids, id)
			}
		}
	})
	return r.h.lockAll(ctx, "activities", ids)
}

func (r *activityRepository) Update(ctx context.Context, a *domain.Activity) error {
	return r.h.write(func(st *state) (func(*state), error) {
		prev, ok := st.activities[a.ID]
		if !ok {
			return nil, domain.NotFound("activity not found")
		}
		a.CreatedAt, a.CreatorID = prev.CreatedAt, prev.CreatorID
		a.UpdatedAt = time.Now().UTC()
		st.activities[a.ID] = *a
		return func(st *state) { st.activities[prev.ID] = prev }, nil
	})
}

func (r *activityRepository) Delete(ctx context.Context, id int32) error {
	return r.h.write(func(st *state) (func(*state), error) {
		if _, ok := st.activities[id]; !ok {
			return nil, domain.NotFound("activity not found")
		}
		return deleteActivity(st, id), nil
	})
}

// deleteActivity removes an activity with its signups and returns the undo
// step. Caller holds the store mutex.
func deleteActivity(st *state, id int32) func(*state) {
	prev := st.activities[id]
	delete(st.activities, id)
	var removed []domain.Signup
	for sid, s := range st.signups {
		if s.ActivityID == id {
			removed = append(removed, s)
			delete(st.signups, sid)
		}
	}
	return func(st *state) {
		st.activities[prev.ID] = prev
		for _, s := range removed {
			st.signups[s.ID] = s
		}
	}
}
