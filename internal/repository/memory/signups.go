package memory

import (
	"context"

	"sailing-club-backend/internal/domain"
)

type signupRepository struct {
	h *handle
}

func (r *signupRepository) Create(ctx context.Context, s *domain.Signup) error {
	return r.h.write(func(st *state) (func(*state), error) {
		for _, existing := range st.signups {
			if existing.ActivityID == s.ActivityID && existing.UserID == s.UserID {
				return nil, domain.Duplicate("signup already exists")
			}
		}
		s.ID = st.next("activity_signups")
		st.signups[s.ID] = *s
		id := s.ID
		return func(st *state) { delete(st.signups, id) }, nil
	})
}

func (r *signupRepository) Get(ctx context.Context, activityID, userID int32) (*domain.Signup, error) {
	var found *domain.Signup
	r.h.read(func(st *state) {
		for _, s := range st.signups {
			if s.ActivityID == activityID && s.UserID == userID {
				s := s
				found = &s
				return
			}
		}
	})
	if found == nil {
		return nil, domain.NotFound("signup not found")
	}
	return found, nil
}

func (r *signupRepository) LockForUpdate(ctx context.Context, activityID, userID int32) (*domain.Signup, error) {
	if err := r.h.lock(ctx, rowKey("activity_signups", activityID, userID)); err != nil {
		return nil, err
	}
	return r.Get(ctx, activityID, userID)
}

func (r *signupRepository) CountByActivity(ctx context.Context, activityID int32) (int64, error) {
	var n int64
	r.h.read(func(st *state) {
		for _, s := range st.signups {
			if s.ActivityID == activityID {
				n++
			}
		}
	})
	return n, nil
}

func (r *signupRepository) list(keep func(domain.Signup) bool, less func(a, b domain.Signup) bool) []domain.Signup {
	var out []domain.Signup
	r.h.read(func(st *state) {
		for _, s := range st.signups {
			if keep(s) {
				out = append(out, s)
			}
		}
	})
	return page(out, less, 0, int32(len(out))+1)
}

func (r *signupRepository) ListByActivity(ctx context.Context, activityID int32) ([]domain.Signup, error) {
	return r.list(
		func(s domain.Signup) bool { return s.ActivityID == activityID },
		func(a, b domain.Signup) bool { return a.ID < b.ID },
	), nil
}

func (r *signupRepository) ListByUser(ctx context.Context, userID int32) ([]domain.Signup, error) {
	return r.list(
		func(s domain.Signup) bool { return s.UserID == userID },
		func(a, b domain.Signup) bool { return a.ID > b.ID },
	), nil
}

func (r *signupRepository) SetCheckIn(ctx context.Context, id int32, checkIn bool) error {
	return r.h.write(func(st *state) (func(*state), error) {
		prev, ok := st.signups[id]
		if !ok {
			return nil, domain.NotFound("signup not found")
		}
		next := prev
		next.CheckIn = checkIn
		st.signups[id] = next
		return func(st *state) { st.signups[id] = prev }, nil
	})
}

func (r *signupRepository) Delete(ctx context.Context, id int32) error {
	return r.h.write(func(st *state) (func(*state), error) {
		prev, ok := st.signups[id]
		if !ok {
			return nil, domain.NotFound("signup not found")
		}
		delete(st.signups, id)
		return func(st *state) { st.signups[id] = prev }, nil
	})
}
