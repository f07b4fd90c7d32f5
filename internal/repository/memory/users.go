package memory

import (
	"context"
	"time"

	"sailing-club-backend/internal/domain"
)

type userRepository struct {
	h *handle
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	return r.h.write(func(st *state) (func(*state), error) {
		for _, existing := range st.users {
			if existing.Username == u.Username {
				return nil, domain.Duplicate("user already exists")
			}
		}
		now := time.Now().UTC()
		u.ID = st.next("users")
		u.CreatedAt, u.UpdatedAt = now, now
		st.users[u.ID] = *u
		id := u.ID
		return func(st *state) { delete(st.users, id) }, nil
	})
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	var (
		u  domain.User
		ok bool
	)
	r.h.read(func(st *state) { u, ok = st.users[id] })
	if !ok {
		return nil, domain.NotFound("user not found")
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var found *domain.User
	r.h.read(func(st *state) {
		for _, u := range st.users {
			if u.Username == username {
				u := u
				found = &u
				return
			}
		}
	})
	if found == nil {
		return nil, domain.NotFound("user not found")
	}
	return found, nil
}

func (r *userRepository) List(ctx context.Context, offset, limit int32) ([]domain.User, error) {
	var users []domain.User
	r.h.read(func(st *state) {
		for _, u := range st.users {
			users = append(users, u)
		}
	})
	return page(users, func(a, b domain.User) bool { return a.ID < b.ID }, offset, limit), nil
}

func (r *userRepository) LockForUpdate(ctx context.Context, id int32) (*domain.User, error) {
	if err := r.h.lock(ctx, rowKey("users", id)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	return r.h.write(func(st *state) (func(*state), error) {
		prev, ok := st.users[u.ID]
		if !ok {
			return nil, domain.NotFound("user not found")
		}
		next := prev
		next.Email, next.Phone, next.Role, next.PasswordHash = u.Email, u.Phone, u.Role, u.PasswordHash
		next.UpdatedAt = time.Now().UTC()
		u.UpdatedAt = next.UpdatedAt
		st.users[u.ID] = next
		return func(st *state) { st.users[prev.ID] = prev }, nil
	})
}

func (r *userRepository) UpdateBalance(ctx context.Context, id int32, balance domain.Money) error {
	return r.h.write(func(st *state) (func(*state), error) {
		prev, ok := st.users[id]
		if !ok {
			return nil, domain.NotFound("user not found")
		}
		if !balance.InRange() {
			return nil, domain.InvalidAmount("balance must not exceed %s", domain.MaxMoney)
		}
		next := prev
		next.Balance = balance
		next.UpdatedAt = time.Now().UTC()
		st.users[id] = next
		return func(st *state) { st.users[id] = prev }, nil
	})
}

// Delete cascades like the Postgres foreign keys: rentals, signups, posts,
// comments and created activities go with the user; ledger entries and
// notices lose their user.
func (r *userRepository) Delete(ctx context.Context, id int32) error {
	return r.h.write(func(st *state) (func(*state), error) {
		prev, ok := st.users[id]
		if !ok {
			return nil, domain.NotFound("user not found")
		}
		delete(st.users, id)

		var undo []func(*state)
		for rid, rt := range st.rentals {
			if rt.UserID == id {
				rt := rt
				delete(st.rentals, rid)
				undo = append(undo, func(st *state) { st.rentals[rt.ID] = rt })
			}
		}
		for aid, a := range st.activities {
			if a.CreatorID == id {
				undo = append(undo, deleteActivity(st, aid))
			}
		}
		for sid, s := range st.signups {
			if s.UserID == id {
				s := s
				delete(st.signups, sid)
				undo = append(undo, func(st *state) { st.signups[s.ID] = s })
			}
		}
		for pid, p := range st.posts {
			if p.UserID == id {
				undo = append(undo, deletePost(st, pid))
			}
		}
		for cid, c := range st.comments {
			if c.UserID == id {
				c := c
				delete(st.comments, cid)
				undo = append(undo, func(st *state) { st.comments[c.ID] = c })
			}
		}
		for nid, n := range st.notices {
			if n.AuthorID != nil && *n.AuthorID == id {
				n := n
				orphan := n
				orphan.AuthorID = nil
				st.notices[nid] = orphan
				undo = append(undo, func(st *state) { st.notices[n.ID] = n })
			}
		}
		for fid, e := range st.finances {
			if e.UserID != nil && *e.UserID == id {
				e := e
				orphan := e
				orphan.UserID = nil
				st.finances[fid] = orphan
				undo = append(undo, func(st *state) { st.finances[e.ID] = e })
			}
		}
		return func(st *state) {
			for i := len(undo) - 1; i >= 0; i-- {
				undo[i](st)
			}
			st.users[prev.ID] = prev
		}, nil
	})
}
