// Package memory provides an in-process repository.Store with the same row
// locking semantics as the Postgres store. Service, job and HTTP tests run
// against it.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/repository"
)

var _ repository.Store = (*Store)(nil)

type state struct {
	users      map[int32]domain.User
	boats      map[int32]domain.Boat
	rentals    map[int32]domain.Rental
	activities map[int32]domain.Activity
	signups    map[int32]domain.Signup
	finances   map[int32]domain.FinanceEntry
	notices    map[int32]domain.Notice
	tags       map[int32]domain.Tag
	posts      map[int32]domain.Post
	comments   map[int32]domain.Comment
	seq        map[string]int32
}

func newState() *state {
	return &state{
		users:      map[int32]domain.User{},
		boats:      map[int32]domain.Boat{},
		rentals:    map[int32]domain.Rental{},
		activities: map[int32]domain.Activity{},
		signups:    map[int32]domain.Signup{},
		finances:   map[int32]domain.FinanceEntry{},
		notices:    map[int32]domain.Notice{},
		tags:       map[int32]domain.Tag{},
		posts:      map[int32]domain.Post{},
		comments:   map[int32]domain.Comment{},
		seq:        map[string]int32{},
	}
}

// next hands out ids like a Postgres sequence: never reused, not rolled back.
func (st *state) next(table string) int32 {
	st.seq[table]++
	return st.seq[table]
}

// Store keeps all rows in maps guarded by mu. Row locks live in a separate
// table so a transaction waiting for a row never holds mu.
type Store struct {
	*repos
	mu          sync.Mutex
	st          *state
	locks       *lockTable
	lockTimeout time.Duration
}

// NewStore returns an empty store. lockTimeout bounds every row-lock wait;
// zero waits until the context is done.
func NewStore(lockTimeout time.Duration) *Store {
	s := &Store{
		st:          newState(),
		locks:       newLockTable(),
		lockTimeout: lockTimeout,
	}
	s.repos = newRepos(&handle{store: s})
	return s
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	t := &tx{store: s, held: map[string]struct{}{}}

	defer func() {
		if p := recover(); p != nil {
			t.rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, newRepos(&handle{store: s, tx: t})); err != nil {
		t.rollback()
		return err
	}
	t.commit()
	return nil
}

// tx tracks the row locks a transaction holds and the undo steps for every
// write it made.
type tx struct {
	store *Store
	held  map[string]struct{}
	undo  []func(st *state)
}

func (t *tx) lock(ctx context.Context, key string) error {
	if _, ok := t.held[key]; ok {
		return nil
	}
	if err := t.store.locks.acquire(ctx, key, t.store.lockTimeout); err != nil {
		return err
	}
	t.held[key] = struct{}{}
	return nil
}

func (t *tx) commit() {
	t.undo = nil
	t.release()
}

func (t *tx) rollback() {
	t.store.mu.Lock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i](t.store.st)
	}
	t.store.mu.Unlock()
	t.undo = nil
	t.release()
}

func (t *tx) release() {
	for key := range t.held {
		t.store.locks.release(key)
	}
	t.held = map[string]struct{}{}
}

type lockTable struct {
	mu   sync.Mutex
	rows map[string]chan struct{}
}

func newLockTable() *lockTable {
	return &lockTable{rows: map[string]chan struct{}{}}
}

func (l *lockTable) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.rows[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.rows[key] = ch
	}
	return ch
}

func (l *lockTable) acquire(ctx context.Context, key string, timeout time.Duration) error {
	ch := l.slot(key)
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case ch <- struct{}{}:
		return nil
	case <-expired:
		return domain.TransactionFailure(fmt.Errorf("lock timeout on %s", key))
	case <-ctx.Done():
		return domain.TransactionFailure(fmt.Errorf("lock wait on %s: %w", key, ctx.Err()))
	}
}

func (l *lockTable) release(key string) {
	<-l.slot(key)
}

// handle binds repositories either to the store itself or to one
// transaction.
type handle struct {
	store *Store
	tx    *tx
}

func (h *handle) lock(ctx context.Context, key string) error {
	if h.tx == nil {
		return nil
	}
	return h.tx.lock(ctx, key)
}

// read runs fn with the state under the store mutex.
func (h *handle) read(fn func(st *state)) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	fn(h.store.st)
}

// write runs fn under the store mutex; the undo step fn returns is kept
// until the transaction ends. Outside a transaction writes are final.
func (h *handle) write(fn func(st *state) (undo func(st *state), err error)) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	undo, err := fn(h.store.st)
	if err != nil {
		return err
	}
	if h.tx != nil && undo != nil {
		h.tx.undo = append(h.tx.undo, undo)
	}
	return nil
}

type repos struct {
	users      *userRepository
	boats      *boatRepository
	rentals    *rentalRepository
	activities *activityRepository
	signups    *signupRepository
	finances   *financeRepository
	notices    *noticeRepository
	tags       *tagRepository
	posts      *postRepository
	comments   *commentRepository
	stats      *statsRepository
}

func newRepos(h *handle) *repos {
	return &repos{
		users:      &userRepository{h: h},
		boats:      &boatRepository{h: h},
		rentals:    &rentalRepository{h: h},
		activities: &activityRepository{h: h},
		signups:    &signupRepository{h: h},
		finances:   &financeRepository{h: h},
		notices:    &noticeRepository{h: h},
		tags:       &tagRepository{h: h},
		posts:      &postRepository{h: h},
		comments:   &commentRepository{h: h},
		stats:      &statsRepository{h: h},
	}
}

func (r *repos) Users() repository.UserRepository { return r.users }
func (r *repos) Boats() repository.BoatRepository { return r.boats }
func (r *repos) Rentals() repository.RentalRepository { return r.rentals }
func (r *repos) Activities() repository.ActivityRepository { return r.activities }
func (r *repos) Signups() repository.SignupRepository { return r.signups }
func (r *repos) Finances() repository.FinanceRepository { return r.finances }
func (r *repos) Notices() repository.NoticeRepository { return r.notices }
func (r *repos) Tags() repository.TagRepository { return r.tags }
func (r *repos) Posts() repository.PostRepository { return r.posts }
func (r *repos) Comments() repository.CommentRepository { return r.comments }
func (r *repos) Stats() repository.StatsRepository { return r.stats }

// lockAll takes the row lock of every id in ascending order, the order the
// Postgres ORDER BY id FOR UPDATE queries lock in.
func (h *handle) lockAll(ctx context.Context, table string, ids []int32) ([]int32, error) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if err := h.lock(ctx, rowKey(table, id)); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func rowKey(table string, ids ...int32) string {
	key := table
	for _, id := range ids {
		key += fmt.Sprintf("/%d", id)
	}
	return key
}

// page sorts items with less and applies offset and limit the way the SQL
// queries do.
func page[T any](items []T, less func(a, b T) bool, offset, limit int32) []T {
	sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	if int(offset) >= len(items) {
		return []T{}
	}
	end := int(offset) + int(limit)
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
