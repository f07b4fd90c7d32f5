package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/repository"
)

func seedBoat(t *testing.T, s *Store) *domain.Boat {
	t.Helper()
	b := &domain.Boat{Name: "Laser", Status: domain.BoatStatusAvailable, RentalPrice: domain.MustMoney("30.00")}
	require.NoError(t, s.Boats().Create(context.Background(), b))
	return b
}

func TestStore_RollbackUndoesWrites(t *testing.T) {
	s := NewStore(time.Second)
	ctx := context.Background()
	boat := seedBoat(t, s)

	errAbort := errors.New("abort")
	err := s.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		b, err := repos.Boats().LockForUpdate(ctx, boat.ID)
		require.NoError(t, err)
		b.Status = domain.BoatStatusRented
		require.NoError(t, repos.Boats().Update(ctx, b))
		require.NoError(t, repos.Rentals().Create(ctx, &domain.Rental{BoatID: b.ID, UserID: 1, Status: domain.RentalStatusActive}))
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	b, err := s.Boats().GetByID(ctx, boat.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BoatStatusAvailable, b.Status)

	rentals, err := s.Rentals().List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, rentals)
}

func TestStore_RowLockSerializesTransactions(t *testing.T) {
	s := NewStore(5 * time.Second)
	ctx := context.Background()
	boat := seedBoat(t, s)

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
				if _, err := repos.Boats().LockForUpdate(ctx, boat.ID); err != nil {
					return err
				}
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestStore_LockTimeout(t *testing.T) {
	s := NewStore(20 * time.Millisecond)
	ctx := context.Background()
	boat := seedBoat(t, s)

	locked := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = s.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			_, err := repos.Boats().LockForUpdate(ctx, boat.ID)
			close(locked)
			<-done
			return err
		})
	}()
	<-locked

	err := s.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		_, err := repos.Boats().LockForUpdate(ctx, boat.ID)
		return err
	})
	close(done)
	assert.ErrorIs(t, err, domain.ErrTransactionFailure)
}

func TestStore_ReentrantLock(t *testing.T) {
	s := NewStore(50 * time.Millisecond)
	ctx := context.Background()
	boat := seedBoat(t, s)

	err := s.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Boats().LockForUpdate(ctx, boat.ID); err != nil {
			return err
		}
		_, err := repos.Boats().LockForUpdate(ctx, boat.ID)
		return err
	})
	assert.NoError(t, err)
}

func TestStore_UniqueConstraints(t *testing.T) {
	s := NewStore(0)
	ctx := context.Background()

	require.NoError(t, s.Users().Create(ctx, &domain.User{Username: "ann"}))
	assert.ErrorIs(t, s.Users().Create(ctx, &domain.User{Username: "ann"}), domain.ErrDuplicate)

	require.NoError(t, s.Signups().Create(ctx, &domain.Signup{ActivityID: 1, UserID: 1}))
	assert.ErrorIs(t, s.Signups().Create(ctx, &domain.Signup{ActivityID: 1, UserID: 1}), domain.ErrDuplicate)
}

func TestStore_DeleteUserCascades(t *testing.T) {
	s := NewStore(0)
	ctx := context.Background()

	u := &domain.User{Username: "ann"}
	require.NoError(t, s.Users().Create(ctx, u))
	a := &domain.Activity{Title: "Sail", CreatorID: u.ID, StartTime: time.Now(), EndTime: time.Now().Add(time.Hour)}
	require.NoError(t, s.Activities().Create(ctx, a))
	require.NoError(t, s.Signups().Create(ctx, &domain.Signup{ActivityID: a.ID, UserID: u.ID}))
	require.NoError(t, s.Finances().Create(ctx, domain.EntryForDelta(u.ID, domain.MustMoney("10.00"), "deposit")))

	require.NoError(t, s.Users().Delete(ctx, u.ID))

	_, err := s.Activities().GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	n, _ := s.Signups().CountByActivity(ctx, a.ID)
	assert.Zero(t, n)
	entries, _ := s.Finances().List(ctx, domain.FinanceFilter{})
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].UserID)
}
