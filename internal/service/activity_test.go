package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/service"
)

func TestActivityService_ConcurrentSignUpHonoursCapacity(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := service.NewActivityService(store, quietEmail(), nil)
	_, creator := seedUser(t, store, "skipper", "0.00", domain.UserRoleMember)
	activity := seedActivity(t, store, creator.UserID, 5)

	const members = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		full    int
		unknown []error
	)
	for i := 0; i < members; i++ {
		_, p := seedUser(t, store, fmt.Sprintf("crew%d", i), "0.00", domain.UserRoleMember)
		wg.Add(1)
		go func(p domain.Principal) {
			defer wg.Done()
			_, err := svc.SignUp(ctx, p, activity.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrCapacityExceeded):
				full++
			default:
				unknown = append(unknown, err)
			}
		}(p)
	}
	wg.Wait()

	assert.Empty(t, unknown)
	assert.Equal(t, 5, ok)
	assert.Equal(t, members-5, full)
	count, err := store.Signups().CountByActivity(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestActivityService_ConcurrentDuplicateSignUp(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := service.NewActivityService(store, quietEmail(), nil)
	_, p := seedUser(t, store, "alice", "0.00", domain.UserRoleMember)
	activity := seedActivity(t, store, p.UserID, 0)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.SignUp(ctx, p, activity.ID)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrDuplicate)
		assert.Equal(t, "already signed up", domain.MessageOf(err))
	}
	assert.Equal(t, 1, ok)
}

func TestActivityService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("Unlimited Capacity", func(t *testing.T) {
		store := newStore()
		svc := service.NewActivityService(store, quietEmail(), nil)
		_, creator := seedUser(t, store, "skipper", "0.00", domain.UserRoleMember)
		activity := seedActivity(t, store, creator.UserID, 0)
		for i := 0; i < 30; i++ {
			_, p := seedUser(t, store, fmt.Sprintf("crew%d", i), "0.00", domain.UserRoleMember)
			_, err := svc.SignUp(ctx, p, activity.ID)
			require.NoError(t, err)
		}
	})

	t.Run("Full Activity", func(t *testing.T) {
		store := newStore()
		svc := service.NewActivityService(store, quietEmail(), nil)
		_, a := seedUser(t, store, "a", "0.00", domain.UserRoleMember)
		_, b := seedUser(t, store, "b", "0.00", domain.UserRoleMember)
		activity := seedActivity(t, store, a.UserID, 1)

		_, err := svc.SignUp(ctx, a, activity.ID)
		require.NoError(t, err)
		_, err = svc.SignUp(ctx, b, activity.ID)
		assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
		assert.Equal(t, "activity is full", domain.MessageOf(err))
	})

	t.Run("Unknown Activity", func(t *testing.T) {
		store := newStore()
		svc := service.NewActivityService(store, quietEmail(), nil)
		_, p := seedUser(t, store, "a", "0.00", domain.UserRoleMember)

		_, err := svc.SignUp(ctx, p, 42)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Sends Confirmation", func(t *testing.T) {
		store := newStore()
		email := new(MockEmailService)
		svc := service.NewActivityService(store, email, nil)
		user, p := seedUser(t, store, "a", "0.00", domain.UserRoleMember)
		activity := seedActivity(t, store, p.UserID, 0)
		email.On("SendSignupConfirmation", mock.Anything,
			mock.MatchedBy(func(u *domain.User) bool { return u.ID == user.ID }),
			mock.MatchedBy(func(a *domain.Activity) bool { return a.ID == activity.ID })).Return(nil).Once()

		signup, err := svc.SignUp(ctx, p, activity.ID)
		require.NoError(t, err)
		assert.False(t, signup.CheckIn)
		email.AssertExpectations(t)
	})
}

func TestActivityService_CheckInAndCancel(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := service.NewActivityService(store, quietEmail(), nil)
	_, p := seedUser(t, store, "alice", "0.00", domain.UserRoleMember)
	activity := seedActivity(t, store, p.UserID, 2)

	_, err := svc.CheckIn(ctx, p, activity.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.SignUp(ctx, p, activity.ID)
	require.NoError(t, err)

	signup, err := svc.CheckIn(ctx, p, activity.ID)
	require.NoError(t, err)
	assert.True(t, signup.CheckIn)

	signup, err = svc.CheckIn(ctx, p, activity.ID)
	require.NoError(t, err)
	assert.True(t, signup.CheckIn)

	mine, err := svc.ListMySignups(ctx, p)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].CheckIn)

	require.NoError(t, svc.CancelSignUp(ctx, p, activity.ID))
	assert.ErrorIs(t, svc.CancelSignUp(ctx, p, activity.ID), domain.ErrNotFound)

	count, _ := store.Signups().CountByActivity(ctx, activity.ID)
	assert.Zero(t, count)
}

func TestActivityService_CreatorOrAdminRules(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := service.NewActivityService(store, quietEmail(), nil)
	_, creator := seedUser(t, store, "skipper", "0.00", domain.UserRoleMember)
	_, other := seedUser(t, store, "deckhand", "0.00", domain.UserRoleMember)
	_, admin := seedUser(t, store, "admin", "0.00", domain.UserRoleAdmin)
	activity := seedActivity(t, store, creator.UserID, 10)

	title := "Renamed race"

	_, err := svc.UpdateActivity(ctx, other, activity.ID, domain.ActivityUpdate{Title: &title})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.ListSignups(ctx, other, activity.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteActivity(ctx, other, activity.ID), domain.ErrForbidden)

	updated, err := svc.UpdateActivity(ctx, creator, activity.ID, domain.ActivityUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	_, err = svc.ListSignups(ctx, creator, activity.ID)
	assert.NoError(t, err)
	_, err = svc.ListSignups(ctx, admin, activity.ID)
	assert.NoError(t, err)

	require.NoError(t, svc.DeleteActivity(ctx, admin, activity.ID))
	_, err = svc.GetActivity(ctx, activity.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestActivityService_CreateAndUpdateValidation(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := service.NewActivityService(store, quietEmail(), nil)
	_, p := seedUser(t, store, "skipper", "0.00", domain.UserRoleMember)
	_, crew1 := seedUser(t, store, "crew1", "0.00", domain.UserRoleMember)
	_, crew2 := seedUser(t, store, "crew2", "0.00", domain.UserRoleMember)

	start := time.Now().Add(time.Hour).UTC()
	bad := &domain.Activity{Title: "Race", StartTime: start, EndTime: start}
	assert.ErrorIs(t, svc.CreateActivity(ctx, p, bad), domain.ErrInvalidArgument)

	good := &domain.Activity{Title: "Race", StartTime: start, EndTime: start.Add(time.Hour), MaxParticipants: 5, CreatorID: 777}
	require.NoError(t, svc.CreateActivity(ctx, p, good))
	assert.Equal(t, p.UserID, good.CreatorID)

	_, err := svc.SignUp(ctx, crew1, good.ID)
	require.NoError(t, err)
	_, err = svc.SignUp(ctx, crew2, good.ID)
	require.NoError(t, err)

	one := int32(1)
	_, err = svc.UpdateActivity(ctx, p, good.ID, domain.ActivityUpdate{MaxParticipants: &one})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	earlier := start.Add(-2 * time.Hour)
	_, err = svc.UpdateActivity(ctx, p, good.ID, domain.ActivityUpdate{EndTime: &earlier})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	unchanged, err := svc.GetActivity(ctx, good.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(5), unchanged.MaxParticipants)

	list, err := svc.ListActivities(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
