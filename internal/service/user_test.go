package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/repository"
	"sailing-club-backend/internal/security"
	"sailing-club-backend/internal/service"
)

const testSecret = "test-secret-key-that-is-at-least-32-chars"

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	tokens := security.NewTokenManager(testSecret, 30*time.Minute, time.Hour)
	svc := service.NewAuthService(store, tokens)

	user, err := svc.Register(ctx, service.RegisterInput{Username: "alice", Password: "secret123", Email: "alice@club.test"})
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleMember, user.Role)
	assert.True(t, user.Balance.IsZero())
	assert.NotEqual(t, "secret123", user.PasswordHash)

	_, err = svc.Register(ctx, service.RegisterInput{Username: "alice", Password: "another1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = svc.Register(ctx, service.RegisterInput{Username: "bob", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	t.Run("Login", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice", "wrong-password")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		_, err = svc.Login(ctx, "nobody", "secret123")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)

		pair, err := svc.Login(ctx, "alice", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "bearer", pair.TokenType)

		claims, err := tokens.ValidateToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, security.TokenTypeAccess, claims.Type)

		_, err = svc.Refresh(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)

		refreshed, err := svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.Empty(t, refreshed.RefreshToken)

		me, err := svc.Me(ctx, claims.Principal())
		require.NoError(t, err)
		assert.Equal(t, "alice", me.Username)
	})

	t.Run("EnsureAdmin", func(t *testing.T) {
		admin, created, err := svc.EnsureAdmin(ctx, "commodore", "harbour123", "commodore@club.test")
		require.NoError(t, err)
		assert.True(t, created)
		assert.True(t, admin.IsAdmin())

		again, created, err := svc.EnsureAdmin(ctx, "commodore", "different-pass", "")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, admin.ID, again.ID)

		_, err = svc.Login(ctx, "commodore", "harbour123")
		assert.NoError(t, err)

		_, _, err = svc.EnsureAdmin(ctx, "alice", "secret123", "")
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		me, err := store.Users().GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.False(t, me.IsAdmin())

		_, _, err = svc.EnsureAdmin(ctx, "root", "123", "")
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := service.NewUserService(store)
	rentals := service.NewRentalService(store, quietEmail(), nil, true)
	_, admin := seedUser(t, store, "admin", "0.00", domain.UserRoleAdmin)
	alice, alicePrincipal := seedUser(t, store, "alice", "50.00", domain.UserRoleMember)
	bob, bobPrincipal := seedUser(t, store, "bob", "0.00", domain.UserRoleMember)

	t.Run("Profile Access", func(t *testing.T) {
		_, err := svc.GetUser(ctx, bobPrincipal, alice.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		got, err := svc.GetUser(ctx, admin, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)

		_, err = svc.ListUsers(ctx, bobPrincipal, 0, 10)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		users, err := svc.ListUsers(ctx, admin, 0, 10)
		require.NoError(t, err)
		assert.Len(t, users, 3)
	})

	t.Run("Update", func(t *testing.T) {
		phone := "555-0100"
		updated, err := svc.UpdateUser(ctx, alicePrincipal, alice.ID, service.UserUpdate{Phone: &phone})
		require.NoError(t, err)
		assert.Equal(t, phone, updated.Phone)
		assert.Equal(t, "50.00", updated.Balance.String())

		role := domain.UserRoleAdmin
		_, err = svc.UpdateUser(ctx, alicePrincipal, alice.ID, service.UserUpdate{Role: &role})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		_, err = svc.UpdateUser(ctx, alicePrincipal, bob.ID, service.UserUpdate{Phone: &phone})
		assert.ErrorIs(t, err, domain.ErrForbidden)

		promoted, err := svc.UpdateUser(ctx, admin, bob.ID, service.UserUpdate{Role: &role})
		require.NoError(t, err)
		assert.True(t, promoted.IsAdmin())
	})

	t.Run("Delete", func(t *testing.T) {
		boat := seedBoat(t, store, "Laser 1", "10.00")
		rental, err := rentals.Rent(ctx, alicePrincipal, boat.ID)
		require.NoError(t, err)

		assert.ErrorIs(t, svc.DeleteUser(ctx, alicePrincipal, bob.ID), domain.ErrForbidden)
		assert.ErrorIs(t, svc.DeleteUser(ctx, admin, admin.UserID), domain.ErrInvalidState)
		assert.ErrorIs(t, svc.DeleteUser(ctx, admin, alice.ID), domain.ErrInvalidState)

		_, err = rentals.Return(ctx, alicePrincipal, rental.ID)
		require.NoError(t, err)
		require.NoError(t, svc.DeleteUser(ctx, admin, alice.ID))

		_, err = svc.GetUser(ctx, admin, alice.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Delete Cascades Authored Content", func(t *testing.T) {
		carol, carolPrincipal := seedUser(t, store, "carol", "0.00", domain.UserRoleMember)
		activity := seedActivity(t, store, carol.ID, 5)
		forum := service.NewForumService(store)
		post := &domain.Post{Title: "Crew wanted", Content: "Saturday race"}
		require.NoError(t, forum.CreatePost(ctx, carolPrincipal, post))
		_, err := forum.CreateComment(ctx, bobPrincipal, post.ID, "count me in")
		require.NoError(t, err)
		notice := &domain.Notice{Title: "Dock closed", Content: "Until Monday"}
		require.NoError(t, service.NewNoticeService(store).CreateNotice(ctx, admin, notice))

		require.NoError(t, svc.DeleteUser(ctx, admin, carol.ID))

		_, err = store.Activities().GetByID(ctx, activity.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = forum.GetPost(ctx, post.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = store.Notices().GetByID(ctx, notice.ID)
		assert.NoError(t, err)
	})

	t.Run("Delete Waits For Locked Activity", func(t *testing.T) {
		dave, _ := seedUser(t, store, "dave", "0.00", domain.UserRoleMember)
		activity := seedActivity(t, store, dave.ID, 5)

		locked := make(chan struct{})
		release := make(chan struct{})
		done := make(chan error, 1)
		go func() {
			done <- store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
				if _, err := repos.Activities().LockForUpdate(ctx, activity.ID); err != nil {
					return err
				}
				close(locked)
				<-release
				return nil
			})
		}()
		<-locked

		deleted := make(chan error, 1)
		go func() { deleted <- svc.DeleteUser(ctx, admin, dave.ID) }()

		select {
		case err := <-deleted:
			t.Fatalf("delete finished while the activity was locked: %v", err)
		case <-time.After(50 * time.Millisecond):
		}
		close(release)
		require.NoError(t, <-done)
		require.NoError(t, <-deleted)
	})
}

func TestBoatService(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := service.NewBoatService(store)
	rentals := service.NewRentalService(store, quietEmail(), nil, true)
	_, admin := seedUser(t, store, "admin", "0.00", domain.UserRoleAdmin)
	_, member := seedUser(t, store, "alice", "100.00", domain.UserRoleMember)

	boat := &domain.Boat{Name: "Laser 7", Type: "dinghy", RentalPrice: domain.MustMoney("15.00"), Status: domain.BoatStatusRented}
	assert.ErrorIs(t, svc.CreateBoat(ctx, member, boat), domain.ErrForbidden)
	assert.ErrorIs(t, svc.CreateBoat(ctx, admin, &domain.Boat{Name: ""}), domain.ErrInvalidArgument)
	assert.ErrorIs(t, svc.CreateBoat(ctx, admin, &domain.Boat{Name: "x", RentalPrice: domain.MustMoney("-1.00")}), domain.ErrInvalidAmount)
	huge := domain.Money{Decimal: decimal.RequireFromString("123456789.00")}
	assert.ErrorIs(t, svc.CreateBoat(ctx, admin, &domain.Boat{Name: "x", RentalPrice: huge}), domain.ErrInvalidAmount)
	require.NoError(t, svc.CreateBoat(ctx, admin, boat))
	assert.Equal(t, domain.BoatStatusAvailable, boat.Status)

	maintenance := domain.BoatStatusMaintenance
	rented := domain.BoatStatusRented
	available := domain.BoatStatusAvailable

	_, err := svc.UpdateBoat(ctx, admin, boat.ID, domain.BoatUpdate{Status: &rented})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	got, err := svc.UpdateBoat(ctx, admin, boat.ID, domain.BoatUpdate{Status: &maintenance})
	require.NoError(t, err)
	assert.Equal(t, domain.BoatStatusMaintenance, got.Status)

	listed, err := svc.ListBoats(ctx, domain.BoatStatusAvailable, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = svc.UpdateBoat(ctx, admin, boat.ID, domain.BoatUpdate{Status: &available})
	require.NoError(t, err)

	rental, err := rentals.Rent(ctx, member, boat.ID)
	require.NoError(t, err)

	_, err = svc.UpdateBoat(ctx, admin, boat.ID, domain.BoatUpdate{Status: &maintenance})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.ErrorIs(t, svc.DeleteBoat(ctx, admin, boat.ID), domain.ErrInvalidState)

	price := domain.MustMoney("20.00")
	got, err = svc.UpdateBoat(ctx, admin, boat.ID, domain.BoatUpdate{RentalPrice: &price})
	require.NoError(t, err)
	assert.Equal(t, "20.00", got.RentalPrice.String())
	assert.Equal(t, domain.BoatStatusRented, got.Status)

	_, err = rentals.Return(ctx, member, rental.ID)
	require.NoError(t, err)
	assert.Equal(t, "85.00", balanceOf(t, store, member.UserID).String())

	require.NoError(t, svc.DeleteBoat(ctx, admin, boat.ID))
	_, err = svc.GetBoat(ctx, boat.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.ListBoats(ctx, "SUNK", 0, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
