package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/repository/memory"
)

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRentalConfirmation(ctx context.Context, user *domain.User, boat *domain.Boat, rental *domain.Rental) error {
	args := m.Called(ctx, user, boat, rental)
	return args.Error(0)
}

func (m *MockEmailService) SendReturnConfirmation(ctx context.Context, user *domain.User, boat *domain.Boat, rental *domain.Rental) error {
	args := m.Called(ctx, user, boat, rental)
	return args.Error(0)
}

func (m *MockEmailService) SendRentalReminder(ctx context.Context, user *domain.User, boat *domain.Boat, rental *domain.Rental) error {
	args := m.Called(ctx, user, boat, rental)
	return args.Error(0)
}

func (m *MockEmailService) SendSignupConfirmation(ctx context.Context, user *domain.User, activity *domain.Activity) error {
	args := m.Called(ctx, user, activity)
	return args.Error(0)
}

// quietEmail accepts every message.
func quietEmail() *MockEmailService {
	m := new(MockEmailService)
	m.On("SendRentalConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("SendReturnConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("SendRentalReminder", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("SendSignupConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

func newStore() *memory.Store {
	return memory.NewStore(5 * time.Second)
}

func seedUser(t *testing.T, store *memory.Store, username, balance string, role domain.UserRole) (*domain.User, domain.Principal) {
	t.Helper()
	u := &domain.User{
		Username:     username,
		PasswordHash: "x",
		Email:        username + "@club.test",
		Role:         role,
		Balance:      domain.MustMoney(balance),
	}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u, domain.Principal{UserID: u.ID, Username: u.Username, Role: u.Role}
}

func seedBoat(t *testing.T, store *memory.Store, name, price string) *domain.Boat {
	t.Helper()
	b := &domain.Boat{
		Name:        name,
		Type:        "dinghy",
		Status:      domain.BoatStatusAvailable,
		RentalPrice: domain.MustMoney(price),
	}
	require.NoError(t, store.Boats().Create(context.Background(), b))
	return b
}

func seedActivity(t *testing.T, store *memory.Store, creator int32, max int32) *domain.Activity {
	t.Helper()
	start := time.Now().Add(24 * time.Hour).UTC()
	a := &domain.Activity{
		Title:           "Evening race",
		Location:        "Lake dock",
		StartTime:       start,
		EndTime:         start.Add(2 * time.Hour),
		MaxParticipants: max,
		CreatorID:       creator,
	}
	require.NoError(t, store.Activities().Create(context.Background(), a))
	return a
}

func balanceOf(t *testing.T, store *memory.Store, id int32) domain.Money {
	t.Helper()
	u, err := store.Users().GetByID(context.Background(), id)
	require.NoError(t, err)
	return u.Balance
}
