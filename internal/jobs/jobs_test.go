package jobs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sailing-club-backend/internal/config"
	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/metrics"
	"sailing-club-backend/internal/repository/memory"
)

const testYAML = `
server:
  port: 8000
database:
  host: localhost
  user: club
  database: club
jwt:
  secret: 0123456789abcdef0123456789abcdef
rental:
  reminder_after_hours: 24
`

type mockEmail struct {
	mock.Mock
}

func (m *mockEmail) SendRentalConfirmation(ctx context.Context, user *domain.User, boat *domain.Boat, rental *domain.Rental) error {
	return m.Called(ctx, user, boat, rental).Error(0)
}

func (m *mockEmail) SendReturnConfirmation(ctx context.Context, user *domain.User, boat *domain.Boat, rental *domain.Rental) error {
	return m.Called(ctx, user, boat, rental).Error(0)
}

func (m *mockEmail) SendRentalReminder(ctx context.Context, user *domain.User, boat *domain.Boat, rental *domain.Rental) error {
	return m.Called(ctx, user, boat, rental).Error(0)
}

func (m *mockEmail) SendSignupConfirmation(ctx context.Context, user *domain.User, activity *domain.Activity) error {
	return m.Called(ctx, user, activity).Error(0)
}

func setup(t *testing.T) (*JobRunner, *memory.Store, *mockEmail, *metrics.Metrics) {
	t.Helper()
	cfg, err := config.Parse([]byte(testYAML))
	require.NoError(t, err)

	store := memory.NewStore(time.Second)
	email := new(mockEmail)
	m := metrics.New()
	return NewJobRunner(store, &Services{Email: email}, m, cfg), store, email, m
}

func addUser(t *testing.T, store *memory.Store, name, balance string) *domain.User {
	t.Helper()
	u := &domain.User{Username: name, PasswordHash: "x", Email: name + "@club.test", Role: domain.UserRoleMember, Balance: domain.MustMoney(balance)}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

func addEntry(t *testing.T, store *memory.Store, userID int32, typ domain.FinanceType, amount string) {
	t.Helper()
	e := &domain.FinanceEntry{UserID: &userID, Type: typ, Amount: domain.MustMoney(amount), Description: "test"}
	require.NoError(t, store.Finances().Create(context.Background(), e))
}

func addRental(t *testing.T, store *memory.Store, user *domain.User, boatName string, rentedAt time.Time) *domain.Rental {
	t.Helper()
	ctx := context.Background()
	b := &domain.Boat{Name: boatName, Type: "dinghy", Status: domain.BoatStatusRented, RentalPrice: domain.MustMoney("10.00")}
	require.NoError(t, store.Boats().Create(ctx, b))
	r := &domain.Rental{BoatID: b.ID, UserID: user.ID, Price: b.RentalPrice, RentalTime: rentedAt, Status: domain.RentalStatusActive}
	require.NoError(t, store.Rentals().Create(ctx, r))
	return r
}

func TestFindBalanceDrift(t *testing.T) {
	jr, store, _, _ := setup(t)

	inSync := addUser(t, store, "alice", "70.00")
	addEntry(t, store, inSync.ID, domain.FinanceTypeIncome, "100.00")
	addEntry(t, store, inSync.ID, domain.FinanceTypeExpense, "30.00")

	drifted := addUser(t, store, "bob", "50.00")
	addEntry(t, store, drifted.ID, domain.FinanceTypeIncome, "80.00")

	noEntries := addUser(t, store, "carol", "5.00")
	addUser(t, store, "dave", "0.00")

	drifts, err := jr.findBalanceDrift(context.Background())
	require.NoError(t, err)
	require.Len(t, drifts, 2)

	byUser := map[int32]domain.BalanceDrift{}
	for _, d := range drifts {
		byUser[d.UserID] = d
	}
	assert.Equal(t, "50.00", byUser[drifted.ID].Balance.String())
	assert.Equal(t, "80.00", byUser[drifted.ID].LedgerSum.String())
	assert.Equal(t, "0.00", byUser[noEntries.ID].LedgerSum.String())
}

func TestReconcileBalances_SetsGaugeWithoutCorrecting(t *testing.T) {
	jr, store, _, m := setup(t)
	u := addUser(t, store, "bob", "50.00")
	addEntry(t, store, u.ID, domain.FinanceTypeIncome, "80.00")

	jr.ReconcileBalances()

	got, err := store.Users().GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "50.00", got.Balance.String())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "sailing_ledger_drift_users 1")
}

func TestRemindLongRentals(t *testing.T) {
	jr, store, email, _ := setup(t)
	now := time.Now().UTC()

	u := addUser(t, store, "alice", "0.00")
	old := addRental(t, store, u, "Laser 1", now.Add(-30*time.Hour))
	addRental(t, store, u, "Laser 2", now.Add(-2*time.Hour))

	email.On("SendRentalReminder", mock.Anything, mock.MatchedBy(func(user *domain.User) bool {
		return user.ID == u.ID
	}), mock.MatchedBy(func(b *domain.Boat) bool {
		return b.Name == "Laser 1"
	}), mock.MatchedBy(func(r *domain.Rental) bool {
		return r.ID == old.ID
	})).Return(nil).Once()

	sent, err := jr.remindLongRentals(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	email.AssertExpectations(t)
}

func TestRemindLongRentals_EmailFailureContinues(t *testing.T) {
	jr, store, email, _ := setup(t)
	now := time.Now().UTC()

	a := addUser(t, store, "alice", "0.00")
	b := addUser(t, store, "bob", "0.00")
	addRental(t, store, a, "Laser 1", now.Add(-48*time.Hour))
	addRental(t, store, b, "Laser 2", now.Add(-36*time.Hour))

	email.On("SendRentalReminder", mock.Anything, mock.MatchedBy(func(u *domain.User) bool { return u.ID == a.ID }), mock.Anything, mock.Anything).
		Return(errors.New("sendgrid: 503")).Once()
	email.On("SendRentalReminder", mock.Anything, mock.MatchedBy(func(u *domain.User) bool { return u.ID == b.ID }), mock.Anything, mock.Anything).
		Return(nil).Once()

	sent, err := jr.remindLongRentals(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	email.AssertExpectations(t)
}

func TestRunWithRecovery(t *testing.T) {
	jr, _, _, _ := setup(t)
	assert.NotPanics(t, func() {
		jr.runWithRecovery("Boom", func() { panic("boom") })
	})
}

func TestRunAll(t *testing.T) {
	jr, _, _, _ := setup(t)
	assert.NotPanics(t, jr.RunAll)
}
