package service

import (
	"context"
	"time"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/logger"
	"sailing-club-backend/internal/metrics"
	"sailing-club-backend/internal/repository"
)

const defaultDepositDescription = "Account deposit"

// NewEntry is an administrator-issued ledger line. Without UserID it is a
// club-level entry that moves no member balance.
type NewEntry struct {
	UserID      *int32
	Type        domain.FinanceType
	Amount      domain.Money
	Description string
}

type ledgerService struct {
	store   repository.Store
	metrics *metrics.Metrics
}

func NewLedgerService(store repository.Store, m *metrics.Metrics) LedgerService {
	return &ledgerService{store: store, metrics: m}
}

// postDelta applies delta to a user row the caller has already locked and,
// when record is set, appends the matching ledger line. The balance may
// never go below zero.
func postDelta(ctx context.Context, repos repository.Repositories, user *domain.User, delta domain.Money, description string, record bool) (*domain.FinanceEntry, error) {
	next := user.Balance.Add(delta)
	if next.IsNegative() {
		return nil, domain.InsufficientFunds("balance %s is not enough for %s", user.Balance, delta.Abs())
	}
	if !next.InRange() {
		return nil, domain.InvalidAmount("balance would exceed %s", domain.MaxMoney)
	}
	if err := repos.Users().UpdateBalance(ctx, user.ID, next); err != nil {
		return nil, err
	}
	user.Balance = next
	if !record || delta.IsZero() {
		return nil, nil
	}
	entry := domain.EntryForDelta(user.ID, delta, description)
	if err := repos.Finances().Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) AdjustBalance(ctx context.Context, userID int32, delta domain.Money, description string) (user *domain.User, err error) {
	defer func(started time.Time) {
		observe(ctx, s.metrics, "adjust_balance", started, err, "user_id", userID, "delta", delta.String())
	}(time.Now())

	logger.EnterMethod("ledgerService.AdjustBalance", "userID", userID, "delta", delta.String())
	if delta.IsZero() {
		return nil, domain.InvalidAmount("amount must not be zero")
	}
	if !delta.InRange() {
		return nil, domain.InvalidAmount("amount must not exceed %s", domain.MaxMoney)
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		u, err := repos.Users().LockForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if _, err := postDelta(ctx, repos, u, delta, description, true); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *ledgerService) AdminAdjustBalance(ctx context.Context, p domain.Principal, userID int32, delta domain.Money, description string) (*domain.User, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if description == "" {
		description = "Balance adjustment"
	}
	return s.AdjustBalance(ctx, userID, delta, description)
}

func (s *ledgerService) Deposit(ctx context.Context, p domain.Principal, userID int32, amount domain.Money, description string) (*domain.User, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, domain.InvalidAmount("deposit amount must be greater than zero")
	}
	if description == "" {
		description = defaultDepositDescription
	}
	return s.AdjustBalance(ctx, userID, amount, description)
}

func (s *ledgerService) CreateEntry(ctx context.Context, p domain.Principal, in NewEntry) (entry *domain.FinanceEntry, err error) {
	defer func(started time.Time) {
		observe(ctx, s.metrics, "create_finance_entry", started, err, "type", in.Type, "amount", in.Amount.String())
	}(time.Now())

	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, domain.InvalidArgument("type must be INCOME or EXPENSE")
	}
	if !in.Amount.IsPositive() {
		return nil, domain.InvalidAmount("amount must be greater than zero")
	}
	if !in.Amount.InRange() {
		return nil, domain.InvalidAmount("amount must not exceed %s", domain.MaxMoney)
	}

	entry = &domain.FinanceEntry{
		UserID:      in.UserID,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
	}

	if in.UserID == nil {
		if err := s.store.Finances().Create(ctx, entry); err != nil {
			return nil, err
		}
		return entry, nil
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		u, err := repos.Users().LockForUpdate(ctx, *in.UserID)
		if err != nil {
			return err
		}
		posted, err := postDelta(ctx, repos, u, entry.Signed(), in.Description, true)
		if err != nil {
			return err
		}
		entry = posted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) ListEntries(ctx context.Context, p domain.Principal, typ domain.FinanceType, skip, limit int32) ([]domain.FinanceEntry, error) {
	if typ != "" && !typ.Valid() {
		return nil, domain.InvalidArgument("type must be INCOME or EXPENSE")
	}
	filter := domain.FinanceFilter{Type: typ, Offset: skip, Limit: limit}
	if !p.IsAdmin() {
		uid := p.UserID
		filter.UserID = &uid
	}
	return s.store.Finances().List(ctx, filter)
}

func (s *ledgerService) Balance(ctx context.Context, p domain.Principal) (*domain.User, error) {
	return s.store.Users().GetByID(ctx, p.UserID)
}

// Report aggregates the whole ledger without locking; it may trail
// in-flight transactions.
func (s *ledgerService) Report(ctx context.Context, p domain.Principal) (*domain.FinanceReport, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	totals, err := s.store.Finances().Totals(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.FinanceReport{
		TotalIncome:      totals.TotalIncome,
		TotalExpense:     totals.TotalExpense,
		NetBalance:       totals.TotalIncome.Sub(totals.TotalExpense),
		TransactionCount: totals.TransactionCount,
	}, nil
}
