package memory

import (
	"context"
	"time"

	"sailing-club-backend/internal/domain"
)

type financeRepository struct {
	h *handle
}

func (r *financeRepository) Create(ctx context.Context, e *domain.FinanceEntry) error {
	return r.h.write(func(st *state) (func(*state), error) {
		if !e.Amount.InRange() {
			return nil, domain.InvalidAmount("amount must not exceed %s", domain.MaxMoney)
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now().UTC()
		}
		e.ID = st.next("finances")
		st.finances[e.ID] = *e
		id := e.ID
		return func(st *state) { delete(st.finances, id) }, nil
	})
}

func (r *financeRepository) List(ctx context.Context, f domain.FinanceFilter) ([]domain.FinanceEntry, error) {
	var entries []domain.FinanceEntry
	r.h.read(func(st *state) {
		for _, e := range st.finances {
			if f.UserID != nil && (e.UserID == nil || *e.UserID != *f.UserID) {
				continue
			}
			if f.Type != "" && e.Type != f.Type {
				continue
			}
			entries = append(entries, e)
		}
	})
	newest := func(a, b domain.FinanceEntry) bool {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	}
	return page(entries, newest, f.Offset, f.Limit), nil
}

func (r *financeRepository) Totals(ctx context.Context) (*domain.FinanceTotals, error) {
	totals := &domain.FinanceTotals{TotalIncome: domain.ZeroMoney, TotalExpense: domain.ZeroMoney}
	r.h.read(func(st *state) {
		for _, e := range st.finances {
			switch e.Type {
			case domain.FinanceTypeIncome:
				totals.TotalIncome = totals.TotalIncome.Add(e.Amount)
			case domain.FinanceTypeExpense:
				totals.TotalExpense = totals.TotalExpense.Add(e.Amount)
			}
			totals.TransactionCount++
		}
	})
	return totals, nil
}

func (r *financeRepository) NetByUser(ctx context.Context) (map[int32]domain.Money, error) {
	out := map[int32]domain.Money{}
	r.h.read(func(st *state) {
		for _, e := range st.finances {
			if e.UserID == nil {
				continue
			}
			e := e
			out[*e.UserID] = out[*e.UserID].Add(e.Signed())
		}
	})
	return out, nil
}
