package memory

import (
	"context"
	"sort"
	"time"

	"sailing-club-backend/internal/domain"
)

const monthLayout = "2006-01"

type statsRepository struct {
	h *handle
}

func (r *statsRepository) Counts(ctx context.Context) (*domain.ClubCounts, error) {
	counts := &domain.ClubCounts{}
	r.h.read(func(st *state) {
		counts.TotalUsers = int64(len(st.users))
		counts.TotalBoats = int64(len(st.boats))
		counts.TotalActivities = int64(len(st.activities))
	})
	return counts, nil
}

func (r *statsRepository) IncomeSince(ctx context.Context, since time.Time) (domain.Money, error) {
	total := domain.ZeroMoney
	r.h.read(func(st *state) {
		for _, e := range st.finances {
			if e.Type == domain.FinanceTypeIncome && !e.CreatedAt.Before(since) {
				total = total.Add(e.Amount)
			}
		}
	})
	return total, nil
}

func (r *statsRepository) ActiveRentersSince(ctx context.Context, since time.Time) (int64, error) {
	renters := map[int32]struct{}{}
	r.h.read(func(st *state) {
		for _, rt := range st.rentals {
			if !rt.RentalTime.Before(since) {
				renters[rt.UserID] = struct{}{}
			}
		}
	})
	return int64(len(renters)), nil
}

func (r *statsRepository) BoatUsage(ctx context.Context) ([]domain.BoatUsage, error) {
	var usage []domain.BoatUsage
	r.h.read(func(st *state) {
		counts := map[int32]int64{}
		for _, rt := range st.rentals {
			counts[rt.BoatID]++
		}
		for id, b := range st.boats {
			usage = append(usage, domain.BoatUsage{BoatID: id, BoatName: b.Name, RentalCount: counts[id]})
		}
	})
	sort.Slice(usage, func(i, j int) bool { return usage[i].BoatID < usage[j].BoatID })
	return usage, nil
}

func (r *statsRepository) IncomeByMonth(ctx context.Context, since time.Time) (map[string]domain.Money, error) {
	months := map[string]domain.Money{}
	r.h.read(func(st *state) {
		for _, e := range st.finances {
			if e.Type != domain.FinanceTypeIncome || e.CreatedAt.Before(since) {
				continue
			}
			key := e.CreatedAt.UTC().Format(monthLayout)
			months[key] = months[key].Add(e.Amount)
		}
	})
	return months, nil
}

func (r *statsRepository) SignupsByMonth(ctx context.Context, since time.Time) (map[string]int64, error) {
	months := map[string]int64{}
	r.h.read(func(st *state) {
		for _, s := range st.signups {
			if !s.SignupTime.Before(since) {
				months[s.SignupTime.UTC().Format(monthLayout)]++
			}
		}
	})
	return months, nil
}
