package jobs

import (
	"context"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/logger"
)

const reconcilePageSize = 200

// ReconcileBalances compares every stored balance with the signed sum of the
// user's ledger entries and reports the users that disagree. Nothing is
// corrected.
func (jr *JobRunner) ReconcileBalances() {
	jr.runWithRecovery("ReconcileBalances", func() {
		ctx := context.Background()

		drifts, err := jr.findBalanceDrift(ctx)
		if err != nil {
			logger.Error("Failed to reconcile balances", "error", err)
			return
		}

		for _, d := range drifts {
			logger.Warn("Balance drift detected",
				"user_id", d.UserID,
				"username", d.Username,
				"balance", d.Balance.String(),
				"ledger_sum", d.LedgerSum.String(),
			)
		}
		jr.metrics.SetLedgerDrift(len(drifts))
		logger.Info("Reconciled balances", "drifted_users", len(drifts))
	})
}

func (jr *JobRunner) findBalanceDrift(ctx context.Context) ([]domain.BalanceDrift, error) {
	sums, err := jr.store.Finances().NetByUser(ctx)
	if err != nil {
		return nil, err
	}

	var drifts []domain.BalanceDrift
	for offset := int32(0); ; offset += reconcilePageSize {
		users, err := jr.store.Users().List(ctx, offset, reconcilePageSize)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			sum := sums[u.ID]
			if !u.Balance.Equal(sum) {
				drifts = append(drifts, domain.BalanceDrift{
					UserID:    u.ID,
					Username:  u.Username,
					Balance:   u.Balance,
					LedgerSum: sum,
				})
			}
		}
		if len(users) < reconcilePageSize {
			return drifts, nil
		}
	}
}
