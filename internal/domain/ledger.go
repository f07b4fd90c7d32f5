package domain

import "time"

type FinanceType string

const (
	FinanceTypeIncome  FinanceType = "INCOME"
	FinanceTypeExpense FinanceType = "EXPENSE"
)

func (t FinanceType) Valid() bool {
	return t == FinanceTypeIncome || t == FinanceTypeExpense
}

// FinanceEntry is an append-only ledger line. Amount is always positive;
// the direction is carried by Type.
type FinanceEntry struct {
	ID          int32       `json:"id" db:"id"`
	UserID      *int32      `json:"user_id" db:"user_id"`
	Type        FinanceType `json:"type" db:"type"`
	Amount      Money       `json:"amount" db:"amount"`
	Description string      `json:"description" db:"description"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// Signed returns the entry's effect on a balance.
func (e *FinanceEntry) Signed() Money {
	if e.Type == FinanceTypeExpense {
		return e.Amount.Neg()
	}
	return e.Amount
}

// EntryForDelta builds the ledger line describing a signed balance change.
func EntryForDelta(userID int32, delta Money, description string) *FinanceEntry {
	entry := &FinanceEntry{
		UserID:      &userID,
		Type:        FinanceTypeIncome,
		Amount:      delta.Abs(),
		Description: description,
	}
	if delta.IsNegative() {
		entry.Type = FinanceTypeExpense
	}
	return entry
}

type FinanceFilter struct {
	UserID *int32
	Type   FinanceType
	Offset int32
	Limit  int32
}

type FinanceTotals struct {
	TotalIncome      Money `db:"total_income"`
	TotalExpense     Money `db:"total_expense"`
	TransactionCount int64 `db:"transaction_count"`
}

type FinanceReport struct {
	TotalIncome      Money `json:"total_income"`
	TotalExpense     Money `json:"total_expense"`
	NetBalance       Money `json:"net_balance"`
	TransactionCount int64 `json:"transaction_count"`
}

// BalanceDrift is a user whose stored balance disagrees with the signed sum
// of their ledger entries.
type BalanceDrift struct {
	UserID    int32
	Username  string
	Balance   Money
	LedgerSum Money
}
