package domain

import (
	"github.com/shopspring/decimal"
)

// Money is a fixed-point amount with two decimal places. It scans from and
// writes to NUMERIC columns and marshals to a JSON number such as 12.50.
type Money struct {
	decimal.Decimal
}

var ZeroMoney = Money{decimal.Zero}

// MaxMoney is the largest magnitude a NUMERIC(10, 2) column holds.
var MaxMoney = Money{decimal.RequireFromString("99999999.99")}

func NewMoney(d decimal.Decimal) Money {
	return Money{d.Round(2)}
}

// ParseMoney validates d as an amount: at most two decimal places and within
// MaxMoney. It never rounds.
func ParseMoney(d decimal.Decimal) (Money, error) {
	if !d.Equal(d.Round(2)) {
		return ZeroMoney, InvalidAmount("amount must have at most two decimal places")
	}
	m := Money{d}
	if !m.InRange() {
		return ZeroMoney, InvalidAmount("amount must not exceed %s", MaxMoney)
	}
	return m, nil
}

// MoneyFromString parses a decimal string like "30.00" or "-5.5".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ZeroMoney, InvalidAmount("invalid amount %q", s)
	}
	return ParseMoney(d)
}

// MustMoney is MoneyFromString for literals; it panics on bad input.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(o Money) Money { return Money{m.Decimal.Add(o.Decimal)} }
func (m Money) Sub(o Money) Money { return Money{m.Decimal.Sub(o.Decimal)} }
func (m Money) Neg() Money { return Money{m.Decimal.Neg()} }
func (m Money) Abs() Money { return Money{m.Decimal.Abs()} }

func (m Money) LessThan(o Money) bool { return m.Decimal.LessThan(o.Decimal) }
func (m Money) Equal(o Money) bool { return m.Decimal.Equal(o.Decimal) }

// InRange reports whether m fits a NUMERIC(10, 2) column.
func (m Money) InRange() bool {
	return !MaxMoney.LessThan(m.Abs())
}

func (m Money) String() string {
	return m.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(2)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return InvalidAmount("amount must be a decimal number")
	}
	parsed, err := ParseMoney(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
