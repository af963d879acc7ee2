// Package core provides money parsing and handling utilities.
//
// Money wraps an arbitrary-precision decimal so sums never drift. It is
// encoded in JSON as a bare number to stay compatible with documents
// exported by the browser dashboard.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Money struct {
	d decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

func MoneyFromInt(units int64) Money {
	return Money{d: decimal.NewFromInt(units)}
}

// ParseMoney converts a user-entered decimal string to Money.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Signs are rejected: direction is carried by the transaction type.
// Zero is allowed.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{d: d}, nil
}

// MustMoney is ParseMoney for constants; it panics on bad input.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic("core: bad money literal " + s)
	}
	return m
}

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }

func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }

func (m Money) IsZero() bool { return m.d.IsZero() }

func (m Money) IsNegative() bool { return m.d.IsNegative() }

func (m Money) IsPositive() bool { return m.d.IsPositive() }

func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

// Percent returns m/of*100, or 0 when of is not positive.
func (m Money) Percent(of Money) float64 {
	if !of.d.IsPositive() {
		return 0
	}
	f, _ := m.d.Div(of.d).Mul(hundred).Float64()
	return f
}

// Float64 returns the value for display and charting only.
func (m Money) Float64() float64 {
	f, _ := m.d.Float64()
	return f
}

// String returns the exact decimal representation.
func (m Money) String() string {
	return m.d.String()
}

// Dollars formats the amount the way the dashboard shows it: "$1850.00", "-$20.50".
func (m Money) Dollars() string {
	if m.d.IsNegative() {
		return "-$" + m.d.Neg().StringFixed(2)
	}
	return "$" + m.d.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return ErrInvalidAmount
	}
	m.d = d
	return nil
}
