package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
	Bill    TransactionType = "bill"
	Debt    TransactionType = "debt"
)

const dateLayout = "2006-01-02"

type (
	TransactionType string

	// Date is a calendar date. Only year, month and day carry meaning.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Amount      Money           `json:"amount"`
		Description string          `json:"description"`
		Date        Date            `json:"date"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	// Period selects one calendar month. Month is zero-based (0 = January).
	Period struct {
		Year  int `json:"year"`
		Month int `json:"month"`
	}
)

var (
	ErrInvalidType    = errors.New("invalid transaction type")
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidID      = errors.New("invalid transaction id")
)

// TransactionTypes lists the known types in display order.
func TransactionTypes() []TransactionType {
	return []TransactionType{Income, Expense, Bill, Debt}
}

func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense, Bill, Debt:
		return true
	default:
		return false
	}
}

func (t TransactionType) String() string {
	return string(t)
}

// ParseTransactionType accepts the type name in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

// NewDate creates a new Date from year, month (1-12) and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the clock part of t.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses YYYY-MM-DD, falling back to an RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, data)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalJSON accepts the id as a string or a bare number.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type plain Transaction
	aux := struct {
		*plain
		ID json.RawMessage `json:"id"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.ID) == 0 {
		return nil
	}
	id, err := parseID(aux.ID)
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

func parseID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case bytes.Equal(raw, []byte("null")):
		return "", nil
	case len(raw) > 0 && raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("%w: %s", ErrInvalidID, raw)
		}
		return s, nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", fmt.Errorf("%w: %s", ErrInvalidID, raw)
		}
		return n.String(), nil
	}
}

// Validate checks type and amount. Everything else is the caller's business.
func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// NewPeriod builds a Period from a calendar month.
func NewPeriod(year int, month time.Month) Period {
	return Period{Year: year, Month: int(month) - 1}
}

// PeriodOf returns the period t falls in.
func PeriodOf(t time.Time) Period {
	return NewPeriod(t.Year(), t.Month())
}

func (p Period) Valid() bool {
	return p.Month >= 0 && p.Month <= 11
}

// Contains reports whether d falls in the period. Out-of-range periods contain nothing.
func (p Period) Contains(d Date) bool {
	if !p.Valid() || d.IsZero() {
		return false
	}
	return d.Year() == p.Year && int(d.Month())-1 == p.Month
}

// String renders the period as YYYY-MM with a one-based month.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month+1)
}
