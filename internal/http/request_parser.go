// Package http serves the JSON API over the ledger.
//
// This file implements utilities for parsing and validating request data:
// period selection from query strings and JSON bodies for transactions and
// budgets.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cashflow/internal/core"
)

// maxBodyBytes bounds every request body, imports included.
const maxBodyBytes = 10 << 20

var (
	errEmptyBody   = errors.New("request body is empty")
	errMissingType = errors.New("type is required")
)

// ParsePeriod reads year and zero-based month from query, defaulting each to
// the period containing now. Months outside 0..11 are passed through; they
// select nothing.
func ParsePeriod(query url.Values, now time.Time) (core.Period, error) {
	p := core.PeriodOf(now)

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return core.Period{}, fmt.Errorf("invalid year %q", v)
		}
		p.Year = y
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return core.Period{}, fmt.Errorf("invalid month %q", v)
		}
		p.Month = m
	}
	return p, nil
}

// ParseTypeParam reads a transaction type from query[key]. An absent key
// yields def; def may be empty to mean "any".
func ParseTypeParam(query url.Values, key string, def core.TransactionType) (core.TransactionType, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return def, nil
	}
	return core.ParseTransactionType(v)
}

// ParseCategories returns the repeated category params, or def when none
// were given. Comma separated lists are split.
func ParseCategories(query url.Values, def []string) []string {
	var out []string
	for _, v := range query["category"] {
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				out = append(out, c)
			}
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// readBody reads the whole body up to maxBodyBytes.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errEmptyBody
	}
	return body, nil
}

// decodeJSON decodes exactly one JSON value from the body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

// TransactionRequest is the body of POST and PUT /api/transactions.
type TransactionRequest struct {
	Type        string      `json:"type"`
	Category    string      `json:"category"`
	Amount      *core.Money `json:"amount"`
	Description string      `json:"description"`
	Date        core.Date   `json:"date"`
}

// Transaction converts the request into a transaction with the given id.
// Text fields are sanitized; type and amount are required.
func (req TransactionRequest) Transaction(id string) (core.Transaction, error) {
	if strings.TrimSpace(req.Type) == "" {
		return core.Transaction{}, errMissingType
	}
	typ, err := core.ParseTransactionType(req.Type)
	if err != nil {
		return core.Transaction{}, err
	}
	if req.Amount == nil {
		return core.Transaction{}, core.ErrInvalidAmount
	}
	tx := core.Transaction{
		ID:          id,
		Type:        typ,
		Category:    sanitizeInput(req.Category),
		Amount:      *req.Amount,
		Description: sanitizeInput(req.Description),
		Date:        req.Date,
	}
	return tx, tx.Validate()
}

// BudgetsRequest is the body of PUT /api/budgets.
type BudgetsRequest struct {
	Income   *core.Money           `json:"income"`
	Expenses map[string]core.Money `json:"expenses"`
	Debt     *core.Money           `json:"debt"`
	Savings  *core.Money           `json:"savings"`
}

// Budgets converts the request into a full configuration. Missing targets
// are zero; negative ones are rejected.
func (req BudgetsRequest) Budgets() (core.BudgetConfiguration, error) {
	cfg := core.BudgetConfiguration{Expenses: make(map[string]core.Money, len(req.Expenses))}
	for _, f := range []struct {
		src *core.Money
		dst *core.Money
	}{{req.Income, &cfg.Income}, {req.Debt, &cfg.Debt}, {req.Savings, &cfg.Savings}} {
		if f.src == nil {
			continue
		}
		if f.src.IsNegative() {
			return core.BudgetConfiguration{}, core.ErrNegativeAmount
		}
		*f.dst = *f.src
	}
	for k, v := range req.Expenses {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if v.IsNegative() {
			return core.BudgetConfiguration{}, fmt.Errorf("%w: %s", core.ErrNegativeAmount, k)
		}
		cfg.Expenses[k] = v
	}
	return cfg, nil
}

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
