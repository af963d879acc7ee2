package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow/internal/core"
)

// withSQLite points the CLI at a fresh sqlite file shared by every
// invocation of the test.
func withSQLite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", filepath.Join(dir, "cashflow.db"))
	t.Setenv("AMQP_URL", "")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := execute(context.Background(), args, &out, &errOut)
	return out.String(), err
}

func TestRootHasSubcommands(t *testing.T) {
	root := newRootCmd(&env{})

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "summary", "list", "add", "delete", "budgets", "export", "import", "clear", "version"} {
		assert.True(t, names[want], "missing %s", want)
	}

	var budgets *cobra.Command
	for _, c := range root.Commands() {
		if c.Name() == "budgets" {
			budgets = c
		}
	}
	require.NotNil(t, budgets)
	require.Len(t, budgets.Commands(), 1)
	assert.Equal(t, "set", budgets.Commands()[0].Name())
}

func TestVersionSkipsBackend(t *testing.T) {
	t.Setenv("DATA_BACKEND", "postgres")
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cashflow dev")
}

func TestInvalidConfigFails(t *testing.T) {
	t.Setenv("DATA_BACKEND", "postgres")
	_, err := run(t, "list")
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestAddListSummaryRoundTrip(t *testing.T) {
	withSQLite(t)

	_, err := run(t, "add", "income", "2000", "--category", "Salary", "--date", "2024-03-01")
	require.NoError(t, err)
	_, err = run(t, "add", "expense", "150", "--category", "food", "--description", "groceries", "--date", "2024-03-05")
	require.NoError(t, err)

	out, err := run(t, "list", "--year", "2024", "--month", "3", "--json")
	require.NoError(t, err)
	var txs []core.Transaction
	require.NoError(t, json.Unmarshal([]byte(out), &txs))
	require.Len(t, txs, 2)
	assert.Equal(t, core.Expense, txs[0].Type, "newest first")
	assert.Equal(t, "salary", txs[1].Category)

	out, err = run(t, "summary", "--year", "2024", "--month", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Summary for 2024-03")
	assert.Contains(t, out, "$1850.00")
	assert.Contains(t, out, "$1450.00")

	out, err = run(t, "delete", txs[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted")

	out, err = run(t, "delete", "nope")
	require.NoError(t, err)
	assert.Contains(t, out, "No transaction")

	out, err = run(t, "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Salary")
	assert.NotContains(t, out, "groceries")
}

func TestAddRejectsBadInput(t *testing.T) {
	withSQLite(t)

	_, err := run(t, "add", "transfer", "10")
	assert.ErrorIs(t, err, core.ErrInvalidType)

	_, err = run(t, "add", "expense", "abc")
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = run(t, "summary", "--month", "13")
	assert.Error(t, err)
}

func TestBudgetsSet(t *testing.T) {
	withSQLite(t)

	out, err := run(t, "budgets", "set", "--income", "3200", "--expense", "food=450", "--expense", "Credit Card=75")
	require.NoError(t, err)
	assert.Contains(t, out, "$3200.00")

	out, err = run(t, "budgets", "--json")
	require.NoError(t, err)
	var cfg core.BudgetConfiguration
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.True(t, core.MustMoney("450").Equal(cfg.ExpenseBudget("food")))
	assert.True(t, core.MustMoney("75").Equal(cfg.ExpenseBudget("credit_card")))
	assert.True(t, core.MustMoney("800").Equal(cfg.ExpenseBudget("housing")), "other targets are kept")

	_, err = run(t, "budgets", "set", "--replace", "--debt", "100")
	require.NoError(t, err)
	out, err = run(t, "budgets", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.True(t, cfg.Income.IsZero())
	assert.Empty(t, cfg.Expenses)

	_, err = run(t, "budgets", "set", "--expense", "food")
	assert.Error(t, err)
}

func TestExportImportClear(t *testing.T) {
	dir := withSQLite(t)

	_, err := run(t, "add", "bill", "60", "--category", "internet", "--date", "2024-03-03")
	require.NoError(t, err)

	path := filepath.Join(dir, "export.json")
	_, err = run(t, "export", "-o", path)
	require.NoError(t, err)

	_, err = run(t, "clear")
	assert.ErrorIs(t, err, errNotConfirmed)
	_, err = run(t, "clear", "--yes")
	require.NoError(t, err)

	out, err := run(t, "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "No transactions")

	out, err = run(t, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported: 1 transactions")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"transactions":"nope"}`), 0o644))
	_, err = run(t, "import", bad)
	assert.Error(t, err)

	out, err = run(t, "list", "--all", "--json")
	require.NoError(t, err)
	var txs []core.Transaction
	require.NoError(t, json.Unmarshal([]byte(out), &txs))
	assert.Len(t, txs, 1, "a rejected import changes nothing")
}
