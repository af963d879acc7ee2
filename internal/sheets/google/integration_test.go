//go:build integration

package google

import (
	"context"
	"os"
	"testing"
	"time"

	"cashflow/internal/aggregate"
	"cashflow/internal/core"
	"cashflow/internal/sheets"
)

// Integration tests require real Google Sheets credentials
// Run with: go test -tags=integration ./internal/sheets/google

func TestIntegration_MirrorSnapshot(t *testing.T) {
	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}
	credsJSON := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")
	credsFile := os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE")
	if credsJSON == "" && credsFile == "" {
		t.Skip("service account not configured, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	m, err := New(ctx, Options{
		SpreadsheetID:   spreadsheetID,
		SheetName:       "Integration",
		CredentialsJSON: credsJSON,
		CredentialsFile: credsFile,
	})
	if err != nil {
		t.Fatalf("Failed to create mirror: %v", err)
	}

	txs := []core.Transaction{
		{ID: "it-1", Type: core.Income, Category: "salary", Amount: core.MustMoney("2000"), Date: core.NewDate(2024, 3, 1)},
	}
	snap := sheets.Snapshot{
		Transactions: txs,
		Summary:      aggregate.New(txs, core.DefaultBudgets()).Dashboard(core.Period{Year: 2024, Month: 2}),
	}
	if err := m.Mirror(ctx, snap); err != nil {
		t.Fatalf("Mirror() error = %v", err)
	}
}
