package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow/internal/core"
)

func sampleTransactions() []core.Transaction {
	return []core.Transaction{
		{ID: "1709251200000", Type: core.Income, Category: "salary", Amount: core.MustMoney("2000"), Description: "March pay", Date: core.NewDate(2024, 3, 1), CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		{ID: "b", Type: core.Expense, Category: "food", Amount: core.MustMoney("150.25"), Date: core.NewDate(2024, 3, 5), CreatedAt: time.Date(2024, 3, 5, 18, 30, 0, 0, time.UTC)},
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	budgets := core.DefaultBudgets()
	budgets.Expenses["travel"] = core.MustMoney("99.99")
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

	data, err := Encode(sampleTransactions(), budgets, now)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"exportDate": "2024-03-31T12:00:00Z"`)
	assert.Contains(t, string(data), `"amount": 150.25`)

	p, err := DecodeImport(data)
	require.NoError(t, err)
	require.True(t, p.HasTransactions)
	require.NotNil(t, p.Budgets)
	assert.True(t, budgets.Equal(*p.Budgets))

	want := sampleTransactions()
	require.Len(t, p.Transactions, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, p.Transactions[i].ID)
		assert.Equal(t, want[i].Type, p.Transactions[i].Type)
		assert.Equal(t, want[i].Category, p.Transactions[i].Category)
		assert.True(t, want[i].Amount.Equal(p.Transactions[i].Amount))
		assert.Equal(t, want[i].Date.String(), p.Transactions[i].Date.String())
		assert.True(t, want[i].CreatedAt.Equal(p.Transactions[i].CreatedAt))
	}
}

func TestEncodeEmptyStoreWritesEmptyArray(t *testing.T) {
	data, err := Encode(nil, core.DefaultBudgets(), time.Now())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"transactions": []`)
}

func TestDecodeImportPartialDocuments(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantTxs   bool
		wantBudg  bool
		wantCount int
	}{
		{"only budgets", `{"budgets":{"income":100,"expenses":{"food":5},"debt":0,"savings":0}}`, false, true, 0},
		{"only transactions", `{"transactions":[{"id":"x","type":"bill","category":"internet","amount":"45.99","date":"2024-03-02"}]}`, true, false, 1},
		{"empty transactions replace", `{"transactions":[]}`, true, false, 0},
		{"null keys ignored", `{"transactions":null,"budgets":null}`, false, false, 0},
		{"unrelated keys", `{"exportDate":"2024-01-01T00:00:00Z","foo":1}`, false, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodeImport([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.wantTxs, p.HasTransactions)
			assert.Equal(t, tt.wantBudg, p.Budgets != nil)
			assert.Len(t, p.Transactions, tt.wantCount)
			assert.Equal(t, !tt.wantTxs && !tt.wantBudg, p.Empty())
		})
	}
}

func TestDecodeImportRejectsMalformed(t *testing.T) {
	docs := map[string]string{
		"not json":             `{"transactions": [`,
		"array at top":         `[]`,
		"null at top":          `null`,
		"transactions object":  `{"transactions":{"id":"1"}}`,
		"bad amount":           `{"transactions":[{"type":"expense","amount":"abc"}]}`,
		"negative amount":      `{"transactions":[{"type":"expense","amount":-5}]}`,
		"budgets not object":   `{"budgets":"lots"}`,
		"good txs bad budgets": `{"transactions":[],"budgets":{"income":"x"}}`,
		"repeated id":          `{"transactions":[{"id":"1","type":"expense","category":"food","amount":10},{"id":"1","type":"expense","category":"rent","amount":20}]}`,
		"repeated numeric id":  `{"transactions":[{"id":7,"type":"bill","amount":1},{"id":"7","type":"bill","amount":2}]}`,
		"id not scalar":        `{"transactions":[{"id":{"v":1},"type":"bill","amount":1}]}`,
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			p, err := DecodeImport([]byte(doc))
			assert.ErrorIs(t, err, ErrMalformedDocument)
			assert.True(t, p.Empty())
		})
	}
}

func TestDecodeImportNormalisesIDs(t *testing.T) {
	doc := `{"transactions":[
		{"id":1700000000000,"type":"expense","category":"food","amount":10,"date":"2024-03-01"},
		{"type":"expense","category":"noid","amount":5,"date":"2024-03-02"},
		{"id":null,"type":"bill","category":"internet","amount":45,"date":"2024-03-03"}
	]}`

	p, err := DecodeImport([]byte(doc))
	require.NoError(t, err)
	require.Len(t, p.Transactions, 3)
	assert.Equal(t, "1700000000000", p.Transactions[0].ID)
	assert.NotEmpty(t, p.Transactions[1].ID)
	assert.NotEmpty(t, p.Transactions[2].ID)
	assert.NotEqual(t, p.Transactions[1].ID, p.Transactions[2].ID)
}

func TestExportFilename(t *testing.T) {
	ts := time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "expense-data-2024-03-09.json", ExportFilename(ts))
}
