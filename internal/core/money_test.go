package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1", "1", false},
		{"1.0", "1", false},
		{"1.23", "1.23", false},
		{"1,23", "1.23", false},
		{"0", "0", false},
		{" 2.50 ", "2.5", false},
		{"-1", "", true},
		{"+1", "", true},
		{"abc", "", true},
		{"1.2.3", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMoney(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "%q", tt.in)
			continue
		}
		require.NoError(t, err, "%q", tt.in)
		assert.Equal(t, tt.want, got.String(), "%q", tt.in)
	}
}

func TestMoneyArithmeticIsExact(t *testing.T) {
	var sum Money
	for i := 0; i < 10; i++ {
		sum = sum.Add(MustMoney("0.1"))
	}
	assert.True(t, sum.Equal(MoneyFromInt(1)), "got %s", sum)

	diff := MoneyFromInt(20).Sub(MustMoney("20.5"))
	assert.Equal(t, "-0.5", diff.String())
	assert.True(t, diff.IsNegative())
}

func TestMoneyPercent(t *testing.T) {
	assert.Equal(t, 37.5, MoneyFromInt(150).Percent(MoneyFromInt(400)))
	assert.Equal(t, float64(150), MoneyFromInt(600).Percent(MoneyFromInt(400)), "no clamping")
	assert.Equal(t, float64(0), MoneyFromInt(50).Percent(Money{}), "zero budget")
}

func TestMoneyDollars(t *testing.T) {
	assert.Equal(t, "$1850.00", MoneyFromInt(1850).Dollars())
	assert.Equal(t, "-$20.50", MustMoney("20.5").Sub(MoneyFromInt(41)).Dollars())
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Money `json:"a"`
	}{A: MustMoney("12.34")})
	require.NoError(t, err)
	assert.Equal(t, `{"a":12.34}`, string(b))

	for _, in := range []string{`12.34`, `"12.34"`} {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(in), &m), in)
		assert.Equal(t, "12.34", m.String(), in)
	}

	var m Money
	assert.ErrorIs(t, json.Unmarshal([]byte(`"twelve"`), &m), ErrInvalidAmount)
}
