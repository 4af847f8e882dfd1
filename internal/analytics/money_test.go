package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{
			name:     "Amount with currency code",
			input:    "12345.67|AED",
			expected: "12345.67",
		},
		{
			name:     "Large amount",
			input:    "95595.52|AED",
			expected: "95595.52",
		},
		{
			name:     "Plain number string without pipe",
			input:    "1000",
			expected: "1000",
		},
		{
			name:     "Nil value",
			input:    nil,
			expected: "0",
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "0",
		},
		{
			name:     "Garbage",
			input:    "garbage",
			expected: "0",
		},
		{
			name:     "Garbage with pipe",
			input:    "abc|AED",
			expected: "0",
		},
		{
			name:     "Non-string number",
			input:    42,
			expected: "0",
		},
		{
			name:     "Non-string float",
			input:    42.5,
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected := decimal.RequireFromString(tt.expected)
			got := ParseMoney(tt.input)
			assert.True(t, got.Equal(expected), "got %s, want %s", got, expected)
		})
	}
}

func TestParseAmount(t *testing.T) {
	assert.True(t, ParseAmount("2500000.50").Equal(decimal.RequireFromString("2500000.50")))
	assert.True(t, ParseAmount(float64(1500)).Equal(decimal.NewFromInt(1500)))
	assert.True(t, ParseAmount(nil).IsZero())
	assert.True(t, ParseAmount("").IsZero())
	assert.True(t, ParseAmount("not-a-number").IsZero())
}
