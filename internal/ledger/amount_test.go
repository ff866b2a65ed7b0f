package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "1750", want: "1750"},
		{input: "1750.5", want: "1750.5"},
		{input: "1.750", want: "1.75"},
		{input: "1,750", want: "1750"},
		{input: "12,500,000", want: "12500000"},
		{input: "12.500.000", want: "12500000"},
		{input: "1,750.50", want: "1750.50"},
		{input: "1.750,50", want: "1750.50"},
		{input: "1750,50", want: "1750.50"},
		{input: "17,5", want: "17.5"},
		{input: "0,750", want: "0.75"},
		{input: "-1,750", want: "-1750"},
		{input: " 12 ", want: "12"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			// Act
			got, err := ParseAmount(tt.input)

			// Assert
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseAmount_Rejects(t *testing.T) {
	for _, input := range []string{"twelve", "", "1,7,5"} {
		_, err := ParseAmount(input)
		assert.Error(t, err, input)
	}
}
