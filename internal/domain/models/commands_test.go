package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		message string
		want    CommandType
		args    []string
	}{
		{message: "/sale 2 2000 ₺ 35", want: CommandSale, args: []string{"2", "2000", "₺", "35"}},
		{message: "SELL 1 10 $", want: CommandSale, args: []string{"1", "10", "$"}},
		{message: "/expense Rent 500 $ March rent", want: CommandExpense, args: []string{"Rent", "500", "$", "March", "rent"}},
		{message: "/report", want: CommandReport},
		{message: "   ", want: CommandUnknown},
		{message: "/dance now", want: CommandUnknown, args: []string{"now"}},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			cmd := ParseCommand(tt.message)
			assert.Equal(t, tt.want, cmd.Type)
			assert.Equal(t, tt.args, cmd.Args)
			assert.Equal(t, tt.message, cmd.Raw)
		})
	}
}
