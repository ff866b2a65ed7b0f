package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/shopledger/internal/auth"
	"github.com/mamadbah2/shopledger/internal/ledger"
	"github.com/mamadbah2/shopledger/internal/repository/store"
	"github.com/mamadbah2/shopledger/internal/service/bookkeeping"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("row 9: %w", ledger.ErrItemNotFound), want: http.StatusNotFound},
		{err: ledger.ErrOrderNotFound, want: http.StatusNotFound},
		{err: ledger.ErrOutOfStock, want: http.StatusConflict},
		{err: ledger.ErrDuplicateItem, want: http.StatusConflict},
		{err: bookkeeping.ErrAmbiguousOrder, want: http.StatusConflict},
		{err: ledger.ErrInvalidExchangeRate, want: http.StatusUnprocessableEntity},
		{err: ledger.ErrMissingField, want: http.StatusUnprocessableEntity},
		{err: auth.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{err: fmt.Errorf("read Sales: %w: %w", store.ErrUnavailable, errors.New("quota")), want: http.StatusServiceUnavailable},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}
