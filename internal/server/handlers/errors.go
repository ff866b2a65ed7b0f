package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/auth"
	"github.com/mamadbah2/shopledger/internal/ledger"
	"github.com/mamadbah2/shopledger/internal/repository/store"
	"github.com/mamadbah2/shopledger/internal/service/bookkeeping"
)

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrItemNotFound), errors.Is(err, ledger.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrOutOfStock),
		errors.Is(err, ledger.ErrInsufficientStock),
		errors.Is(err, ledger.ErrDuplicateItem),
		errors.Is(err, ledger.ErrOrderClosed),
		errors.Is(err, bookkeeping.ErrAmbiguousOrder):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidExchangeRate),
		errors.Is(err, ledger.ErrInvalidPrice),
		errors.Is(err, ledger.ErrInvalidQuantity),
		errors.Is(err, ledger.ErrInvalidStockChange),
		errors.Is(err, ledger.ErrMissingField),
		errors.Is(err, ledger.ErrInvalidCategory),
		errors.Is(err, ledger.ErrInvalidStatus):
		return http.StatusUnprocessableEntity
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := StatusFor(err)
	message := err.Error()

	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		if status == http.StatusServiceUnavailable {
			message = "ledger store unavailable, nothing was saved"
		} else {
			message = "internal error"
		}
	default:
		logger.Debug("request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}

	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func badRequest(c *gin.Context, logger *zap.Logger, err error) {
	logger.Debug("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}
