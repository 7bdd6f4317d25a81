package handler

import (
	"strconv"

	"hydrogen-credit-ledger/internal/adapter/http/middleware"
	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/pkg/apperror"
	"hydrogen-credit-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// caller returns the authenticated identity, writing AUTH_001 when the
// request carries none.
func caller(c *gin.Context) (domain.Identity, bool) {
	id, ok := middleware.Identity(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return "", false
	}
	return id, true
}

// batchIDParam parses the :id path parameter.
func batchIDParam(c *gin.Context) (domain.BatchID, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, apperror.Validation("batch id must be a non-negative integer"))
		return 0, false
	}
	return domain.BatchID(id), true
}

// parseAmount converts a validated decimal string into a whole amount.
// Fractional values fail with InvalidAmount; the sign is checked by the
// ledger.
func parseAmount(c *gin.Context, field, raw string) (decimal.Decimal, bool) {
	d, ok := domain.ParseAmount(raw)
	if !ok {
		response.Error(c, apperror.ErrInvalidAmount(field))
		return decimal.Zero, false
	}
	return d, true
}

// bindJSON binds and trims a request body, writing REQ_001 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return false
	}
	return true
}

func queryLimit(c *gin.Context, def int) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return limit
}
