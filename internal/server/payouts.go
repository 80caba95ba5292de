package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type payoutRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// RequestPayout executes a withdrawal. Partial leg failure is still a 200:
// money already moved, and the per-leg results are the source of truth.
func (s *Server) RequestPayout(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("creator_id"))
	if userID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var req payoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	receipt, err := s.payoutSvc.Withdraw(c.Request.Context(), userID, req.Amount, req.Currency)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": receipt})
}

func (s *Server) ListPayouts(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("creator_id"))
	if userID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	limit := 20
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		limit = parsed
	}

	records, err := s.payoutSvc.History(c.Request.Context(), userID, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}
