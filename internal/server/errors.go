package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	directorydomain "github.com/pulsefit/pulsefit/internal/directory/domain"
	earningsdomain "github.com/pulsefit/pulsefit/internal/earnings/domain"
	payoutdomain "github.com/pulsefit/pulsefit/internal/payout/domain"
)

type errorPayload struct {
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	Balances map[string]any `json:"balances,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
	ErrInternal       = errors.New("internal_error")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	var insufficient *payoutdomain.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "insufficient_balance",
			Message: "requested amount exceeds available balance",
			Balances: map[string]any{
				"requested":         insufficient.Requested,
				"creator_available": insufficient.CreatorAvailable,
				"winner_available":  insufficient.WinnerAvailable,
			},
		}
	}

	switch {
	case errors.Is(err, payoutdomain.ErrNoAccount):
		return http.StatusConflict, errorPayload{
			Type:    "no_account",
			Message: "no payout account; complete onboarding first",
		}
	case errors.Is(err, payoutdomain.ErrBelowMinimum):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "below_minimum_payout",
			Message: "requested amount is below the minimum payout",
		}
	case errors.Is(err, payoutdomain.ErrUnsupportedCurrency):
		return http.StatusBadRequest, errorPayload{
			Type:    "unsupported_currency",
			Message: "payouts are issued in the configured currency only",
		}
	case errors.Is(err, payoutdomain.ErrInvalidAmount),
		errors.Is(err, payoutdomain.ErrInvalidUser),
		errors.Is(err, earningsdomain.ErrInvalidUser),
		errors.Is(err, directorydomain.ErrInvalidUser),
		errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_request",
			Message: "invalid request",
		}
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}
