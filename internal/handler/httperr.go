package handler

import (
	"errors"
	"net/http"

	"inovocb/internal/domain"

	"github.com/gin-gonic/gin"
)

// fail maps engine errors onto HTTP statuses. Unknown errors become a 500
// with a generic message; the ledger never leaks internals to clients.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInsufficientBalance):
		c.JSON(http.StatusConflict, gin.H{"error": "insufficient balance"})
	case errors.Is(err, domain.ErrNoPrizesAvailable):
		c.JSON(http.StatusConflict, gin.H{"error": "no prizes available"})
	case errors.Is(err, domain.ErrNotEligible):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "challenge not completed"})
	case errors.Is(err, domain.ErrAlreadyClaimed):
		c.JSON(http.StatusConflict, gin.H{"error": "reward already claimed"})
	case errors.Is(err, domain.ErrIllegalTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrContention):
		c.JSON(http.StatusConflict, gin.H{"error": "try again"})
	case errors.Is(err, domain.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
