package handler

import (
	"net/http"

	"inovocb/internal/service"

	"github.com/gin-gonic/gin"
)

// ReceiptHandler is the SERVICE-role boundary for the receipt collaborator:
// it turns an approved receipt into a point credit.
type ReceiptHandler struct {
	receipts *service.ReceiptService
}

func NewReceiptHandler(receipts *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts}
}

func (h *ReceiptHandler) Credit(c *gin.Context) {
	var req struct {
		UserID    uint    `json:"user_id" binding:"required"`
		Amount    float64 `json:"amount"`
		ReceiptID string  `json:"receipt_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.receipts.CreditForReceipt(req.UserID, req.Amount, req.ReceiptID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
