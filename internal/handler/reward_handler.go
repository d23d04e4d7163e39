package handler

import (
	"net/http"
	"strconv"

	"inovocb/internal/middleware"
	"inovocb/internal/service"

	"github.com/gin-gonic/gin"
)

type RewardHandler struct {
	redemptions *service.RedemptionService
}

func NewRewardHandler(redemptions *service.RedemptionService) *RewardHandler {
	return &RewardHandler{redemptions: redemptions}
}

func (h *RewardHandler) Catalog(c *gin.Context) {
	rewards, err := h.redemptions.Catalog()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rewards)
}

func (h *RewardHandler) Redeem(c *gin.Context) {
	userID := middleware.GetUserID(c)
	rewardID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reward id"})
		return
	}
	red, err := h.redemptions.Redeem(userID, uint(rewardID))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, red)
}

func (h *RewardHandler) MyRedemptions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	reds, total, err := h.redemptions.History(userID, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redemptions": reds, "total": total, "page": page})
}

// Cancel lets the owner abort a redemption that has not completed; points
// are refunded and stock restored.
func (h *RewardHandler) Cancel(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)
	red, err := h.redemptions.Cancel(userID, c.Param("redemption_id"), req.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, red)
}

// Transition advances fulfillment (processing, completed, delivered,
// cancelled, failed). SERVICE role.
func (h *RewardHandler) Transition(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	red, err := h.redemptions.Transition(c.Param("redemption_id"), req.Status, req.Notes)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, red)
}
