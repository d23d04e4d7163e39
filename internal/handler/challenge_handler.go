package handler

import (
	"net/http"
	"strconv"
	"time"

	"inovocb/internal/middleware"
	"inovocb/internal/service"

	"github.com/gin-gonic/gin"
)

type ChallengeHandler struct {
	challenges *service.ChallengeService
}

func NewChallengeHandler(challenges *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challenges: challenges}
}

func (h *ChallengeHandler) Open(c *gin.Context) {
	cs, err := h.challenges.Open(time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cs)
}

func (h *ChallengeHandler) Mine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ucs, err := h.challenges.ListForUser(userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ucs)
}

func (h *ChallengeHandler) Claim(c *gin.Context) {
	userID := middleware.GetUserID(c)
	challengeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid challenge id"})
		return
	}
	result, err := h.challenges.Claim(userID, uint(challengeID))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Advance records collaborator-reported progress toward a challenge.
// SERVICE role.
func (h *ChallengeHandler) Advance(c *gin.Context) {
	var req struct {
		UserID      uint `json:"user_id" binding:"required"`
		ChallengeID uint `json:"challenge_id" binding:"required"`
		Delta       int  `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	uc, err := h.challenges.Advance(req.UserID, req.ChallengeID, req.Delta)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, uc)
}
