package handler

import (
	"net/http"
	"strconv"

	"inovocb/internal/middleware"
	"inovocb/internal/service"

	"github.com/gin-gonic/gin"
)

type SpinHandler struct {
	spins *service.SpinService
}

func NewSpinHandler(spins *service.SpinService) *SpinHandler {
	return &SpinHandler{spins: spins}
}

func (h *SpinHandler) Wheels(c *gin.Context) {
	wheels, err := h.spins.ListWheels()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, wheels)
}

// Spin runs one draw on a wheel, consuming a free spin or the wheel's point
// cost.
func (h *SpinHandler) Spin(c *gin.Context) {
	userID := middleware.GetUserID(c)
	wheelID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wheel id"})
		return
	}
	result, err := h.spins.Spin(userID, uint(wheelID))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SpinHandler) History(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	spins, total, err := h.spins.History(userID, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"spins": spins, "total": total, "page": page})
}
