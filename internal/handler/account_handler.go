package handler

import (
	"net/http"
	"strconv"
	"time"

	"inovocb/internal/middleware"
	"inovocb/internal/repository"
	"inovocb/internal/service"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	accounts      *repository.AccountRepository
	notifications *repository.NotificationRepository
	ledger        *service.LedgerService
	levels        *service.LevelService
	counters      *service.CounterService
	leaderboard   int
}

func NewAccountHandler(
	accounts *repository.AccountRepository,
	notifications *repository.NotificationRepository,
	ledger *service.LedgerService,
	levels *service.LevelService,
	counters *service.CounterService,
	leaderboard int,
) *AccountHandler {
	return &AccountHandler{
		accounts:      accounts,
		notifications: notifications,
		ledger:        ledger,
		levels:        levels,
		counters:      counters,
		leaderboard:   leaderboard,
	}
}

// Status returns the caller's account after applying any pending day
// rollover, so the daily counters and free spin are always current.
func (h *AccountHandler) Status(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if _, err := h.accounts.GetOrCreate(userID); err != nil {
		fail(c, err)
		return
	}
	if err := h.counters.RolloverIfNeeded(userID, time.Now()); err != nil {
		fail(c, err)
		return
	}
	a, err := h.accounts.GetByUserID(userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// Transactions pages the caller's ledger, newest first.
func (h *AccountHandler) Transactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	txs, total, err := h.ledger.History(userID, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs, "total": total, "page": page})
}

func (h *AccountHandler) Levels(c *gin.Context) {
	levels, err := h.levels.List()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, levels)
}

func (h *AccountHandler) Leaderboard(c *gin.Context) {
	rows, err := h.accounts.Leaderboard(h.leaderboard)
	if err != nil {
		fail(c, err)
		return
	}
	type entry struct {
		UserID         uint   `json:"user_id"`
		LifetimePoints int    `json:"lifetime_points"`
		Level          string `json:"level"`
		StreakDays     int    `json:"streak_days"`
	}
	out := make([]entry, 0, len(rows))
	for _, a := range rows {
		e := entry{UserID: a.UserID, LifetimePoints: a.LifetimePoints, StreakDays: a.StreakDays}
		if a.CurrentLevel != nil {
			e.Level = a.CurrentLevel.Name
		}
		out = append(out, e)
	}
	c.JSON(http.StatusOK, out)
}

func (h *AccountHandler) Notifications(c *gin.Context) {
	userID := middleware.GetUserID(c)
	unseenOnly := c.Query("unseen") == "true"
	ns, err := h.notifications.ListForUser(userID, unseenOnly)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ns)
}

func (h *AccountHandler) MarkNotificationSeen(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.notifications.MarkSeen(userID, uint(id)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seen": true})
}

// Audit replays a user's ledger and compares it to the stored balance.
// SERVICE role.
func (h *AccountHandler) Audit(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}
	balance, replayed, ok, err := h.ledger.Audit(uint(userID))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance, "replayed": replayed, "consistent": ok})
}

// Adjust applies a signed operator correction to a user's balance. SERVICE
// role.
func (h *AccountHandler) Adjust(c *gin.Context) {
	var req struct {
		UserID uint   `json:"user_id" binding:"required"`
		Amount int    `json:"amount" binding:"required"`
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.ledger.Adjust(req.UserID, req.Amount, "admin_"+req.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
