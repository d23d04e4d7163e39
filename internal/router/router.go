package router

import (
	"time"

	"inovocb/config"
	"inovocb/internal/handler"
	"inovocb/internal/middleware"
	"inovocb/internal/repository"
	"inovocb/internal/service"
	"inovocb/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Services bundles the engine services so the scheduler and the router can
// share the same wiring.
type Services struct {
	Ledger      *service.LedgerService
	Levels      *service.LevelService
	Counters    *service.CounterService
	Spins       *service.SpinService
	Challenges  *service.ChallengeService
	Redemptions *service.RedemptionService
	Receipts    *service.ReceiptService
}

func Build(cfg *config.Config, db *gorm.DB, hub *ws.Hub) *Services {
	accountRepo := repository.NewAccountRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	levelRepo := repository.NewLevelRepository(db)
	programRepo := repository.NewProgramRepository(db)
	spinRepo := repository.NewSpinRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	rewardRepo := repository.NewRewardRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	retries := cfg.Engine.TxRetries
	levelSvc := service.NewLevelService(db, accountRepo, levelRepo, notificationRepo, hub, retries)
	ledgerSvc := service.NewLedgerService(db, accountRepo, ledgerRepo, levelSvc, hub, retries)
	counterSvc := service.NewCounterService(db, accountRepo, spinRepo, retries)
	spinSvc := service.NewSpinService(db, accountRepo, spinRepo, ledgerSvc, levelSvc, hub, retries)
	challengeSvc := service.NewChallengeService(db, accountRepo, challengeRepo, ledgerSvc, levelSvc, hub, retries)
	redemptionSvc := service.NewRedemptionService(db, accountRepo, rewardRepo, ledgerSvc, hub, retries)
	receiptSvc := service.NewReceiptService(db, accountRepo, programRepo, ledgerSvc, levelSvc, challengeSvc, cfg.Engine.PointsTTL, retries)

	return &Services{
		Ledger:      ledgerSvc,
		Levels:      levelSvc,
		Counters:    counterSvc,
		Spins:       spinSvc,
		Challenges:  challengeSvc,
		Redemptions: redemptionSvc,
		Receipts:    receiptSvc,
	}
}

func Setup(cfg *config.Config, db *gorm.DB, hub *ws.Hub, svcs *Services) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))

	accountRepo := repository.NewAccountRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	accountHandler := handler.NewAccountHandler(accountRepo, notificationRepo, svcs.Ledger, svcs.Levels, svcs.Counters, cfg.Engine.LeaderboardSize)
	spinHandler := handler.NewSpinHandler(svcs.Spins)
	challengeHandler := handler.NewChallengeHandler(svcs.Challenges)
	rewardHandler := handler.NewRewardHandler(svcs.Redemptions)
	receiptHandler := handler.NewReceiptHandler(svcs.Receipts)

	authMw := middleware.AuthRequired(&cfg.JWT)
	serviceMw := middleware.RequireRole(middleware.RoleService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "ws_clients": hub.ClientCount()})
	})

	api := r.Group("/api/v1")
	{
		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/account", accountHandler.Status)
			me.GET("/transactions", accountHandler.Transactions)
			me.GET("/notifications", accountHandler.Notifications)
			me.PATCH("/notifications/:id/seen", accountHandler.MarkNotificationSeen)
			me.GET("/challenges", challengeHandler.Mine)
			me.POST("/challenges/:id/claim", challengeHandler.Claim)
			me.GET("/spins", spinHandler.History)
			me.GET("/redemptions", rewardHandler.MyRedemptions)
			me.POST("/redemptions/:redemption_id/cancel", rewardHandler.Cancel)
		}

		api.GET("/levels", accountHandler.Levels)
		api.GET("/leaderboard", accountHandler.Leaderboard)
		api.GET("/challenges", challengeHandler.Open)
		api.GET("/rewards", rewardHandler.Catalog)
		api.GET("/wheels", spinHandler.Wheels)
		api.POST("/wheels/:id/spin", authMw, spinHandler.Spin)
		api.POST("/rewards/:id/redeem", authMw, rewardHandler.Redeem)

		// Collaborator surface: receipt credits, fulfillment, corrections.
		internal := api.Group("/internal")
		internal.Use(authMw, serviceMw)
		{
			internal.POST("/receipts/credit", receiptHandler.Credit)
			internal.POST("/challenges/advance", challengeHandler.Advance)
			internal.PATCH("/redemptions/:redemption_id/status", rewardHandler.Transition)
			internal.POST("/points/adjust", accountHandler.Adjust)
			internal.GET("/accounts/:user_id/audit", accountHandler.Audit)
		}
	}

	r.GET("/ws/events", handler.UpgradeEventsWS(&cfg.JWT, hub))

	return r
}
