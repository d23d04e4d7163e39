package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inovocb/config"
	"inovocb/internal/database"
	"inovocb/internal/jobs"
	"inovocb/internal/router"
	"inovocb/internal/ws"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Server.Env == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := database.SeedDefaults(db); err != nil {
		log.Fatalf("seed: %v", err)
	}

	hub := ws.NewHub()
	svcs := router.Build(cfg, db, hub)
	engine := router.Setup(cfg, db, hub, svcs)

	scheduler, err := jobs.NewScheduler(&cfg.Jobs, svcs.Ledger, svcs.Counters)
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Infof("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down...")
	scheduler.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown: %v", err)
	}
	log.Info("server stopped")
}
