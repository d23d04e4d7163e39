package jobs

import (
	"time"

	"inovocb/config"
	"inovocb/internal/service"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const expiryBatchSize = 500

// Scheduler runs the engine's background work: the daily counter rollover
// and the hourly expiry sweep.
type Scheduler struct {
	cron     *cron.Cron
	ledger   *service.LedgerService
	counters *service.CounterService
}

func NewScheduler(cfg *config.JobsConfig, ledger *service.LedgerService, counters *service.CounterService) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.WithError(err).WithField("tz", cfg.Timezone).Warn("[cron] timezone load failed, using UTC")
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))
	s := &Scheduler{cron: c, ledger: ledger, counters: counters}

	if _, err := c.AddFunc(cfg.RolloverSpec, s.rollover); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc(cfg.ExpirySpec, s.sweepExpired); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) rollover() {
	log.Info("[cron] daily rollover")
	if err := s.counters.RunDailyRollover(time.Now()); err != nil {
		log.WithError(err).Error("[cron] rollover failed")
	}
}

func (s *Scheduler) sweepExpired() {
	n, err := s.ledger.SweepExpired(time.Now(), expiryBatchSize)
	if err != nil {
		log.WithError(err).Error("[cron] expiry sweep failed")
		return
	}
	if n > 0 {
		log.WithField("expired", n).Info("[cron] expiry sweep")
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info("[cron] scheduler started")
}

// Stop waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info("[cron] scheduler stopped")
}
