package service

import (
	"time"

	"inovocb/internal/models"
	"inovocb/internal/repository"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CounterService owns the per-day activity counters and the consecutive-day
// streak. Rollover and streak updates are idempotent for same-day repeats.
type CounterService struct {
	db       *gorm.DB
	accounts *repository.AccountRepository
	spins    *repository.SpinRepository
	retries  int
}

func NewCounterService(db *gorm.DB, accounts *repository.AccountRepository, spins *repository.SpinRepository, retries int) *CounterService {
	return &CounterService{db: db, accounts: accounts, spins: spins, retries: retries}
}

// dateOf truncates to a calendar date in the time's location.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// sameDate reports whether a stored date matches the given day.
func sameDate(stored *time.Time, day time.Time) bool {
	if stored == nil {
		return false
	}
	y1, m1, d1 := stored.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// daysBetween returns whole calendar days from a to b. The dates are
// re-anchored in UTC first: a 23-hour spring-forward day in the configured
// timezone still counts as one full day, not zero.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// applyRollover resets the daily counters when the stored reset date is not
// today, and grants the daily free spin at most once per day. Pure; returns
// whether anything changed.
func applyRollover(a *models.PointsAccount, today time.Time) bool {
	changed := false
	if !sameDate(a.LastResetDate, today) {
		day := dateOf(today)
		a.ReceiptsToday = 0
		a.PointsEarnedToday = 0
		a.LastResetDate = &day
		changed = true
	}
	if !sameDate(a.LastDailySpin, today) {
		day := dateOf(today)
		a.SpinsAvailable++
		a.LastDailySpin = &day
		changed = true
	}
	return changed
}

// applyStreak updates the consecutive-day streak for activity on today.
// Same-day repeats are no-ops; a one-day gap extends the streak; anything
// longer restarts it at 1.
func applyStreak(a *models.PointsAccount, today time.Time) bool {
	if sameDate(a.LastActivityDate, today) {
		return false
	}
	if a.LastActivityDate == nil {
		a.StreakDays = 1
	} else if daysBetween(*a.LastActivityDate, today) == 1 {
		a.StreakDays++
	} else {
		a.StreakDays = 1
	}
	if a.StreakDays > a.LongestStreak {
		a.LongestStreak = a.StreakDays
	}
	day := dateOf(today)
	a.LastActivityDate = &day
	return true
}

// RolloverIfNeeded resets the account's daily counters for today. Calling it
// twice on the same day is a no-op the second time.
func (s *CounterService) RolloverIfNeeded(userID uint, today time.Time) error {
	return runWithRetry(s.retries, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			a, err := s.accounts.LockForUpdate(tx, userID)
			if err != nil {
				return err
			}
			if !applyRollover(a, today) {
				return nil
			}
			return s.accounts.UpdateCounters(tx, a)
		})
	})
}

// RunDailyRollover rolls every stale account over to today and resets the
// wheels' daily prize counters. Invoked by the scheduler; each account is
// one atomic operation so one failure never blocks the rest.
func (s *CounterService) RunDailyRollover(today time.Time) error {
	ids, err := s.accounts.IDsNeedingRollover(dateOf(today).Format("2006-01-02"))
	if err != nil {
		return err
	}
	failed := 0
	for _, userID := range ids {
		if err := s.RolloverIfNeeded(userID, today); err != nil {
			log.WithError(err).WithField("user_id", userID).Error("[counter] rollover failed")
			failed++
		}
	}
	if err := s.spins.ResetDailyCounters(); err != nil {
		log.WithError(err).Error("[counter] prize daily counter reset failed")
	}
	log.WithFields(log.Fields{"accounts": len(ids), "failed": failed}).
		Info("[counter] daily rollover complete")
	return nil
}
