package service

import (
	"inovocb/internal/domain"
	"inovocb/internal/models"
	"inovocb/internal/repository"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Notifier is the outbound notification boundary. The engine emits data
// records and events; delivery belongs to an external collaborator.
type Notifier interface {
	Notify(userID uint, eventType string, payload interface{})
}

// LevelUp describes a level transition for notification purposes.
type LevelUp struct {
	OldLevel *models.Level `json:"old_level"`
	NewLevel *models.Level `json:"new_level"`
}

// LevelService derives a user's loyalty level from lifetime points. Levels
// are monotonic: once reached, never revoked, even after point expiry.
type LevelService struct {
	db            *gorm.DB
	accounts      *repository.AccountRepository
	levels        *repository.LevelRepository
	notifications *repository.NotificationRepository
	notifier      Notifier
	retries       int
}

func NewLevelService(
	db *gorm.DB,
	accounts *repository.AccountRepository,
	levels *repository.LevelRepository,
	notifications *repository.NotificationRepository,
	notifier Notifier,
	retries int,
) *LevelService {
	return &LevelService{
		db:            db,
		accounts:      accounts,
		levels:        levels,
		notifications: notifications,
		notifier:      notifier,
		retries:       retries,
	}
}

// EvaluateLocked re-derives the level of an account already held under a row
// lock and, on a level-up, credits the new level's bonus spins once and
// writes the notification record. Runs inside the caller's transaction so a
// credit and its level-up commit or roll back together.
func (s *LevelService) EvaluateLocked(tx *gorm.DB, a *models.PointsAccount) (*LevelUp, error) {
	next, err := s.levels.HighestFor(tx, a.LifetimePoints)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, nil
	}

	a.LevelProgress = a.LifetimePoints - next.PointsRequired

	if a.CurrentLevelID != nil && *a.CurrentLevelID == next.ID {
		return nil, nil
	}
	// Once reached, a level is never taken away.
	if a.CurrentLevel != nil && next.Level < a.CurrentLevel.Level {
		return nil, nil
	}

	old := a.CurrentLevel
	a.CurrentLevelID = &next.ID
	a.CurrentLevel = next
	if next.DailyBonusSpins > 0 {
		a.SpinsAvailable += next.DailyBonusSpins
	}
	if err := s.accounts.UpdateLevel(tx, a); err != nil {
		return nil, err
	}

	n := &models.LevelUpNotification{UserID: a.UserID, NewLevelID: next.ID}
	if old != nil {
		n.OldLevelID = &old.ID
	}
	if err := s.notifications.Create(tx, n); err != nil {
		return nil, err
	}
	return &LevelUp{OldLevel: old, NewLevel: next}, nil
}

// Evaluate re-derives the level of an account as its own atomic operation.
func (s *LevelService) Evaluate(userID uint) (*LevelUp, error) {
	var up *LevelUp
	err := runWithRetry(s.retries, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			a, err := s.accounts.LockForUpdate(tx, userID)
			if err != nil {
				return err
			}
			up, err = s.EvaluateLocked(tx, a)
			if err != nil {
				return err
			}
			return s.accounts.UpdatePoints(tx, a)
		})
	})
	if err != nil {
		return nil, err
	}
	s.announce(userID, up)
	return up, nil
}

// announce pushes a committed level-up to the events socket.
func (s *LevelService) announce(userID uint, up *LevelUp) {
	if up == nil || s.notifier == nil {
		return
	}
	log.WithFields(log.Fields{"user_id": userID, "level": up.NewLevel.Level}).
		Info("[level] level up")
	s.notifier.Notify(userID, domain.EventLevelUp, up)
}

func (s *LevelService) List() ([]models.Level, error) {
	return s.levels.All()
}
