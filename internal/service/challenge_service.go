package service

import (
	"fmt"
	"time"

	"inovocb/internal/domain"
	"inovocb/internal/models"
	"inovocb/internal/repository"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ClaimResult is what a successful challenge claim granted. CashbackReward
// is returned for the external cashback collaborator to apply; the engine
// itself only settles points and spins.
type ClaimResult struct {
	PointsCredited int     `json:"points_credited"`
	BonusSpins     int     `json:"bonus_spins"`
	CashbackReward float64 `json:"cashback_reward"`
}

// ChallengeService tracks progress toward time-boxed challenges and pays
// out their rewards through the ledger.
type ChallengeService struct {
	db         *gorm.DB
	accounts   *repository.AccountRepository
	challenges *repository.ChallengeRepository
	ledger     *LedgerService
	levelSvc   *LevelService
	notifier   Notifier
	retries    int
}

func NewChallengeService(
	db *gorm.DB,
	accounts *repository.AccountRepository,
	challenges *repository.ChallengeRepository,
	ledger *LedgerService,
	levelSvc *LevelService,
	notifier Notifier,
	retries int,
) *ChallengeService {
	return &ChallengeService{
		db:         db,
		accounts:   accounts,
		challenges: challenges,
		ledger:     ledger,
		levelSvc:   levelSvc,
		notifier:   notifier,
		retries:    retries,
	}
}

// Advance increments a user's progress toward a challenge, enrolling them on
// first contact. Progress is monotonic: delta must be positive. Completion
// is stamped once, the first time the target is reached.
func (s *ChallengeService) Advance(userID, challengeID uint, delta int) (*models.UserChallenge, error) {
	if delta <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	return s.advance(userID, challengeID, func(progress int) int { return progress + delta })
}

// SetProgressAtLeast raises progress to at least value, never lowering it.
// Used for absolute targets such as streak length.
func (s *ChallengeService) SetProgressAtLeast(userID, challengeID uint, value int) (*models.UserChallenge, error) {
	if value <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	return s.advance(userID, challengeID, func(progress int) int {
		if value > progress {
			return value
		}
		return progress
	})
}

func (s *ChallengeService) advance(userID, challengeID uint, bump func(int) int) (*models.UserChallenge, error) {
	var uc *models.UserChallenge
	var completed bool
	err := runWithRetry(s.retries, func() error {
		completed = false
		return s.db.Transaction(func(tx *gorm.DB) error {
			c, err := s.challenges.GetByID(tx, challengeID)
			if err != nil {
				return err
			}
			now := time.Now()
			if !c.IsActive || !c.IsCurrent(now) {
				return fmt.Errorf("%w: challenge is not open", domain.ErrNotEligible)
			}
			uc, err = s.challenges.LockUserChallenge(tx, userID, challengeID)
			if err != nil {
				return err
			}
			next := bump(uc.Progress)
			if next == uc.Progress && uc.Completed {
				return nil
			}
			uc.Progress = next
			if uc.Progress >= c.TargetValue && !uc.Completed {
				uc.Completed = true
				uc.CompletedAt = &now
				completed = true
			}
			return s.challenges.UpdateProgress(tx, uc)
		})
	})
	if err != nil {
		return nil, err
	}
	if completed {
		log.WithFields(log.Fields{"user_id": userID, "challenge_id": challengeID}).
			Info("[challenge] completed")
		if s.notifier != nil {
			s.notifier.Notify(userID, domain.EventChallengeCompleted, uc)
		}
	}
	return uc, nil
}

// Claim pays out a completed challenge exactly once per (user, challenge):
// the reward_claimed flip, the point credit and the bonus spins are one
// atomic unit.
func (s *ChallengeService) Claim(userID, challengeID uint) (*ClaimResult, error) {
	var result *ClaimResult
	var up *LevelUp
	err := runWithRetry(s.retries, func() error {
		result, up = nil, nil
		return s.db.Transaction(func(tx *gorm.DB) error {
			c, err := s.challenges.GetByID(tx, challengeID)
			if err != nil {
				return err
			}
			uc, err := s.challenges.LockUserChallenge(tx, userID, challengeID)
			if err != nil {
				return err
			}
			if !uc.Completed {
				return domain.ErrNotCompleted
			}
			if uc.RewardClaimed {
				return domain.ErrAlreadyClaimed
			}
			// The guarded update is the authoritative exactly-once check;
			// the row lock above just keeps the failure mode clean.
			flipped, err := s.challenges.MarkClaimed(tx, uc.ID)
			if err != nil {
				return err
			}
			if !flipped {
				return domain.ErrAlreadyClaimed
			}

			a, err := s.accounts.LockForUpdate(tx, userID)
			if err != nil {
				return err
			}
			source := fmt.Sprintf("%s_%s", domain.SourceChallenge, c.Slug)
			credited := 0
			if c.PointsReward > 0 {
				t, lvlUp, err := s.ledger.CreditLocked(tx, a, c.PointsReward, domain.TxTypeEarn, source, nil, true)
				if err != nil {
					return err
				}
				credited = t.Amount
				up = lvlUp
			}
			if c.BonusSpins > 0 {
				a.SpinsAvailable += c.BonusSpins
				if err := s.accounts.UpdateSpins(tx, a); err != nil {
					return err
				}
			}
			result = &ClaimResult{
				PointsCredited: credited,
				BonusSpins:     c.BonusSpins,
				CashbackReward: c.CashbackReward,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	s.levelSvc.announce(userID, up)
	return result, nil
}

// AdvanceForEvent advances every open challenge matching a target type.
// Called by the receipt boundary after a credit lands; a failure on one
// challenge does not block the others.
func (s *ChallengeService) AdvanceForEvent(userID uint, targetType string, delta int, absolute bool) {
	challenges, err := s.challenges.ActiveAt(time.Now(), targetType)
	if err != nil {
		log.WithError(err).Error("[challenge] lookup for event failed")
		return
	}
	for _, c := range challenges {
		var err error
		if absolute {
			_, err = s.SetProgressAtLeast(userID, c.ID, delta)
		} else {
			_, err = s.Advance(userID, c.ID, delta)
		}
		if err != nil {
			log.WithError(err).WithFields(log.Fields{"user_id": userID, "challenge_id": c.ID}).
				Warn("[challenge] advance failed")
		}
	}
}

// ListForUser returns the user's challenge progress rows.
func (s *ChallengeService) ListForUser(userID uint) ([]models.UserChallenge, error) {
	return s.challenges.ListForUser(userID)
}

// Open returns the challenges currently accepting progress.
func (s *ChallengeService) Open(now time.Time) ([]models.Challenge, error) {
	return s.challenges.ActiveAt(now, "")
}
