package service

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"inovocb/internal/domain"
	"inovocb/internal/models"
	"inovocb/internal/repository"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SpinService draws a weighted-random prize from a wheel's prize table and
// settles it through the ledger.
type SpinService struct {
	db       *gorm.DB
	accounts *repository.AccountRepository
	spins    *repository.SpinRepository
	ledger   *LedgerService
	levelSvc *LevelService
	notifier Notifier
	retries  int

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSpinService(
	db *gorm.DB,
	accounts *repository.AccountRepository,
	spins *repository.SpinRepository,
	ledger *LedgerService,
	levelSvc *LevelService,
	notifier Notifier,
	retries int,
) *SpinService {
	return &SpinService{
		db:       db,
		accounts: accounts,
		spins:    spins,
		ledger:   ledger,
		levelSvc: levelSvc,
		notifier: notifier,
		retries:  retries,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// roll returns a uniform value in [0, 1).
func (s *SpinService) roll() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// eligiblePrizes filters a wheel's prize list down to the draw set: active
// prizes whose daily and total caps are not exhausted. Capped prizes do not
// consume probability mass.
func eligiblePrizes(prizes []models.SpinPrize) []models.SpinPrize {
	out := make([]models.SpinPrize, 0, len(prizes))
	for _, p := range prizes {
		if !p.IsActive || p.Probability <= 0 {
			continue
		}
		if p.DailyLimit > 0 && p.TimesWonToday >= p.DailyLimit {
			continue
		}
		if p.TotalLimit > 0 && p.TimesWonTotal >= p.TotalLimit {
			continue
		}
		out = append(out, p)
	}
	return out
}

// pickPrize maps a uniform roll in [0, 1) onto the eligible prize bands,
// walking the ordered list and accumulating probability. Returns nil when
// the eligible mass is zero.
func pickPrize(eligible []models.SpinPrize, roll float64) *models.SpinPrize {
	var total float64
	for _, p := range eligible {
		total += p.Probability
	}
	if total <= 0 {
		return nil
	}
	target := roll * total
	var acc float64
	for i := range eligible {
		acc += eligible[i].Probability
		if target < acc {
			return &eligible[i]
		}
	}
	// Floating point can leave target a hair past the last band.
	return &eligible[len(eligible)-1]
}

// Spin runs one draw: consume exactly one of points-cost or spin credit,
// draw over the eligible prizes, settle the prize, and always record the
// outcome — including "nothing" — for auditability. Everything happens in
// one transaction: a failed draw refunds nothing because it consumed
// nothing.
func (s *SpinService) Spin(userID, wheelID uint) (*models.SpinHistory, error) {
	var history *models.SpinHistory
	var up *LevelUp
	err := runWithRetry(s.retries, func() error {
		history, up = nil, nil
		return s.db.Transaction(func(tx *gorm.DB) error {
			wheel, err := s.spins.GetWheel(tx, wheelID)
			if err != nil {
				return err
			}
			if !wheel.IsActive {
				return fmt.Errorf("%w: wheel is not active", domain.ErrNotEligible)
			}

			a, err := s.accounts.LockForUpdate(tx, userID)
			if err != nil {
				return err
			}

			source := fmt.Sprintf("%s_%d", domain.SourceSpin, wheelID)
			pointsSpent := 0
			if wheel.PointsCost > 0 {
				if _, err := s.ledger.DebitLocked(tx, a, wheel.PointsCost, domain.TxTypeSpend, source); err != nil {
					return err
				}
				pointsSpent = wheel.PointsCost
			} else {
				if a.SpinsAvailable <= 0 {
					return fmt.Errorf("%w: no spins available", domain.ErrNotEligible)
				}
				a.SpinsAvailable--
				a.TotalSpinsUsed++
				if err := s.accounts.UpdateSpins(tx, a); err != nil {
					return err
				}
			}

			prizes, err := s.spins.LockPrizes(tx, wheelID)
			if err != nil {
				return err
			}
			eligible := eligiblePrizes(prizes)
			prize := pickPrize(eligible, s.roll())
			if prize == nil {
				return domain.ErrNoPrizesAvailable
			}
			if err := s.spins.IncrementWin(tx, prize.ID); err != nil {
				return err
			}

			switch prize.PrizeType {
			case domain.PrizePoints, domain.PrizeCashback:
				if _, up, err = s.ledger.CreditLocked(tx, a, int(prize.PrizeValue), domain.TxTypeEarn, source, nil, true); err != nil {
					return err
				}
			case domain.PrizeFreeSpin:
				a.SpinsAvailable += int(prize.PrizeValue)
				if err := s.accounts.UpdateSpins(tx, a); err != nil {
					return err
				}
			case domain.PrizeMultiplier, domain.PrizeNothing:
				// Recorded only; any effect is applied by the caller.
			}

			history = &models.SpinHistory{
				UserID:      userID,
				WheelID:     wheelID,
				PrizeID:     &prize.ID,
				PointsSpent: pointsSpent,
				PrizeValue:  prize.PrizeValue,
			}
			p := *prize
			history.Prize = &p
			return s.spins.RecordHistory(tx, history)
		})
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"user_id": userID, "wheel_id": wheelID, "prize": history.Prize.Name}).
		Info("[spin] prize drawn")
	if s.notifier != nil {
		s.notifier.Notify(userID, domain.EventSpinResult, history)
	}
	s.levelSvc.announce(userID, up)
	return history, nil
}

func (s *SpinService) ListWheels() ([]models.SpinWheel, error) {
	return s.spins.ListWheels()
}

func (s *SpinService) History(userID uint, page, pageSize int) ([]models.SpinHistory, int64, error) {
	return s.spins.HistoryByUser(userID, page, pageSize)
}
