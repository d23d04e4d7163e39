package service

import (
	"fmt"
	"time"

	"inovocb/internal/domain"
	"inovocb/internal/models"
	"inovocb/internal/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LedgerService is the system of record for point balances. Every balance
// change is one immutable PointTransaction plus the derived running balance,
// written together in one DB transaction under the account's row lock.
type LedgerService struct {
	db       *gorm.DB
	accounts *repository.AccountRepository
	ledger   *repository.LedgerRepository
	levelSvc *LevelService
	notifier Notifier
	retries  int
}

func NewLedgerService(
	db *gorm.DB,
	accounts *repository.AccountRepository,
	ledger *repository.LedgerRepository,
	levelSvc *LevelService,
	notifier Notifier,
	retries int,
) *LedgerService {
	return &LedgerService{
		db:       db,
		accounts: accounts,
		ledger:   ledger,
		levelSvc: levelSvc,
		notifier: notifier,
		retries:  retries,
	}
}

// CreditLocked applies a credit to an account already held under a row lock
// and appends the ledger row. withMultiplier selects the earn path: the
// account's level multiplier applies (floored) and lifetime/daily counters
// move. Bonus credits (refunds) move the balance only — lifetime points
// count what was earned, not what was returned.
//
// Level evaluation runs inside the same transaction, so a credit and the
// level-up it causes are one atomic unit.
func (s *LedgerService) CreditLocked(tx *gorm.DB, a *models.PointsAccount, amount int, txType, source string, expiresAt *time.Time, withMultiplier bool) (*models.PointTransaction, *LevelUp, error) {
	if amount <= 0 {
		return nil, nil, domain.ErrInvalidAmount
	}
	if withMultiplier && a.CurrentLevel != nil && a.CurrentLevel.PointsMultiplier > 0 {
		amount = int(float64(amount) * a.CurrentLevel.PointsMultiplier)
	}

	a.PointsBalance += amount
	if txType == domain.TxTypeEarn || txType == domain.TxTypeAdjust {
		a.LifetimePoints += amount
		a.PointsEarnedToday += amount
	}

	var up *LevelUp
	var err error
	if txType == domain.TxTypeEarn || txType == domain.TxTypeAdjust {
		if up, err = s.levelSvc.EvaluateLocked(tx, a); err != nil {
			return nil, nil, err
		}
	}
	if err := s.accounts.UpdatePoints(tx, a); err != nil {
		return nil, nil, err
	}

	t := &models.PointTransaction{
		TransactionID: uuid.NewString(),
		AccountID:     a.ID,
		Amount:        amount,
		Type:          txType,
		Source:        source,
		BalanceAfter:  a.PointsBalance,
		ExpiresAt:     expiresAt,
	}
	if err := s.ledger.Append(tx, t); err != nil {
		return nil, nil, err
	}
	return t, up, nil
}

// DebitLocked applies a debit to a locked account. The balance never goes
// negative: a debit exceeding it fails as one unit, leaving no partial
// writes.
func (s *LedgerService) DebitLocked(tx *gorm.DB, a *models.PointsAccount, amount int, txType, source string) (*models.PointTransaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if amount > a.PointsBalance {
		return nil, domain.ErrInsufficientBalance
	}
	a.PointsBalance -= amount
	if err := s.accounts.UpdatePoints(tx, a); err != nil {
		return nil, err
	}
	t := &models.PointTransaction{
		TransactionID: uuid.NewString(),
		AccountID:     a.ID,
		Amount:        -amount,
		Type:          txType,
		Source:        source,
		BalanceAfter:  a.PointsBalance,
	}
	if err := s.ledger.Append(tx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Credit earns points for a user: level multiplier applied, lifetime and
// daily counters bumped, level re-evaluated, all as one atomic operation.
func (s *LedgerService) Credit(userID uint, amount int, source string, expiresAt *time.Time) (*models.PointTransaction, error) {
	if _, err := s.accounts.GetOrCreate(userID); err != nil {
		return nil, err
	}
	var t *models.PointTransaction
	var up *LevelUp
	err := runWithRetry(s.retries, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			a, err := s.accounts.LockForUpdate(tx, userID)
			if err != nil {
				return err
			}
			t, up, err = s.CreditLocked(tx, a, amount, domain.TxTypeEarn, source, expiresAt, true)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	s.levelSvc.announce(userID, up)
	return t, nil
}

// Bonus credits points without the level multiplier and without touching
// lifetime counters. Used for compensating refunds.
func (s *LedgerService) Bonus(userID uint, amount int, source string) (*models.PointTransaction, error) {
	var t *models.PointTransaction
	err := runWithRetry(s.retries, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			a, err := s.accounts.LockForUpdate(tx, userID)
			if err != nil {
				return err
			}
			t, _, err = s.CreditLocked(tx, a, amount, domain.TxTypeBonus, source, nil, false)
			return err
		})
	})
	return t, err
}

// Debit spends points. Two concurrent debits that together exceed the
// balance cannot both succeed: the row lock serializes them and the second
// sees the reduced balance.
func (s *LedgerService) Debit(userID uint, amount int, source string) (*models.PointTransaction, error) {
	var t *models.PointTransaction
	err := runWithRetry(s.retries, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			a, err := s.accounts.LockForUpdate(tx, userID)
			if err != nil {
				return err
			}
			t, err = s.DebitLocked(tx, a, amount, domain.TxTypeSpend, source)
			return err
		})
	})
	return t, err
}

// Adjust is the administrative correction path; sign picks the direction,
// invariants follow it.
func (s *LedgerService) Adjust(userID uint, signedAmount int, source string) (*models.PointTransaction, error) {
	if signedAmount == 0 {
		return nil, domain.ErrInvalidAmount
	}
	var t *models.PointTransaction
	var up *LevelUp
	err := runWithRetry(s.retries, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			a, err := s.accounts.LockForUpdate(tx, userID)
			if err != nil {
				return err
			}
			if signedAmount > 0 {
				t, up, err = s.CreditLocked(tx, a, signedAmount, domain.TxTypeAdjust, source, nil, false)
			} else {
				t, err = s.DebitLocked(tx, a, -signedAmount, domain.TxTypeAdjust, source)
			}
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	s.levelSvc.announce(userID, up)
	return t, nil
}

// expireLocked removes up to amount points from a locked account. Never
// fails on insufficient balance: the expired amount clamps to what remains.
// Expiry does not re-evaluate the level downward.
func (s *LedgerService) expireLocked(tx *gorm.DB, a *models.PointsAccount, amount int, source string) (int, error) {
	actual := amount
	if actual > a.PointsBalance {
		actual = a.PointsBalance
	}
	if actual <= 0 {
		return 0, nil
	}
	a.PointsBalance -= actual
	if err := s.accounts.UpdatePoints(tx, a); err != nil {
		return 0, err
	}
	t := &models.PointTransaction{
		TransactionID: uuid.NewString(),
		AccountID:     a.ID,
		Amount:        -actual,
		Type:          domain.TxTypeExpire,
		Source:        source,
		BalanceAfter:  a.PointsBalance,
	}
	if err := s.ledger.Append(tx, t); err != nil {
		return 0, err
	}
	return actual, nil
}

// Expire is the system-only expiry debit for one account.
func (s *LedgerService) Expire(userID uint, amount int, source string) (int, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	var actual int
	err := runWithRetry(s.retries, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			a, err := s.accounts.LockForUpdate(tx, userID)
			if err != nil {
				return err
			}
			actual, err = s.expireLocked(tx, a, amount, source)
			return err
		})
	})
	if err != nil {
		return 0, err
	}
	if actual < amount {
		log.WithFields(log.Fields{"user_id": userID, "scheduled": amount, "expired": actual}).
			Info("[ledger] expiry clamped to remaining balance")
	}
	return actual, nil
}

// SweepExpired consumes every credit whose expiry has passed: each one is a
// single atomic operation (clamp-debit plus sweep stamp), so a failure in
// one leaves the rest untouched.
func (s *LedgerService) SweepExpired(now time.Time, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 500
	}
	candidates, err := s.ledger.ExpiringBefore(now, batchSize)
	if err != nil {
		return 0, err
	}
	swept := 0
	for _, cand := range candidates {
		c := cand
		err := runWithRetry(s.retries, func() error {
			return s.db.Transaction(func(tx *gorm.DB) error {
				a, err := s.accounts.LockByID(tx, c.AccountID)
				if err != nil {
					return err
				}
				source := fmt.Sprintf("%s_%s", domain.SourceExpiry, c.TransactionID)
				if _, err := s.expireLocked(tx, a, c.Amount, source); err != nil {
					return err
				}
				return s.ledger.MarkExpired(tx, c.ID, now)
			})
		})
		if err != nil {
			log.WithError(err).WithField("transaction_id", c.TransactionID).
				Error("[ledger] expiry sweep failed for credit")
			continue
		}
		swept++
	}
	return swept, nil
}

// Audit replays an account's ledger and checks it against the derived
// balance. An independent reconciliation check, callable at any time.
func (s *LedgerService) Audit(userID uint) (balance, replayed int, ok bool, err error) {
	a, err := s.accounts.GetByUserID(userID)
	if err != nil {
		return 0, 0, false, err
	}
	replayed, err = s.ledger.SumByAccount(a.ID)
	if err != nil {
		return 0, 0, false, err
	}
	return a.PointsBalance, replayed, a.PointsBalance == replayed, nil
}

// History returns a page of the account's transaction log, newest first.
func (s *LedgerService) History(userID uint, page, pageSize int) ([]models.PointTransaction, int64, error) {
	a, err := s.accounts.GetByUserID(userID)
	if err != nil {
		return nil, 0, err
	}
	return s.ledger.ListByAccount(a.ID, page, pageSize)
}
