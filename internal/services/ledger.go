package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"micro-casino-engine/internal/models"
)

// Ref ties a ledger movement to the game round that caused it.
type Ref struct {
	Game    models.GameType
	RoundID string
}

// Settlement closes out one bet: the payout (possibly zero) is credited and
// the player's lifetime statistics are updated. Stake, when positive, is
// debited in the same write, for stakes that are only due once the outcome
// is known.
type Settlement struct {
	Game       models.GameType
	RoundID    string
	Stake      decimal.Decimal
	Wagered    decimal.Decimal
	Payout     decimal.Decimal
	Multiplier decimal.Decimal
}

// Ledger owns every balance mutation. All mutations go through one mutex, so
// a debit can never interleave with another write to the same balance.
type Ledger struct {
	mu              sync.Mutex
	store           Store
	clock           Clock
	metrics         *Metrics
	logger          *zap.Logger
	startingBalance decimal.Decimal
}

func NewLedger(store Store, startingBalance decimal.Decimal, clock Clock, metrics *Metrics, logger *zap.Logger) *Ledger {
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		store:           store,
		clock:           clock,
		metrics:         metrics,
		logger:          logger,
		startingBalance: startingBalance,
	}
}

// GetOrCreate returns the user, provisioning them with the starting balance
// the first time they are referenced.
func (l *Ledger) GetOrCreate(ctx context.Context, userID int64) (*models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.loadOrCreate(ctx, userID)
}

// Register creates the user if needed and records their display name.
func (l *Ledger) Register(ctx context.Context, userID int64, username string) (*models.User, error) {
	return l.apply(ctx, userID, func(u *models.User) ([]*models.Transaction, error) {
		if username != "" {
			u.Username = username
		}
		return nil, nil
	})
}

func (l *Ledger) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	u, err := l.GetOrCreate(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return u.Balance, nil
}

// Debit removes a stake from the balance. On insufficient funds nothing is
// written and ErrInsufficientFunds is returned.
func (l *Ledger) Debit(ctx context.Context, userID int64, amount decimal.Decimal, ref Ref) (*models.User, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidBet)
	}

	return l.apply(ctx, userID, func(u *models.User) ([]*models.Transaction, error) {
		if u.Balance.LessThan(amount) {
			l.metrics.recordRejected("insufficient_funds")
			return nil, fmt.Errorf("%w: have %s, need %s", ErrInsufficientFunds, u.Balance.StringFixed(2), amount.StringFixed(2))
		}
		tx := l.move(u, models.TransactionTypeBet, amount, ref, fmt.Sprintf("Placed bet on %s", ref.Game))
		return []*models.Transaction{tx}, nil
	})
}

// Credit adds funds and returns the new balance.
func (l *Ledger) Credit(ctx context.Context, userID int64, amount decimal.Decimal, ref Ref) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", ErrInvalidBet)
	}

	u, err := l.apply(ctx, userID, func(u *models.User) ([]*models.Transaction, error) {
		tx := l.move(u, models.TransactionTypePayout, amount, ref, fmt.Sprintf("Won %s on %s", amount.StringFixed(2), ref.Game))
		return []*models.Transaction{tx}, nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return u.Balance, nil
}

// Settle credits the payout, if any, and updates the player's statistics in
// the same critical section. Whatever part of the wager is not in s.Stake
// must already have been debited.
func (l *Ledger) Settle(ctx context.Context, userID int64, s Settlement) (*models.User, error) {
	if s.Stake.IsNegative() || s.Wagered.IsNegative() || s.Payout.IsNegative() {
		return nil, fmt.Errorf("%w: negative settlement", ErrInvalidBet)
	}

	outcome := models.OutcomeFor(s.Wagered, s.Payout)
	u, err := l.apply(ctx, userID, func(u *models.User) ([]*models.Transaction, error) {
		var txs []*models.Transaction
		ref := Ref{Game: s.Game, RoundID: s.RoundID}
		if s.Stake.IsPositive() {
			if u.Balance.LessThan(s.Stake) {
				l.metrics.recordRejected("insufficient_funds")
				return nil, fmt.Errorf("%w: have %s, need %s", ErrInsufficientFunds, u.Balance.StringFixed(2), s.Stake.StringFixed(2))
			}
			txs = append(txs, l.move(u, models.TransactionTypeBet, s.Stake, ref, fmt.Sprintf("Placed bet on %s", s.Game)))
		}
		if s.Payout.IsPositive() {
			desc := fmt.Sprintf("Won %s on %s", s.Payout.StringFixed(2), s.Game)
			if !s.Multiplier.IsZero() {
				desc = fmt.Sprintf("Won %s on %s (%sx)", s.Payout.StringFixed(2), s.Game, s.Multiplier.StringFixed(2))
			}
			txs = append(txs, l.move(u, models.TransactionTypePayout, s.Payout, ref, desc))
			u.TotalWon = u.TotalWon.Add(s.Payout)
		} else {
			u.TotalLost = u.TotalLost.Add(s.Wagered)
		}

		u.TotalWagered = u.TotalWagered.Add(s.Wagered)
		u.GamesPlayed++
		u.LoyaltyPoints += models.LoyaltyPointsFor(s.Wagered)
		u.VIPLevel = models.VIPLevelFor(u.LoyaltyPoints)
		return txs, nil
	})
	if err != nil {
		return nil, err
	}

	record := &models.GameRecord{
		ID:         uuid.New().String(),
		UserID:     userID,
		GameType:   s.Game,
		RoundID:    s.RoundID,
		BetAmount:  s.Wagered,
		Payout:     s.Payout,
		Multiplier: s.Multiplier,
		Outcome:    outcome,
		CreatedAt:  l.clock.Now(),
	}
	if err := l.store.SaveGameRecord(ctx, record); err != nil {
		// The money has moved; history is best effort.
		l.logger.Warn("failed to save game record",
			zap.Int64("user_id", userID),
			zap.String("round_id", s.RoundID),
			zap.Error(err))
	}

	l.metrics.recordSettlement(s.Game, s.Wagered, s.Payout, outcome)
	return u, nil
}

// Deposit is the entry point for the external wallet service.
func (l *Ledger) Deposit(ctx context.Context, userID int64, amount decimal.Decimal) (*models.User, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidBet)
	}
	return l.apply(ctx, userID, func(u *models.User) ([]*models.Transaction, error) {
		tx := l.move(u, models.TransactionTypeDeposit, amount, Ref{}, "Deposit")
		return []*models.Transaction{tx}, nil
	})
}

func (l *Ledger) Withdraw(ctx context.Context, userID int64, amount decimal.Decimal) (*models.User, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidBet)
	}
	return l.apply(ctx, userID, func(u *models.User) ([]*models.Transaction, error) {
		if u.Balance.LessThan(amount) {
			return nil, fmt.Errorf("%w: have %s, need %s", ErrInsufficientFunds, u.Balance.StringFixed(2), amount.StringFixed(2))
		}
		tx := l.move(u, models.TransactionTypeWithdraw, amount, Ref{}, "Withdrawal")
		return []*models.Transaction{tx}, nil
	})
}

func (l *Ledger) Transactions(ctx context.Context, userID int64, limit int64) ([]*models.Transaction, error) {
	return l.store.GetUserTransactions(ctx, userID, limit)
}

func (l *Ledger) History(ctx context.Context, userID int64, limit int64) ([]*models.GameRecord, error) {
	return l.store.GetGameHistory(ctx, userID, limit)
}

// apply runs fn against a private copy of the user and persists the result,
// together with its transactions, only when fn succeeds.
func (l *Ledger) apply(ctx context.Context, userID int64, fn func(u *models.User) ([]*models.Transaction, error)) (*models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	u := current.Clone()
	txs, err := fn(u)
	if err != nil {
		return nil, err
	}
	if u.Balance.IsNegative() {
		return nil, fmt.Errorf("%w: balance would go negative", ErrInsufficientFunds)
	}

	u.UpdatedAt = l.clock.Now()
	if err := l.store.SaveUserWithTransactions(ctx, u, txs); err != nil {
		l.logger.Error("failed to commit ledger update",
			zap.Int64("user_id", userID),
			zap.Int("transactions", len(txs)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	if len(txs) > 0 {
		l.metrics.recordLedgerUpdate()
	}

	return u.Clone(), nil
}

func (l *Ledger) loadOrCreate(ctx context.Context, userID int64) (*models.User, error) {
	u, err := l.store.GetUser(ctx, userID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	now := l.clock.Now()
	u = &models.User{
		ID:        userID,
		Username:  fmt.Sprintf("player_%d", userID),
		Balance:   l.startingBalance,
		VIPLevel:  models.VIPBronze,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := l.store.SaveUser(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// move applies a signed balance change to u and returns the matching
// transaction record.
func (l *Ledger) move(u *models.User, txType models.TransactionType, amount decimal.Decimal, ref Ref, desc string) *models.Transaction {
	tx := &models.Transaction{
		ID:            models.GenerateTransactionID(),
		UserID:        u.ID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: u.Balance,
		GameType:      ref.Game,
		RoundID:       ref.RoundID,
		Description:   desc,
		CreatedAt:     l.clock.Now(),
	}
	u.Balance = u.Balance.Add(tx.Signed())
	tx.BalanceAfter = u.Balance
	return tx
}
