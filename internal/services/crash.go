package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"micro-casino-engine/internal/models"
)

type CrashConfig struct {
	BettingDuration time.Duration
	TickInterval    time.Duration
	Cooldown        time.Duration
	// GrowthRate is g in m(t) = e^(g*t), t in seconds.
	GrowthRate float64
	Limits     BetLimits
}

// crashBet is resolved exactly once, either by a cashout or by the crash
// sweep, whichever flips resolved first.
type crashBet struct {
	resolved atomic.Bool
	bet      models.CrashBet
}

type crashRound struct {
	mu         sync.Mutex
	id         string
	status     models.CrashStatus
	crashPoint decimal.Decimal
	multiplier decimal.Decimal
	bets       map[int64]*crashBet
	order      []int64

	bettingEndsAt time.Time
	startedAt     time.Time
	crashedAt     time.Time
}

// unsettledLoss is a swept bet whose ledger write failed.
type unsettledLoss struct {
	userID     int64
	settlement Settlement
}

// CrashEngine runs one shared round at a time. Lock order is round, then
// ledger.
type CrashEngine struct {
	mu      sync.RWMutex
	current *crashRound

	// unsettled losses are retried at the start of every Step.
	unsettledMu sync.Mutex
	unsettled   []unsettledLoss

	ledger      *Ledger
	rng         RandomSource
	clock       Clock
	registry    *RoundRegistry
	broadcaster Broadcaster
	logger      *zap.Logger
	cfg         CrashConfig
}

func NewCrashEngine(ledger *Ledger, rng RandomSource, clock Clock, registry *RoundRegistry, cfg CrashConfig, broadcaster Broadcaster, logger *zap.Logger) *CrashEngine {
	if clock == nil {
		clock = SystemClock
	}
	if broadcaster == nil {
		broadcaster = noopBroadcaster{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 100 * time.Millisecond
	}

	e := &CrashEngine{
		ledger:      ledger,
		rng:         rng,
		clock:       clock,
		registry:    registry,
		broadcaster: broadcaster,
		logger:      logger,
		cfg:         cfg,
	}
	e.openRound()
	return e
}

// CrashPoint maps a uniform draw in [0, 1) to a crash multiplier with a 3%
// house edge, floored to two decimals.
func CrashPoint(r float64) decimal.Decimal {
	v := 0.99 / (1 - 0.97*r)
	if v < 1 {
		v = 1
	}
	return decimal.NewFromInt(int64(math.Floor(v * 100))).Shift(-2)
}

// MultiplierAt is the live multiplier after elapsed running time.
func (e *CrashEngine) MultiplierAt(elapsed time.Duration) decimal.Decimal {
	if elapsed <= 0 {
		return decimal.NewFromInt(1)
	}
	v := math.Exp(e.cfg.GrowthRate * elapsed.Seconds())
	return decimal.NewFromInt(int64(math.Floor(v * 100))).Shift(-2)
}

// Run advances the round on every tick until ctx is cancelled.
func (e *CrashEngine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.Step(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

// Step applies whatever phase transition the clock calls for.
func (e *CrashEngine) Step(ctx context.Context) {
	e.retryUnsettled(ctx)

	r := e.currentRound()
	now := e.clock.Now()

	r.mu.Lock()
	switch r.status {
	case models.CrashBetting:
		if now.Before(r.bettingEndsAt) {
			r.mu.Unlock()
			return
		}
		r.status = models.CrashRunning
		r.startedAt = now
		bets := len(r.order)
		r.mu.Unlock()
		e.logger.Debug("crash round running", zap.String("round_id", r.id), zap.Int("bets", bets))

	case models.CrashRunning:
		m := e.MultiplierAt(now.Sub(r.startedAt))
		if m.LessThan(r.crashPoint) {
			r.multiplier = m
			r.mu.Unlock()
			e.broadcaster.BroadcastGameUpdate(r.id, m)
			return
		}
		e.crashLocked(ctx, r, now)
		r.mu.Unlock()
		e.broadcaster.BroadcastGameCrash(r.id, r.crashPoint)

	case models.CrashCrashed:
		ready := !now.Before(r.crashedAt.Add(e.cfg.Cooldown))
		r.mu.Unlock()
		if ready {
			e.openRound()
		}

	default:
		r.mu.Unlock()
	}
}

// CurrentRound returns a snapshot of the live round. The crash point stays
// hidden until the round has crashed.
func (e *CrashEngine) CurrentRound() models.CrashRound {
	r := e.currentRound()
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.snapshot()
	if r.status == models.CrashRunning {
		snap.Multiplier = e.MultiplierAt(e.clock.Now().Sub(r.startedAt))
		if !snap.Multiplier.LessThan(r.crashPoint) {
			snap.Multiplier = r.multiplier
		}
	}
	return snap
}

func (e *CrashEngine) PlaceBet(ctx context.Context, userID int64, amount decimal.Decimal) (*models.CrashBet, error) {
	if err := e.cfg.Limits.Check(amount); err != nil {
		return nil, err
	}

	r := e.currentRound()
	r.mu.Lock()
	defer r.mu.Unlock()

	now := e.clock.Now()
	if r.status != models.CrashBetting || !now.Before(r.bettingEndsAt) {
		return nil, fmt.Errorf("%w: round %s is %s", ErrBettingClosed, r.id, r.status)
	}
	if _, ok := r.bets[userID]; ok {
		return nil, fmt.Errorf("%w: already in round %s", ErrInvalidBet, r.id)
	}

	if _, err := e.ledger.Debit(ctx, userID, amount, Ref{Game: models.GameTypeCrash, RoundID: r.id}); err != nil {
		return nil, err
	}

	b := &crashBet{bet: models.CrashBet{
		RoundID:   r.id,
		UserID:    userID,
		BetAmount: amount,
		PlacedAt:  now,
	}}
	r.bets[userID] = b
	r.order = append(r.order, userID)

	out := b.bet
	return &out, nil
}

// Cashout locks in the live multiplier for the user's bet. It loses to the
// crash sweep and to any earlier cashout of the same bet.
func (e *CrashEngine) Cashout(ctx context.Context, roundID string, userID int64) (*models.CrashBet, error) {
	r, err := lookupRound[*crashRound](e.registry, roundID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bets[userID]
	if !ok {
		return nil, fmt.Errorf("%w: no bet in round %s", ErrInvalidBet, roundID)
	}
	if b.resolved.Load() {
		return nil, resolvedErr(b, roundID)
	}

	switch r.status {
	case models.CrashBetting:
		return nil, fmt.Errorf("%w: round %s has not started", ErrInvalidRoundState, roundID)
	case models.CrashCrashed:
		return nil, fmt.Errorf("%w: round %s crashed at %s", ErrTooLate, roundID, r.crashPoint.StringFixed(2))
	}

	m := e.MultiplierAt(e.clock.Now().Sub(r.startedAt))
	if !m.LessThan(r.crashPoint) {
		return nil, fmt.Errorf("%w: round %s crashed at %s", ErrTooLate, roundID, r.crashPoint.StringFixed(2))
	}

	if !b.resolved.CompareAndSwap(false, true) {
		return nil, resolvedErr(b, roundID)
	}

	win := models.CalculatePayout(b.bet.BetAmount, m)
	if _, err := e.ledger.Settle(ctx, userID, Settlement{
		Game:       models.GameTypeCrash,
		RoundID:    roundID,
		Wagered:    b.bet.BetAmount,
		Payout:     win,
		Multiplier: m,
	}); err != nil {
		b.resolved.Store(false)
		return nil, err
	}

	b.bet.CashedOutAt = decimal.NewNullDecimal(m)
	b.bet.WinAmount = decimal.NewNullDecimal(win)
	e.ledger.metrics.recordCashout()

	out := b.bet
	e.broadcaster.BroadcastCashout(out)
	return &out, nil
}

func resolvedErr(b *crashBet, roundID string) error {
	if b.bet.CashedOutAt.Valid {
		return fmt.Errorf("%w: cashed out at %s", ErrAlreadyCashedOut, b.bet.CashedOutAt.Decimal.StringFixed(2))
	}
	return fmt.Errorf("%w: round %s already crashed", ErrTooLate, roundID)
}

// crashLocked ends the round and settles every unresolved bet as a loss.
// The caller holds r.mu.
func (e *CrashEngine) crashLocked(ctx context.Context, r *crashRound, now time.Time) {
	r.status = models.CrashCrashed
	r.multiplier = r.crashPoint
	r.crashedAt = now

	lost := 0
	for _, userID := range r.order {
		b := r.bets[userID]
		if !b.resolved.CompareAndSwap(false, true) {
			continue
		}
		lost++
		s := Settlement{
			Game:    models.GameTypeCrash,
			RoundID: r.id,
			Wagered: b.bet.BetAmount,
			Payout:  decimal.Zero,
		}
		if _, err := e.ledger.Settle(ctx, userID, s); err != nil {
			e.logger.Error("failed to settle crashed bet, will retry",
				zap.String("round_id", r.id),
				zap.Int64("user_id", userID),
				zap.Error(err))
			e.deferLoss(unsettledLoss{userID: userID, settlement: s})
		}
	}

	e.ledger.metrics.recordCrash(r.crashPoint)
	e.registry.Put(r.id, r)
	e.logger.Info("crash round crashed",
		zap.String("round_id", r.id),
		zap.String("crash_point", r.crashPoint.StringFixed(2)),
		zap.Int("bets", len(r.order)),
		zap.Int("lost", lost))
}

func (e *CrashEngine) deferLoss(loss unsettledLoss) {
	e.unsettledMu.Lock()
	e.unsettled = append(e.unsettled, loss)
	e.unsettledMu.Unlock()
}

// retryUnsettled settles losses left over from earlier sweeps. The stake was
// already debited, so only the statistics and the game record are missing.
func (e *CrashEngine) retryUnsettled(ctx context.Context) {
	e.unsettledMu.Lock()
	pending := e.unsettled
	e.unsettled = nil
	e.unsettledMu.Unlock()

	for _, loss := range pending {
		if _, err := e.ledger.Settle(ctx, loss.userID, loss.settlement); err != nil {
			e.logger.Warn("retry of crashed bet settlement failed",
				zap.String("round_id", loss.settlement.RoundID),
				zap.Int64("user_id", loss.userID),
				zap.Error(err))
			e.deferLoss(loss)
		}
	}
}

// Unsettled reports how many swept losses still await a ledger write.
func (e *CrashEngine) Unsettled() int {
	e.unsettledMu.Lock()
	defer e.unsettledMu.Unlock()
	return len(e.unsettled)
}

func (e *CrashEngine) openRound() {
	now := e.clock.Now()
	r := &crashRound{
		id:            models.GenerateRoundID(models.GameTypeCrash),
		status:        models.CrashBetting,
		crashPoint:    CrashPoint(e.rng.NextUniform()),
		multiplier:    decimal.NewFromInt(1),
		bets:          make(map[int64]*crashBet),
		bettingEndsAt: now.Add(e.cfg.BettingDuration),
	}
	e.registry.Put(r.id, r)

	e.mu.Lock()
	e.current = r
	e.mu.Unlock()

	e.logger.Info("crash round opened",
		zap.String("round_id", r.id),
		zap.Time("betting_ends_at", r.bettingEndsAt))

	r.mu.Lock()
	snap := r.snapshot()
	r.mu.Unlock()
	e.broadcaster.BroadcastRoundStart(snap)
}

func (e *CrashEngine) currentRound() *crashRound {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// snapshot copies the round for callers. The caller holds r.mu.
func (r *crashRound) snapshot() models.CrashRound {
	snap := models.CrashRound{
		ID:            r.id,
		Status:        r.status,
		Multiplier:    r.multiplier,
		Bets:          make([]models.CrashBet, 0, len(r.order)),
		BettingEndsAt: r.bettingEndsAt,
		StartedAt:     r.startedAt,
		CrashedAt:     r.crashedAt,
	}
	if r.status == models.CrashCrashed {
		snap.CrashPoint = r.crashPoint
	}
	for _, userID := range r.order {
		snap.Bets = append(snap.Bets, r.bets[userID].bet)
	}
	return snap
}
