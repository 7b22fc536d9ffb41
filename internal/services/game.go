package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"micro-casino-engine/internal/config"
	"micro-casino-engine/internal/models"
)

// GameEngine is the single entry point the transport layer talks to. It owns
// the ledger, the round registry and one engine per game family.
type GameEngine struct {
	ledger    *Ledger
	registry  *RoundRegistry
	slots     *SlotEngine
	roulette  *RouletteEngine
	dice      *DiceEngine
	blackjack *BlackjackEngine
	crash     *CrashEngine
	lottery   *LotteryEngine
	sports    *SportsBook
	stats     *StatsService
	logger    *zap.Logger
}

type EngineDeps struct {
	Store       Store
	Random      RandomSource
	Clock       Clock
	Broadcaster Broadcaster
	Metrics     *Metrics
	Logger      *zap.Logger
}

func NewGameEngine(cfg *config.Config, deps EngineDeps) *GameEngine {
	if deps.Clock == nil {
		deps.Clock = SystemClock
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	limits := BetLimits{Min: cfg.MinBet, Max: cfg.MaxBet}
	ledger := NewLedger(deps.Store, cfg.StartingBalance, deps.Clock, deps.Metrics, deps.Logger)
	registry := NewRoundRegistry(cfg.RoundTTL)

	sports := NewSportsBook(ledger, deps.Clock, limits)
	sports.SeedEvents()

	return &GameEngine{
		ledger:    ledger,
		registry:  registry,
		slots:     NewSlotEngine(ledger, deps.Random, limits),
		roulette:  NewRouletteEngine(ledger, deps.Random, limits),
		dice:      NewDiceEngine(ledger, deps.Random, limits),
		blackjack: NewBlackjackEngine(ledger, deps.Random, deps.Clock, registry, limits),
		crash: NewCrashEngine(ledger, deps.Random, deps.Clock, registry, CrashConfig{
			BettingDuration: cfg.CrashBettingDuration,
			TickInterval:    cfg.CrashTickInterval,
			Cooldown:        cfg.CrashCooldown,
			GrowthRate:      cfg.CrashGrowthRate,
			Limits:          limits,
		}, deps.Broadcaster, deps.Logger.Named("crash")),
		lottery: NewLotteryEngine(ledger, deps.Random, deps.Clock, LotteryConfig{
			TicketPrice:  cfg.LotteryTicketPrice,
			JackpotShare: cfg.LotteryJackpotShare,
			SeedJackpot:  cfg.LotterySeedJackpot,
			DrawInterval: cfg.LotteryDrawInterval,
		}, deps.Logger.Named("lottery")),
		sports: sports,
		stats:  NewStatsService(deps.Store, ledger, deps.Clock),
		logger: deps.Logger,
	}
}

func (ge *GameEngine) Ledger() *Ledger {
	return ge.ledger
}

// RunCrash drives the shared crash round until ctx is cancelled.
func (ge *GameEngine) RunCrash(ctx context.Context) error {
	return ge.crash.Run(ctx)
}

// RunCleanup purges expired rounds from the registry on every tick.
func (ge *GameEngine) RunCleanup(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ge.CleanupStaleGames()
		case <-ctx.Done():
			return nil
		}
	}
}

func (ge *GameEngine) CleanupStaleGames() {
	before := ge.registry.Len()
	ge.registry.DeleteExpired()
	if removed := before - ge.registry.Len(); removed > 0 {
		ge.logger.Info("cleaned up stale rounds", zap.Int("removed", removed))
	}
}

func (ge *GameEngine) SpinSlots(ctx context.Context, userID int64, bet decimal.Decimal, machine string) (*models.SlotResult, error) {
	return ge.slots.Spin(ctx, userID, bet, machine)
}

func (ge *GameEngine) SpinRoulette(ctx context.Context, userID int64, bets []models.RouletteBet) (*models.RouletteResult, error) {
	return ge.roulette.Spin(ctx, userID, bets)
}

func (ge *GameEngine) RollDice(ctx context.Context, userID int64, bet, target decimal.Decimal, prediction models.DicePrediction) (*models.DiceResult, error) {
	return ge.dice.Roll(ctx, userID, bet, target, prediction)
}

func (ge *GameEngine) StartBlackjack(ctx context.Context, userID int64, bet decimal.Decimal) (*models.BlackjackRound, error) {
	return ge.blackjack.Start(ctx, userID, bet)
}

func (ge *GameEngine) BlackjackAction(ctx context.Context, userID int64, roundID string, action models.BlackjackAction) (*models.BlackjackRound, error) {
	return ge.blackjack.Action(ctx, userID, roundID, action)
}

func (ge *GameEngine) GetBlackjackRound(userID int64, roundID string) (*models.BlackjackRound, error) {
	return ge.blackjack.Get(userID, roundID)
}

func (ge *GameEngine) CurrentCrashRound() models.CrashRound {
	return ge.crash.CurrentRound()
}

func (ge *GameEngine) PlaceCrashBet(ctx context.Context, userID int64, amount decimal.Decimal) (*models.CrashBet, error) {
	return ge.crash.PlaceBet(ctx, userID, amount)
}

func (ge *GameEngine) CashoutCrash(ctx context.Context, roundID string, userID int64) (*models.CrashBet, error) {
	return ge.crash.Cashout(ctx, roundID, userID)
}

func (ge *GameEngine) BuyLotteryTicket(ctx context.Context, userID int64, numbers []int) (*models.LotteryTicket, error) {
	return ge.lottery.BuyTicket(ctx, userID, numbers)
}

func (ge *GameEngine) CurrentLotteryDraw() models.LotteryDraw {
	return ge.lottery.CurrentDraw()
}

func (ge *GameEngine) LotteryTickets(userID int64) []models.LotteryTicket {
	return ge.lottery.Tickets(userID)
}

func (ge *GameEngine) SportEvents() []models.SportEvent {
	return ge.sports.Events()
}

func (ge *GameEngine) PlaceSportsBet(ctx context.Context, userID int64, eventID string, betType models.SportBetType, amount decimal.Decimal) (*models.SportBet, error) {
	return ge.sports.PlaceBet(ctx, userID, eventID, betType, amount)
}

func (ge *GameEngine) SportBets(userID int64) []models.SportBet {
	return ge.sports.Bets(userID)
}

func (ge *GameEngine) Leaderboard(ctx context.Context, period models.LeaderboardPeriod, limit int) ([]models.LeaderboardEntry, error) {
	return ge.stats.Leaderboard(ctx, period, limit)
}

func (ge *GameEngine) UserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	return ge.stats.UserStats(ctx, userID)
}
