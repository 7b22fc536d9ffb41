package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"micro-casino-engine/internal/models"
)

type LotteryConfig struct {
	TicketPrice  decimal.Decimal
	JackpotShare decimal.Decimal
	SeedJackpot  decimal.Decimal
	DrawInterval time.Duration
}

// LotteryEngine sells tickets into the current draw and grows its jackpot.
// Draws are never resolved here; when a draw's time passes a new one opens
// and the jackpot carries over.
type LotteryEngine struct {
	mu      sync.Mutex
	ledger  *Ledger
	rng     RandomSource
	clock   Clock
	logger  *zap.Logger
	cfg     LotteryConfig
	current *models.LotteryDraw
	tickets map[int64][]*models.LotteryTicket
}

func NewLotteryEngine(ledger *Ledger, rng RandomSource, clock Clock, cfg LotteryConfig, logger *zap.Logger) *LotteryEngine {
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &LotteryEngine{
		ledger:  ledger,
		rng:     rng,
		clock:   clock,
		logger:  logger,
		cfg:     cfg,
		tickets: make(map[int64][]*models.LotteryTicket),
	}
	e.current = e.newDraw(cfg.SeedJackpot)
	return e
}

func (e *LotteryEngine) BuyTicket(ctx context.Context, userID int64, numbers []int) (*models.LotteryTicket, error) {
	if len(numbers) == 0 {
		numbers = pickDistinct(e.rng, models.LotteryPickCount, models.LotteryMinNumber, models.LotteryMaxNumber)
	} else if err := models.ValidateNumbers(numbers); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBet, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	draw := e.currentLocked()
	if _, err := e.ledger.Debit(ctx, userID, e.cfg.TicketPrice, Ref{Game: models.GameTypeLottery, RoundID: draw.ID}); err != nil {
		return nil, err
	}

	draw.Jackpot = draw.Jackpot.Add(e.cfg.JackpotShare)
	draw.TicketsSold++

	ticket := &models.LotteryTicket{
		ID:          uuid.New().String(),
		UserID:      userID,
		DrawID:      draw.ID,
		Numbers:     append([]int(nil), numbers...),
		Price:       e.cfg.TicketPrice,
		PurchasedAt: e.clock.Now(),
	}
	e.tickets[userID] = append(e.tickets[userID], ticket)
	return ticket, nil
}

func (e *LotteryEngine) CurrentDraw() models.LotteryDraw {
	e.mu.Lock()
	defer e.mu.Unlock()

	return *e.currentLocked()
}

// Tickets returns the user's tickets, newest first.
func (e *LotteryEngine) Tickets(userID int64) []models.LotteryTicket {
	e.mu.Lock()
	defer e.mu.Unlock()

	src := e.tickets[userID]
	out := make([]models.LotteryTicket, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, *src[i])
	}
	return out
}

func (e *LotteryEngine) currentLocked() *models.LotteryDraw {
	if e.clock.Now().Before(e.current.DrawTime) {
		return e.current
	}
	prev := e.current
	e.current = e.newDraw(prev.Jackpot)
	e.logger.Info("lottery draw rolled over",
		zap.String("closed_draw", prev.ID),
		zap.String("draw_id", e.current.ID),
		zap.Int64("tickets_sold", prev.TicketsSold),
		zap.String("jackpot", e.current.Jackpot.StringFixed(2)))
	return e.current
}

func (e *LotteryEngine) newDraw(jackpot decimal.Decimal) *models.LotteryDraw {
	return &models.LotteryDraw{
		ID:       models.GenerateRoundID(models.GameTypeLottery),
		Jackpot:  jackpot,
		DrawTime: e.clock.Now().Add(e.cfg.DrawInterval),
	}
}
