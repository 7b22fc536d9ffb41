package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"micro-casino-engine/internal/models"
)

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

var rouletteMultipliers = map[models.RouletteBetType]decimal.Decimal{
	models.RouletteNumber: decimal.NewFromInt(36),
	models.RouletteRed:    decimal.NewFromInt(2),
	models.RouletteBlack:  decimal.NewFromInt(2),
	models.RouletteOdd:    decimal.NewFromInt(2),
	models.RouletteEven:   decimal.NewFromInt(2),
	models.RouletteLow:    decimal.NewFromInt(2),
	models.RouletteHigh:   decimal.NewFromInt(2),
	models.RouletteDozen1: decimal.NewFromInt(3),
	models.RouletteDozen2: decimal.NewFromInt(3),
	models.RouletteDozen3: decimal.NewFromInt(3),
}

func RouletteColorOf(n int) models.RouletteColor {
	switch {
	case n == 0:
		return models.RouletteColorGreen
	case redNumbers[n]:
		return models.RouletteColorRed
	default:
		return models.RouletteColorBlack
	}
}

type RouletteEngine struct {
	ledger *Ledger
	rng    RandomSource
	limits BetLimits
}

func NewRouletteEngine(ledger *Ledger, rng RandomSource, limits BetLimits) *RouletteEngine {
	return &RouletteEngine{ledger: ledger, rng: rng, limits: limits}
}

// Spin settles every sub-bet against a single draw. The stakes are checked
// and debited once, before the wheel is spun.
func (e *RouletteEngine) Spin(ctx context.Context, userID int64, bets []models.RouletteBet) (*models.RouletteResult, error) {
	if len(bets) == 0 {
		return nil, fmt.Errorf("%w: no bets", ErrInvalidBet)
	}

	total := decimal.Zero
	for i, b := range bets {
		if err := validateRouletteBet(b); err != nil {
			return nil, fmt.Errorf("bet %d: %w", i, err)
		}
		if err := e.limits.Check(b.Amount); err != nil {
			return nil, fmt.Errorf("bet %d: %w", i, err)
		}
		total = total.Add(b.Amount)
	}

	roundID := models.GenerateRoundID(models.GameTypeRoulette)
	if _, err := e.ledger.Debit(ctx, userID, total, Ref{Game: models.GameTypeRoulette, RoundID: roundID}); err != nil {
		return nil, err
	}

	number := e.rng.NextInt(0, 36)
	color := RouletteColorOf(number)

	outcomes := make([]models.RouletteBetOutcome, len(bets))
	payout := decimal.Zero
	for i, b := range bets {
		o := models.RouletteBetOutcome{RouletteBet: b, Payout: decimal.Zero}
		if rouletteBetWins(b, number, color) {
			o.Won = true
			o.Payout = models.CalculatePayout(b.Amount, rouletteMultipliers[b.Type])
			payout = payout.Add(o.Payout)
		}
		outcomes[i] = o
	}

	user, err := e.ledger.Settle(ctx, userID, Settlement{
		Game:    models.GameTypeRoulette,
		RoundID: roundID,
		Wagered: total,
		Payout:  payout,
	})
	if err != nil {
		return nil, err
	}

	return &models.RouletteResult{
		RoundID:     roundID,
		Number:      number,
		Color:       color,
		Bets:        outcomes,
		TotalBet:    total,
		TotalPayout: payout,
		NewBalance:  user.Balance,
	}, nil
}

func validateRouletteBet(b models.RouletteBet) error {
	if _, ok := rouletteMultipliers[b.Type]; !ok {
		return fmt.Errorf("%w: unsupported bet type %q", ErrInvalidBet, b.Type)
	}
	if b.Type == models.RouletteNumber {
		n, err := strconv.Atoi(b.Value)
		if err != nil || n < 0 || n > 36 {
			return fmt.Errorf("%w: number must be 0-36, got %q", ErrInvalidBet, b.Value)
		}
	}
	return nil
}

func rouletteBetWins(b models.RouletteBet, n int, color models.RouletteColor) bool {
	switch b.Type {
	case models.RouletteNumber:
		v, _ := strconv.Atoi(b.Value)
		return v == n
	case models.RouletteRed:
		return color == models.RouletteColorRed
	case models.RouletteBlack:
		return color == models.RouletteColorBlack
	case models.RouletteOdd:
		return n != 0 && n%2 == 1
	case models.RouletteEven:
		return n != 0 && n%2 == 0
	case models.RouletteLow:
		return n >= 1 && n <= 18
	case models.RouletteHigh:
		return n >= 19 && n <= 36
	case models.RouletteDozen1:
		return n >= 1 && n <= 12
	case models.RouletteDozen2:
		return n >= 13 && n <= 24
	case models.RouletteDozen3:
		return n >= 25 && n <= 36
	}
	return false
}
