package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"micro-casino-engine/internal/models"
)

var (
	hundred       = decimal.NewFromInt(100)
	diceHouseEdge = decimal.RequireFromString("0.97")
	diceExactMult = decimal.NewFromInt(99)
)

type DiceEngine struct {
	ledger *Ledger
	rng    RandomSource
	limits BetLimits
}

func NewDiceEngine(ledger *Ledger, rng RandomSource, limits BetLimits) *DiceEngine {
	return &DiceEngine{ledger: ledger, rng: rng, limits: limits}
}

func (e *DiceEngine) Roll(ctx context.Context, userID int64, bet, target decimal.Decimal, prediction models.DicePrediction) (*models.DiceResult, error) {
	if err := e.limits.Check(bet); err != nil {
		return nil, err
	}
	exact, err := diceMultiplier(target, prediction)
	if err != nil {
		return nil, err
	}
	multiplier := exact.Round(2)

	roundID := models.GenerateRoundID(models.GameTypeDice)
	if _, err := e.ledger.Debit(ctx, userID, bet, Ref{Game: models.GameTypeDice, RoundID: roundID}); err != nil {
		return nil, err
	}

	// Two-decimal roll in [0, 100).
	rolled := decimal.NewFromInt(int64(e.rng.NextInt(0, 9999))).Div(hundred)

	won := diceWins(rolled, target, prediction)
	payout := decimal.Zero
	if won {
		payout = bet.Mul(exact).Mul(diceHouseEdge).Round(2)
	}

	user, err := e.ledger.Settle(ctx, userID, Settlement{
		Game:       models.GameTypeDice,
		RoundID:    roundID,
		Wagered:    bet,
		Payout:     payout,
		Multiplier: multiplier,
	})
	if err != nil {
		return nil, err
	}

	return &models.DiceResult{
		RoundID:    roundID,
		BetAmount:  bet,
		Target:     target,
		Prediction: prediction,
		Rolled:     rolled,
		Won:        won,
		Multiplier: multiplier,
		Payout:     payout,
		NewBalance: user.Balance,
	}, nil
}

// diceMultiplier returns the unrounded fair multiplier; only the final payout
// is rounded.
func diceMultiplier(target decimal.Decimal, prediction models.DicePrediction) (decimal.Decimal, error) {
	switch prediction {
	case models.DiceOver:
		if !target.IsPositive() || target.GreaterThanOrEqual(hundred) {
			return decimal.Zero, fmt.Errorf("%w: target must be between 0 and 100", ErrInvalidBet)
		}
		return hundred.Div(hundred.Sub(target)), nil
	case models.DiceUnder:
		if !target.IsPositive() || target.GreaterThanOrEqual(hundred) {
			return decimal.Zero, fmt.Errorf("%w: target must be between 0 and 100", ErrInvalidBet)
		}
		return hundred.Div(target), nil
	case models.DiceExact:
		if target.IsNegative() || target.GreaterThan(hundred) {
			return decimal.Zero, fmt.Errorf("%w: target must be between 0 and 100", ErrInvalidBet)
		}
		return diceExactMult, nil
	}
	return decimal.Zero, fmt.Errorf("%w: unknown prediction %q", ErrInvalidBet, prediction)
}

func diceWins(rolled, target decimal.Decimal, prediction models.DicePrediction) bool {
	switch prediction {
	case models.DiceOver:
		return rolled.GreaterThan(target)
	case models.DiceUnder:
		return rolled.LessThan(target)
	case models.DiceExact:
		return rolled.Sub(target).Abs().LessThan(decimal.NewFromInt(1))
	}
	return false
}
