package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"micro-casino-engine/internal/models"
)

const (
	SlotReels         = 5
	MegaJackpotSpins  = 10
	slotRareSymbolCnt = 2
)

// SlotMachines maps a theme to its symbol alphabet, ordered from most common
// to rarest. The last two symbols of each alphabet are its rare symbols.
var SlotMachines = map[string][]string{
	"classic":  {"cherry", "lemon", "orange", "plum", "bell", "bar", "seven", "diamond"},
	"fruit":    {"apple", "banana", "grape", "melon", "strawberry", "pineapple", "golden_apple"},
	"egyptian": {"ankh", "scarab", "eye", "sphinx", "pyramid", "cleopatra", "pharaoh"},
	"space":    {"moon", "star", "comet", "rocket", "planet", "alien", "black_hole"},
}

var (
	slotMultMega    = decimal.NewFromInt(1000)
	slotMultJackpot = decimal.NewFromInt(100)
	slotMultFour    = decimal.NewFromInt(25)
	slotMultThree   = decimal.NewFromInt(5)
	slotMultTwoPair = decimal.NewFromInt(2)
)

type SlotEngine struct {
	ledger *Ledger
	rng    RandomSource
	limits BetLimits
}

func NewSlotEngine(ledger *Ledger, rng RandomSource, limits BetLimits) *SlotEngine {
	return &SlotEngine{ledger: ledger, rng: rng, limits: limits}
}

func (e *SlotEngine) Spin(ctx context.Context, userID int64, bet decimal.Decimal, machine string) (*models.SlotResult, error) {
	symbols, ok := SlotMachines[machine]
	if !ok {
		return nil, fmt.Errorf("%w: unknown machine %q", ErrInvalidBet, machine)
	}
	if err := e.limits.Check(bet); err != nil {
		return nil, err
	}

	roundID := models.GenerateRoundID(models.GameTypeSlots)
	if _, err := e.ledger.Debit(ctx, userID, bet, Ref{Game: models.GameTypeSlots, RoundID: roundID}); err != nil {
		return nil, err
	}

	reels := make([]string, SlotReels)
	for i := range reels {
		reels[i] = symbols[e.rng.NextInt(0, len(symbols)-1)]
	}

	winType, multiplier := evaluateReels(reels, symbols)
	payout := models.CalculatePayout(bet, multiplier)

	user, err := e.ledger.Settle(ctx, userID, Settlement{
		Game:       models.GameTypeSlots,
		RoundID:    roundID,
		Wagered:    bet,
		Payout:     payout,
		Multiplier: multiplier,
	})
	if err != nil {
		return nil, err
	}

	result := &models.SlotResult{
		RoundID:    roundID,
		Machine:    machine,
		Reels:      reels,
		BetAmount:  bet,
		WinType:    winType,
		Multiplier: multiplier,
		Payout:     payout,
		NewBalance: user.Balance,
	}
	if winType == models.SlotWinMegaJackpot {
		result.FreeSpins = MegaJackpotSpins
	}
	return result, nil
}

// evaluateReels scores a spin by its largest group of equal symbols.
func evaluateReels(reels []string, symbols []string) (models.SlotWin, decimal.Decimal) {
	counts := make(map[string]int, len(reels))
	for _, s := range reels {
		counts[s]++
	}

	var top string
	best, pairs := 0, 0
	for s, n := range counts {
		if n > best {
			top, best = s, n
		}
		if n == 2 {
			pairs++
		}
	}

	switch {
	case best == 5 && isRareSymbol(top, symbols):
		return models.SlotWinMegaJackpot, slotMultMega
	case best == 5:
		return models.SlotWinJackpot, slotMultJackpot
	case best == 4:
		return models.SlotWinFourKind, slotMultFour
	case best == 3:
		return models.SlotWinThreeKind, slotMultThree
	case pairs == 2:
		return models.SlotWinTwoPair, slotMultTwoPair
	default:
		return models.SlotWinNone, decimal.Zero
	}
}

func isRareSymbol(symbol string, symbols []string) bool {
	for _, s := range symbols[len(symbols)-slotRareSymbolCnt:] {
		if s == symbol {
			return true
		}
	}
	return false
}
