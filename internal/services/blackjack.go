package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"micro-casino-engine/internal/models"
)

const dealerStandsOn = 17

var blackjackMultipliers = map[models.BlackjackStatus]decimal.Decimal{
	models.BlackjackNatural:    decimal.RequireFromString("2.5"),
	models.BlackjackDealerBust: decimal.NewFromInt(2),
	models.BlackjackPlayerWin:  decimal.NewFromInt(2),
	models.BlackjackPush:       decimal.NewFromInt(1),
	models.BlackjackPlayerBust: decimal.Zero,
	models.BlackjackDealerWin:  decimal.Zero,
}

// blackjackTable guards one round. Only its owner acts on it, but duplicate
// requests for the same round must not interleave. round is replaced only
// once an action's ledger write has succeeded.
type blackjackTable struct {
	mu     sync.Mutex
	userID int64
	round  *models.BlackjackRound
}

type BlackjackEngine struct {
	ledger   *Ledger
	shoe     *Shoe
	clock    Clock
	registry *RoundRegistry
	limits   BetLimits
}

func NewBlackjackEngine(ledger *Ledger, rng RandomSource, clock Clock, registry *RoundRegistry, limits BetLimits) *BlackjackEngine {
	if clock == nil {
		clock = SystemClock
	}
	return &BlackjackEngine{
		ledger:   ledger,
		shoe:     NewShoe(rng),
		clock:    clock,
		registry: registry,
		limits:   limits,
	}
}

// Start deals two cards each, player first, and takes the stake. A natural
// 21 is staked and settled in a single ledger write.
func (e *BlackjackEngine) Start(ctx context.Context, userID int64, bet decimal.Decimal) (*models.BlackjackRound, error) {
	if err := e.limits.Check(bet); err != nil {
		return nil, err
	}

	now := e.clock.Now()
	round := &models.BlackjackRound{
		ID:         models.GenerateRoundID(models.GameTypeBlackjack),
		UserID:     userID,
		BetAmount:  bet,
		PlayerHand: []models.Card{e.shoe.Draw(), e.shoe.Draw()},
		DealerHand: []models.Card{e.shoe.Draw(), e.shoe.Draw()},
		Status:     models.BlackjackDealt,
		WinAmount:  decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	round.PlayerScore = models.HandScore(round.PlayerHand)
	round.DealerScore = models.HandScore(round.DealerHand)

	if round.PlayerScore == 21 {
		if err := e.finish(ctx, round, models.BlackjackNatural, bet); err != nil {
			return nil, err
		}
	} else {
		user, err := e.ledger.Debit(ctx, userID, bet, Ref{Game: models.GameTypeBlackjack, RoundID: round.ID})
		if err != nil {
			return nil, err
		}
		round.CanHit = true
		round.CanDouble = !user.Balance.LessThan(bet)
		round.CanSplit = round.CanDouble && round.PlayerHand[0].Rank == round.PlayerHand[1].Rank
	}

	e.registry.Put(round.ID, &blackjackTable{userID: userID, round: round})
	return round.View(), nil
}

func (e *BlackjackEngine) Get(userID int64, roundID string) (*models.BlackjackRound, error) {
	table, err := e.table(userID, roundID)
	if err != nil {
		return nil, err
	}

	table.mu.Lock()
	defer table.mu.Unlock()
	return table.round.View(), nil
}

// Action applies one player action. The action works on a copy of the round;
// if any ledger write fails the stored round is left exactly as it was.
func (e *BlackjackEngine) Action(ctx context.Context, userID int64, roundID string, action models.BlackjackAction) (*models.BlackjackRound, error) {
	table, err := e.table(userID, roundID)
	if err != nil {
		return nil, err
	}

	table.mu.Lock()
	defer table.mu.Unlock()

	if table.round.Status.Terminal() {
		return nil, fmt.Errorf("%w: round %s is %s", ErrInvalidRoundState, roundID, table.round.Status)
	}

	next := table.round.Clone()
	switch action {
	case models.BlackjackHit:
		err = e.hit(ctx, next)
	case models.BlackjackStand:
		err = e.stand(ctx, next, decimal.Zero)
	case models.BlackjackDouble:
		err = e.double(ctx, next)
	default:
		return nil, fmt.Errorf("%w: unsupported action %q", ErrInvalidBet, action)
	}
	if err != nil {
		return nil, err
	}

	next.UpdatedAt = e.clock.Now()
	table.round = next
	return next.View(), nil
}

func (e *BlackjackEngine) table(userID int64, roundID string) (*blackjackTable, error) {
	table, err := lookupRound[*blackjackTable](e.registry, roundID)
	if err != nil {
		return nil, err
	}
	// Round ids are not secret; other users' rounds simply do not exist.
	if table.userID != userID {
		return nil, fmt.Errorf("%w: %s", ErrRoundNotFound, roundID)
	}
	return table, nil
}

func (e *BlackjackEngine) hit(ctx context.Context, round *models.BlackjackRound) error {
	if !round.CanHit {
		return fmt.Errorf("%w: hand is already on 21", ErrInvalidRoundState)
	}

	round.PlayerHand = append(round.PlayerHand, e.shoe.Draw())
	round.PlayerScore = models.HandScore(round.PlayerHand)
	round.CanDouble = false
	round.CanSplit = false

	switch {
	case round.PlayerScore > 21:
		return e.finish(ctx, round, models.BlackjackPlayerBust, decimal.Zero)
	case round.PlayerScore == 21:
		round.CanHit = false
	}
	return nil
}

// double takes the extra stake in the same ledger write that settles the
// round.
func (e *BlackjackEngine) double(ctx context.Context, round *models.BlackjackRound) error {
	if !round.CanDouble {
		return fmt.Errorf("%w: double is only allowed as the first action", ErrInvalidRoundState)
	}

	extra := round.BetAmount
	round.BetAmount = round.BetAmount.Add(extra)
	round.CanDouble = false
	round.CanSplit = false

	round.PlayerHand = append(round.PlayerHand, e.shoe.Draw())
	round.PlayerScore = models.HandScore(round.PlayerHand)
	if round.PlayerScore > 21 {
		return e.finish(ctx, round, models.BlackjackPlayerBust, extra)
	}
	return e.stand(ctx, round, extra)
}

// stand plays out the dealer: draw below 17, stand on 17 or more.
func (e *BlackjackEngine) stand(ctx context.Context, round *models.BlackjackRound, stake decimal.Decimal) error {
	for models.HandScore(round.DealerHand) < dealerStandsOn {
		round.DealerHand = append(round.DealerHand, e.shoe.Draw())
	}
	round.DealerScore = models.HandScore(round.DealerHand)

	var status models.BlackjackStatus
	switch {
	case round.DealerScore > 21:
		status = models.BlackjackDealerBust
	case round.PlayerScore > round.DealerScore:
		status = models.BlackjackPlayerWin
	case round.PlayerScore < round.DealerScore:
		status = models.BlackjackDealerWin
	default:
		status = models.BlackjackPush
	}
	return e.finish(ctx, round, status, stake)
}

// finish settles the round at the multiplier for status, taking any stake
// not yet debited, and closes it to further actions.
func (e *BlackjackEngine) finish(ctx context.Context, round *models.BlackjackRound, status models.BlackjackStatus, stake decimal.Decimal) error {
	multiplier := blackjackMultipliers[status]
	payout := models.CalculatePayout(round.BetAmount, multiplier)

	if _, err := e.ledger.Settle(ctx, round.UserID, Settlement{
		Game:       models.GameTypeBlackjack,
		RoundID:    round.ID,
		Stake:      stake,
		Wagered:    round.BetAmount,
		Payout:     payout,
		Multiplier: multiplier,
	}); err != nil {
		return err
	}

	round.Status = status
	round.WinAmount = payout
	round.CanHit = false
	round.CanDouble = false
	round.CanSplit = false
	return nil
}
