package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomePush Outcome = "push"
)

// GameRecord is one settled bet as it appears in a player's history.
type GameRecord struct {
	ID         string          `json:"id"`
	UserID     int64           `json:"user_id"`
	GameType   GameType        `json:"game_type"`
	RoundID    string          `json:"round_id,omitempty"`
	BetAmount  decimal.Decimal `json:"bet_amount"`
	Payout     decimal.Decimal `json:"payout"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Outcome    Outcome         `json:"outcome"`
	CreatedAt  time.Time       `json:"created_at"`
}

func OutcomeFor(wagered, payout decimal.Decimal) Outcome {
	switch {
	case payout.IsZero():
		return OutcomeLoss
	case payout.Equal(wagered):
		return OutcomePush
	default:
		return OutcomeWin
	}
}
