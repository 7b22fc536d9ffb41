package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CrashStatus string

const (
	CrashBetting CrashStatus = "betting"
	CrashRunning CrashStatus = "running"
	CrashCrashed CrashStatus = "crashed"
)

type CrashBet struct {
	RoundID     string              `json:"round_id"`
	UserID      int64               `json:"user_id"`
	BetAmount   decimal.Decimal     `json:"bet_amount"`
	CashedOutAt decimal.NullDecimal `json:"cashed_out_at"`
	WinAmount   decimal.NullDecimal `json:"win_amount"`
	PlacedAt    time.Time           `json:"placed_at"`
}

type CrashRound struct {
	ID            string          `json:"id"`
	Status        CrashStatus     `json:"status"`
	Multiplier    decimal.Decimal `json:"multiplier"`
	CrashPoint    decimal.Decimal `json:"crash_point"`
	Bets          []CrashBet      `json:"bets"`
	BettingEndsAt time.Time       `json:"betting_ends_at"`
	StartedAt     time.Time       `json:"started_at"`
	CrashedAt     time.Time       `json:"crashed_at"`
}
