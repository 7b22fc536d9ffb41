package models

import "github.com/shopspring/decimal"

type TokenRequest struct {
	UserID   int64  `json:"user_id" binding:"required,min=1"`
	Username string `json:"username" binding:"required,min=2,max=32"`
}

type SlotSpinRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Machine string          `json:"machine" binding:"required"`
}

type RouletteSpinRequest struct {
	Bets []RouletteBet `json:"bets" binding:"required,min=1,dive"`
}

type BlackjackStartRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type BlackjackActionRequest struct {
	RoundID string          `json:"round_id" binding:"required"`
	Action  BlackjackAction `json:"action" binding:"required,oneof=hit stand double"`
}

type CrashBetRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type CrashCashoutRequest struct {
	RoundID string `json:"round_id" binding:"required"`
}

type DiceRollRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Target     decimal.Decimal `json:"target"`
	Prediction DicePrediction  `json:"prediction" binding:"required,oneof=over under exact"`
}

type LotteryTicketRequest struct {
	Numbers []int `json:"numbers,omitempty"`
}

type SportBetRequest struct {
	EventID string          `json:"event_id" binding:"required"`
	BetType SportBetType    `json:"bet_type" binding:"required,oneof=home draw away"`
	Amount  decimal.Decimal `json:"amount"`
}
