package models

import "github.com/shopspring/decimal"

type SlotWin string

const (
	SlotWinNone        SlotWin = "none"
	SlotWinTwoPair     SlotWin = "two_pair"
	SlotWinThreeKind   SlotWin = "three_of_a_kind"
	SlotWinFourKind    SlotWin = "four_of_a_kind"
	SlotWinJackpot     SlotWin = "jackpot"
	SlotWinMegaJackpot SlotWin = "mega_jackpot"
)

type SlotResult struct {
	RoundID    string          `json:"round_id"`
	Machine    string          `json:"machine"`
	Reels      []string        `json:"reels"`
	BetAmount  decimal.Decimal `json:"bet_amount"`
	WinType    SlotWin         `json:"win_type"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Payout     decimal.Decimal `json:"payout"`
	FreeSpins  int             `json:"free_spins"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

type RouletteBetType string

const (
	RouletteNumber RouletteBetType = "number"
	RouletteRed    RouletteBetType = "red"
	RouletteBlack  RouletteBetType = "black"
	RouletteOdd    RouletteBetType = "odd"
	RouletteEven   RouletteBetType = "even"
	RouletteLow    RouletteBetType = "low"
	RouletteHigh   RouletteBetType = "high"
	RouletteDozen1 RouletteBetType = "dozen1"
	RouletteDozen2 RouletteBetType = "dozen2"
	RouletteDozen3 RouletteBetType = "dozen3"
)

type RouletteColor string

const (
	RouletteColorGreen RouletteColor = "green"
	RouletteColorRed   RouletteColor = "red"
	RouletteColorBlack RouletteColor = "black"
)

type RouletteBet struct {
	Type   RouletteBetType `json:"type" binding:"required"`
	Value  string          `json:"value,omitempty"`
	Amount decimal.Decimal `json:"amount"`
}

type RouletteBetOutcome struct {
	RouletteBet
	Won    bool            `json:"won"`
	Payout decimal.Decimal `json:"payout"`
}

type RouletteResult struct {
	RoundID     string               `json:"round_id"`
	Number      int                  `json:"number"`
	Color       RouletteColor        `json:"color"`
	Bets        []RouletteBetOutcome `json:"bets"`
	TotalBet    decimal.Decimal      `json:"total_bet"`
	TotalPayout decimal.Decimal      `json:"total_payout"`
	NewBalance  decimal.Decimal      `json:"new_balance"`
}

type DicePrediction string

const (
	DiceOver  DicePrediction = "over"
	DiceUnder DicePrediction = "under"
	DiceExact DicePrediction = "exact"
)

type DiceResult struct {
	RoundID    string          `json:"round_id"`
	BetAmount  decimal.Decimal `json:"bet_amount"`
	Target     decimal.Decimal `json:"target"`
	Prediction DicePrediction  `json:"prediction"`
	Rolled     decimal.Decimal `json:"rolled"`
	Won        bool            `json:"won"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Payout     decimal.Decimal `json:"payout"`
	NewBalance decimal.Decimal `json:"new_balance"`
}
