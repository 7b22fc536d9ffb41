package models

import "github.com/shopspring/decimal"

type LeaderboardPeriod string

const (
	PeriodDaily   LeaderboardPeriod = "daily"
	PeriodWeekly  LeaderboardPeriod = "weekly"
	PeriodMonthly LeaderboardPeriod = "monthly"
	PeriodAll     LeaderboardPeriod = "all"
)

func (p LeaderboardPeriod) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAll:
		return true
	}
	return false
}

type LeaderboardEntry struct {
	Rank     int             `json:"rank"`
	UserID   int64           `json:"user_id"`
	Username string          `json:"username"`
	Wagered  decimal.Decimal `json:"wagered"`
	Won      decimal.Decimal `json:"won"`
	Profit   decimal.Decimal `json:"profit"`
	Bets     int64           `json:"bets"`
}

type UserStats struct {
	UserID        int64           `json:"user_id"`
	Username      string          `json:"username"`
	Balance       decimal.Decimal `json:"balance"`
	TotalWagered  decimal.Decimal `json:"total_wagered"`
	TotalWon      decimal.Decimal `json:"total_won"`
	TotalLost     decimal.Decimal `json:"total_lost"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	GamesPlayed   int64           `json:"games_played"`
	LoyaltyPoints int64           `json:"loyalty_points"`
	VIPLevel      VIPLevel        `json:"vip_level"`
}
