package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SportEventStatus string

const (
	SportEventUpcoming SportEventStatus = "upcoming"
	SportEventLive     SportEventStatus = "live"
	SportEventFinished SportEventStatus = "finished"
)

type SportBetType string

const (
	SportBetHome SportBetType = "home"
	SportBetDraw SportBetType = "draw"
	SportBetAway SportBetType = "away"
)

// Odds are decimal odds; Draw is zero for sports without a draw outcome.
type Odds struct {
	Home decimal.Decimal `json:"home"`
	Draw decimal.Decimal `json:"draw"`
	Away decimal.Decimal `json:"away"`
}

func (o Odds) For(t SportBetType) (decimal.Decimal, bool) {
	switch t {
	case SportBetHome:
		return o.Home, o.Home.IsPositive()
	case SportBetDraw:
		return o.Draw, o.Draw.IsPositive()
	case SportBetAway:
		return o.Away, o.Away.IsPositive()
	}
	return decimal.Zero, false
}

type SportEvent struct {
	ID        string           `json:"id"`
	Sport     string           `json:"sport"`
	League    string           `json:"league"`
	HomeTeam  string           `json:"home_team"`
	AwayTeam  string           `json:"away_team"`
	Odds      Odds             `json:"odds"`
	StartTime time.Time        `json:"start_time"`
	Status    SportEventStatus `json:"status"`
}

type SportBet struct {
	ID              string          `json:"id"`
	UserID          int64           `json:"user_id"`
	Event           SportEvent      `json:"event"`
	BetType         SportBetType    `json:"bet_type"`
	Amount          decimal.Decimal `json:"amount"`
	Odds            decimal.Decimal `json:"odds"`
	PotentialPayout decimal.Decimal `json:"potential_payout"`
	Status          string          `json:"status"`
	PlacedAt        time.Time       `json:"placed_at"`
}
