package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`

	Balance       decimal.Decimal `json:"balance"`
	TotalWagered  decimal.Decimal `json:"total_wagered"`
	TotalWon      decimal.Decimal `json:"total_won"`
	TotalLost     decimal.Decimal `json:"total_lost"`
	GamesPlayed   int64           `json:"games_played"`
	LoyaltyPoints int64           `json:"loyalty_points"`
	VIPLevel      VIPLevel        `json:"vip_level"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) Clone() *User {
	c := *u
	return &c
}
