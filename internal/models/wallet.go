package models

import "github.com/shopspring/decimal"

type VIPLevel string

const (
	VIPBronze   VIPLevel = "Bronze"
	VIPSilver   VIPLevel = "Silver"
	VIPGold     VIPLevel = "Gold"
	VIPPlatinum VIPLevel = "Platinum"
	VIPDiamond  VIPLevel = "Diamond"
)

// VIPLevelFor maps loyalty points onto the fixed tier ladder.
func VIPLevelFor(points int64) VIPLevel {
	switch {
	case points >= 100000:
		return VIPDiamond
	case points >= 50000:
		return VIPPlatinum
	case points >= 10000:
		return VIPGold
	case points >= 1000:
		return VIPSilver
	default:
		return VIPBronze
	}
}

// LoyaltyPointsFor awards one point per ten units wagered.
func LoyaltyPointsFor(wagered decimal.Decimal) int64 {
	return wagered.Div(decimal.NewFromInt(10)).Floor().IntPart()
}

type BalanceResponse struct {
	Balance       decimal.Decimal `json:"balance"`
	TotalWagered  decimal.Decimal `json:"total_wagered"`
	TotalWon      decimal.Decimal `json:"total_won"`
	TotalLost     decimal.Decimal `json:"total_lost"`
	LoyaltyPoints int64           `json:"loyalty_points"`
	VIPLevel      VIPLevel        `json:"vip_level"`
}

func NewBalanceResponse(u *User) BalanceResponse {
	return BalanceResponse{
		Balance:       u.Balance,
		TotalWagered:  u.TotalWagered,
		TotalWon:      u.TotalWon,
		TotalLost:     u.TotalLost,
		LoyaltyPoints: u.LoyaltyPoints,
		VIPLevel:      u.VIPLevel,
	}
}
