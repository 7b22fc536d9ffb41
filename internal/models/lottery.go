package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	LotteryPickCount = 6
	LotteryMinNumber = 1
	LotteryMaxNumber = 49
)

type LotteryDraw struct {
	ID             string          `json:"id"`
	Jackpot        decimal.Decimal `json:"jackpot"`
	DrawTime       time.Time       `json:"draw_time"`
	WinningNumbers []int           `json:"winning_numbers"`
	TicketsSold    int64           `json:"tickets_sold"`
}

type LotteryTicket struct {
	ID          string          `json:"id"`
	UserID      int64           `json:"user_id"`
	DrawID      string          `json:"draw_id"`
	Numbers     []int           `json:"numbers"`
	Price       decimal.Decimal `json:"price"`
	PurchasedAt time.Time       `json:"purchased_at"`
}
