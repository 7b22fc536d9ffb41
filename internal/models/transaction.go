package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeBet      TransactionType = "bet"
	TransactionTypePayout   TransactionType = "payout"
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeWithdraw TransactionType = "withdraw"
)

// Transaction is an append-only ledger movement.
type Transaction struct {
	ID            string          `json:"id"`
	UserID        int64           `json:"user_id"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	GameType      GameType        `json:"game_type,omitempty"`
	RoundID       string          `json:"round_id,omitempty"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Signed returns the amount as it affects the balance.
func (t *Transaction) Signed() decimal.Decimal {
	switch t.Type {
	case TransactionTypeBet, TransactionTypeWithdraw:
		return t.Amount.Neg()
	}
	return t.Amount
}
