package services

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BetLimits bounds a single stake. A zero Max means no upper bound.
type BetLimits struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func (l BetLimits) Check(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidBet)
	}
	if amount.LessThan(l.Min) {
		return fmt.Errorf("%w: minimum bet is %s", ErrInvalidBet, l.Min.StringFixed(2))
	}
	if l.Max.IsPositive() && amount.GreaterThan(l.Max) {
		return fmt.Errorf("%w: maximum bet is %s", ErrInvalidBet, l.Max.StringFixed(2))
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: amount has more than two decimals", ErrInvalidBet)
	}
	return nil
}
