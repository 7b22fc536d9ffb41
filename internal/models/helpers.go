package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func GenerateRoundID(game GameType) string {
	return fmt.Sprintf("%s_%s", game, uuid.New().String())
}

func GenerateTransactionID() string {
	return fmt.Sprintf("tx_%s", uuid.New().String())
}

func CalculatePayout(betAmount, multiplier decimal.Decimal) decimal.Decimal {
	return betAmount.Mul(multiplier).Round(2)
}

// ValidateNumbers checks a lottery pick: six distinct numbers in 1..49.
func ValidateNumbers(numbers []int) error {
	if len(numbers) != LotteryPickCount {
		return fmt.Errorf("expected %d numbers, got %d", LotteryPickCount, len(numbers))
	}
	seen := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		if n < LotteryMinNumber || n > LotteryMaxNumber {
			return fmt.Errorf("number %d out of range %d-%d", n, LotteryMinNumber, LotteryMaxNumber)
		}
		if seen[n] {
			return fmt.Errorf("number %d picked twice", n)
		}
		seen[n] = true
	}
	return nil
}
