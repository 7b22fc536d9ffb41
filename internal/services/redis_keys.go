package services

import "time"

const (
	KeyUser             = "user:%d"
	KeyTransaction      = "transaction:%s"
	KeyUserTransactions = "user:%d:transactions"
	KeyTransactionLog   = "transactions"
	KeyGameRecord       = "game:record:%s"
	KeyUserGameHistory  = "user:%d:games"
	KeyRateLimit        = "ratelimit:%d:%s"

	TTLTransaction = 90 * 24 * time.Hour
	TTLGameRecord  = 30 * 24 * time.Hour

	MaxUserTransactions = 100
	MaxUserGameHistory  = 100

	DefaultRateLimitBets    = 30 // per minute
	DefaultRateLimitCashout = 60 // per minute
)
