package services

import "errors"

// Expected, user-facing outcomes. None of them leaves partial ledger state.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidRoundState = errors.New("invalid round state")
	ErrRoundNotFound     = errors.New("round not found")
	ErrBettingClosed     = errors.New("betting closed")
	ErrAlreadyCashedOut  = errors.New("already cashed out")
	ErrTooLate           = errors.New("too late")
	ErrInvalidBet        = errors.New("invalid bet")
)

var ErrUserNotFound = errors.New("user not found")
