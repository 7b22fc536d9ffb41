package services

import (
	"github.com/shopspring/decimal"

	"micro-casino-engine/internal/models"
)

// Broadcaster fans crash round events out to connected clients. Calls are
// made from the round loop and must not block.
type Broadcaster interface {
	BroadcastRoundStart(round models.CrashRound)
	BroadcastGameUpdate(roundID string, multiplier decimal.Decimal)
	BroadcastCashout(bet models.CrashBet)
	BroadcastGameCrash(roundID string, crashPoint decimal.Decimal)
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastRoundStart(models.CrashRound) {}
func (noopBroadcaster) BroadcastGameUpdate(string, decimal.Decimal) {}
func (noopBroadcaster) BroadcastCashout(models.CrashBet) {}
func (noopBroadcaster) BroadcastGameCrash(string, decimal.Decimal) {}
