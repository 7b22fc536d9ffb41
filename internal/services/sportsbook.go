package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"micro-casino-engine/internal/models"
)

const SportBetPending = "pending"

// SportsBook takes bets against a fixed event board. Odds are copied onto the
// bet at placement; bets are never graded here.
type SportsBook struct {
	mu     sync.RWMutex
	ledger *Ledger
	clock  Clock
	limits BetLimits
	events map[string]*models.SportEvent
	bets   map[int64][]*models.SportBet
}

func NewSportsBook(ledger *Ledger, clock Clock, limits BetLimits) *SportsBook {
	if clock == nil {
		clock = SystemClock
	}
	return &SportsBook{
		ledger: ledger,
		clock:  clock,
		limits: limits,
		events: make(map[string]*models.SportEvent),
		bets:   make(map[int64][]*models.SportBet),
	}
}

// SeedEvents loads a small default board starting relative to now.
func (b *SportsBook) SeedEvents() {
	now := b.clock.Now()
	odds := func(home, draw, away string) models.Odds {
		return models.Odds{
			Home: decimal.RequireFromString(home),
			Draw: decimal.RequireFromString(draw),
			Away: decimal.RequireFromString(away),
		}
	}

	for _, ev := range []models.SportEvent{
		{Sport: "football", League: "Premier League", HomeTeam: "Arsenal", AwayTeam: "Chelsea", Odds: odds("2.10", "3.40", "3.50"), StartTime: now.Add(2 * time.Hour)},
		{Sport: "football", League: "La Liga", HomeTeam: "Barcelona", AwayTeam: "Sevilla", Odds: odds("1.65", "3.90", "5.20"), StartTime: now.Add(26 * time.Hour)},
		{Sport: "basketball", League: "NBA", HomeTeam: "Lakers", AwayTeam: "Celtics", Odds: odds("1.95", "0", "1.85"), StartTime: now.Add(5 * time.Hour)},
		{Sport: "tennis", League: "ATP", HomeTeam: "Sinner", AwayTeam: "Alcaraz", Odds: odds("2.05", "0", "1.78"), StartTime: now.Add(30 * time.Hour)},
	} {
		b.AddEvent(ev)
	}
}

// AddEvent registers an event, assigning an id and status when missing.
func (b *SportsBook) AddEvent(ev models.SportEvent) models.SportEvent {
	if ev.ID == "" {
		ev.ID = "event_" + uuid.New().String()
	}
	if ev.Status == "" {
		ev.Status = models.SportEventUpcoming
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.events[ev.ID] = &ev
	return ev
}

// Events returns the board ordered by start time.
func (b *SportsBook) Events() []models.SportEvent {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.SportEvent, 0, len(b.events))
	for _, ev := range b.events {
		out = append(out, *ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (b *SportsBook) PlaceBet(ctx context.Context, userID int64, eventID string, betType models.SportBetType, amount decimal.Decimal) (*models.SportBet, error) {
	if err := b.limits.Check(amount); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ev, ok := b.events[eventID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown event %s", ErrInvalidBet, eventID)
	}
	if ev.Status != models.SportEventUpcoming || !b.clock.Now().Before(ev.StartTime) {
		return nil, fmt.Errorf("%w: event %s has started", ErrBettingClosed, eventID)
	}
	odds, available := ev.Odds.For(betType)
	if !available {
		return nil, fmt.Errorf("%w: no %s market on event %s", ErrInvalidBet, betType, eventID)
	}

	betID := "sportbet_" + uuid.New().String()
	if _, err := b.ledger.Debit(ctx, userID, amount, Ref{Game: models.GameTypeSports, RoundID: betID}); err != nil {
		return nil, err
	}

	bet := &models.SportBet{
		ID:              betID,
		UserID:          userID,
		Event:           *ev,
		BetType:         betType,
		Amount:          amount,
		Odds:            odds,
		PotentialPayout: models.CalculatePayout(amount, odds),
		Status:          SportBetPending,
		PlacedAt:        b.clock.Now(),
	}
	b.bets[userID] = append(b.bets[userID], bet)

	out := *bet
	return &out, nil
}

// Bets returns the user's bets, newest first.
func (b *SportsBook) Bets(userID int64) []models.SportBet {
	b.mu.RLock()
	defer b.mu.RUnlock()

	src := b.bets[userID]
	out := make([]models.SportBet, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, *src[i])
	}
	return out
}
