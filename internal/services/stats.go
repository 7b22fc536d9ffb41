package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"micro-casino-engine/internal/models"
)

// StatsService is a read-only projection over users and the transaction log.
type StatsService struct {
	store  Store
	ledger *Ledger
	clock  Clock
}

func NewStatsService(store Store, ledger *Ledger, clock Clock) *StatsService {
	if clock == nil {
		clock = SystemClock
	}
	return &StatsService{store: store, ledger: ledger, clock: clock}
}

// windowStart returns the earliest transaction time counted for period. The
// zero time means everything.
func windowStart(now time.Time, period models.LeaderboardPeriod) time.Time {
	switch period {
	case models.PeriodDaily:
		return now.Add(-24 * time.Hour)
	case models.PeriodWeekly:
		return now.AddDate(0, 0, -7)
	case models.PeriodMonthly:
		return now.AddDate(0, -1, 0)
	default:
		return time.Time{}
	}
}

// Leaderboard ranks players by profit (payouts minus stakes) over the period,
// breaking ties by amount wagered.
func (s *StatsService) Leaderboard(ctx context.Context, period models.LeaderboardPeriod, limit int) ([]models.LeaderboardEntry, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("%w: unknown period %q", ErrInvalidBet, period)
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	txs, err := s.store.TransactionsSince(ctx, windowStart(s.clock.Now(), period))
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	byUser := make(map[int64]*models.LeaderboardEntry)
	for _, tx := range txs {
		if tx.Type != models.TransactionTypeBet && tx.Type != models.TransactionTypePayout {
			continue
		}
		e, ok := byUser[tx.UserID]
		if !ok {
			e = &models.LeaderboardEntry{UserID: tx.UserID, Wagered: decimal.Zero, Won: decimal.Zero}
			byUser[tx.UserID] = e
		}
		if tx.Type == models.TransactionTypeBet {
			e.Wagered = e.Wagered.Add(tx.Amount)
			e.Bets++
		} else {
			e.Won = e.Won.Add(tx.Amount)
		}
	}

	entries := make([]models.LeaderboardEntry, 0, len(byUser))
	for _, e := range byUser {
		e.Profit = e.Won.Sub(e.Wagered)
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if c := entries[i].Profit.Cmp(entries[j].Profit); c != 0 {
			return c > 0
		}
		if c := entries[i].Wagered.Cmp(entries[j].Wagered); c != 0 {
			return c > 0
		}
		return entries[i].UserID < entries[j].UserID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}

	for i := range entries {
		entries[i].Rank = i + 1
		u, err := s.store.GetUser(ctx, entries[i].UserID)
		if err != nil {
			entries[i].Username = fmt.Sprintf("player_%d", entries[i].UserID)
			continue
		}
		entries[i].Username = u.Username
	}
	return entries, nil
}

func (s *StatsService) UserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	u, err := s.ledger.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.UserStats{
		UserID:        u.ID,
		Username:      u.Username,
		Balance:       u.Balance,
		TotalWagered:  u.TotalWagered,
		TotalWon:      u.TotalWon,
		TotalLost:     u.TotalLost,
		NetProfit:     u.TotalWon.Sub(u.TotalWagered),
		GamesPlayed:   u.GamesPlayed,
		LoyaltyPoints: u.LoyaltyPoints,
		VIPLevel:      u.VIPLevel,
	}, nil
}
