package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"micro-casino-engine/internal/config"
	"micro-casino-engine/internal/models"
	"micro-casino-engine/internal/services"
)

func newTestEngine(t *testing.T, roundTTL time.Duration) *services.GameEngine {
	t.Helper()
	cfg := &config.Config{
		StartingBalance:      d("1000"),
		MinBet:               d("1"),
		MaxBet:               d("10000"),
		RoundTTL:             roundTTL,
		CrashBettingDuration: time.Minute,
		CrashGrowthRate:      0.06,
		LotteryTicketPrice:   d("5"),
		LotteryJackpotShare:  d("3"),
		LotterySeedJackpot:   d("10000"),
		LotteryDrawInterval:  24 * time.Hour,
	}
	return services.NewGameEngine(cfg, services.EngineDeps{
		Store:  services.NewMemoryStore(),
		Random: services.NewSeededRandomSource(1),
	})
}

func TestGameEngineWiresEveryGame(t *testing.T) {
	ctx := context.Background()
	ge := newTestEngine(t, time.Hour)

	if _, err := ge.SpinSlots(ctx, 1, d("10"), "classic"); err != nil {
		t.Fatalf("SpinSlots: %v", err)
	}
	if _, err := ge.SpinRoulette(ctx, 1, []models.RouletteBet{{Type: models.RouletteRed, Amount: d("10")}}); err != nil {
		t.Fatalf("SpinRoulette: %v", err)
	}
	if _, err := ge.RollDice(ctx, 1, d("10"), d("50"), models.DiceUnder); err != nil {
		t.Fatalf("RollDice: %v", err)
	}
	if _, err := ge.BuyLotteryTicket(ctx, 1, nil); err != nil {
		t.Fatalf("BuyLotteryTicket: %v", err)
	}
	if _, err := ge.PlaceCrashBet(ctx, 1, d("10")); err != nil {
		t.Fatalf("PlaceCrashBet: %v", err)
	}

	events := ge.SportEvents()
	if len(events) == 0 {
		t.Fatal("no seeded sport events")
	}
	if _, err := ge.PlaceSportsBet(ctx, 1, events[0].ID, models.SportBetHome, d("10")); err != nil {
		t.Fatalf("PlaceSportsBet: %v", err)
	}

	stats, err := ge.UserStats(ctx, 1)
	if err != nil {
		t.Fatalf("UserStats: %v", err)
	}
	if stats.GamesPlayed != 3 {
		t.Errorf("GamesPlayed = %d, want 3", stats.GamesPlayed)
	}

	board, err := ge.Leaderboard(ctx, models.PeriodDaily, 5)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(board) != 1 || board[0].UserID != 1 {
		t.Errorf("leaderboard = %+v", board)
	}
}

func TestCleanupStaleGames(t *testing.T) {
	ctx := context.Background()
	ge := newTestEngine(t, 10*time.Millisecond)

	round, err := ge.StartBlackjack(ctx, 1, d("10"))
	if err != nil {
		t.Fatalf("StartBlackjack: %v", err)
	}

	time.Sleep(30 * time.Millisecond)
	ge.CleanupStaleGames()

	_, err = ge.GetBlackjackRound(1, round.ID)
	if !errors.Is(err, services.ErrRoundNotFound) {
		t.Errorf("err = %v, want ErrRoundNotFound", err)
	}
}
