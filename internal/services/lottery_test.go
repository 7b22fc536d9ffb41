package services_test

import (
	"context"
	"testing"
	"time"

	"micro-casino-engine/internal/models"
	"micro-casino-engine/internal/services"
)

func newLotteryEngine(clock *fakeClock, rng services.RandomSource) (*services.LotteryEngine, *services.Ledger) {
	ledger, _ := newTestLedger(clock)
	engine := services.NewLotteryEngine(ledger, rng, clock, services.LotteryConfig{
		TicketPrice:  d("5"),
		JackpotShare: d("3"),
		SeedJackpot:  d("10000"),
		DrawInterval: 7 * 24 * time.Hour,
	}, nil)
	return engine, ledger
}

func TestLotteryBuyTicketWithNumbers(t *testing.T) {
	engine, ledger := newLotteryEngine(newFakeClock(), newScriptedRandom())
	ctx := context.Background()

	ticket, err := engine.BuyTicket(ctx, 1, []int{4, 8, 15, 16, 23, 42})
	if err != nil {
		t.Fatalf("BuyTicket: %v", err)
	}
	draw := engine.CurrentDraw()
	if ticket.DrawID != draw.ID {
		t.Errorf("ticket draw = %s, current = %s", ticket.DrawID, draw.ID)
	}
	if !draw.Jackpot.Equal(d("10003")) || draw.TicketsSold != 1 {
		t.Errorf("draw after sale: jackpot=%s sold=%d", draw.Jackpot, draw.TicketsSold)
	}
	if len(draw.WinningNumbers) != 0 {
		t.Errorf("draw has winning numbers %v", draw.WinningNumbers)
	}
	assertBalance(t, ledger, 1, "995")

	if got := engine.Tickets(1); len(got) != 1 || got[0].ID != ticket.ID {
		t.Errorf("Tickets = %+v", got)
	}
}

func TestLotteryGeneratesNumbers(t *testing.T) {
	engine, _ := newLotteryEngine(newFakeClock(), services.NewSeededRandomSource(7))

	for i := 0; i < 50; i++ {
		ticket, err := engine.BuyTicket(context.Background(), 1, nil)
		if err != nil {
			t.Fatalf("BuyTicket: %v", err)
		}
		if err := models.ValidateNumbers(ticket.Numbers); err != nil {
			t.Fatalf("generated %v: %v", ticket.Numbers, err)
		}
	}
	if got := engine.CurrentDraw().Jackpot; !got.Equal(d("10150")) {
		t.Errorf("jackpot = %s, want 10150", got)
	}
}

func TestLotteryRejectsBadPicks(t *testing.T) {
	engine, ledger := newLotteryEngine(newFakeClock(), newScriptedRandom())

	for _, nums := range [][]int{
		{1, 2, 3, 4, 5},
		{1, 2, 3, 4, 5, 50},
		{1, 1, 2, 3, 4, 5},
		{0, 2, 3, 4, 5, 6},
	} {
		_, err := engine.BuyTicket(context.Background(), 1, nums)
		assertErrorIs(t, err, services.ErrInvalidBet)
	}
	assertBalance(t, ledger, 1, "1000")
	if sold := engine.CurrentDraw().TicketsSold; sold != 0 {
		t.Errorf("tickets sold = %d", sold)
	}
}

func TestLotteryInsufficientFundsLeavesJackpot(t *testing.T) {
	engine, ledger := newLotteryEngine(newFakeClock(), newScriptedRandom())
	ctx := context.Background()

	if _, err := ledger.Withdraw(ctx, 1, d("998")); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	_, err := engine.BuyTicket(ctx, 1, []int{1, 2, 3, 4, 5, 6})
	assertErrorIs(t, err, services.ErrInsufficientFunds)
	if got := engine.CurrentDraw().Jackpot; !got.Equal(d("10000")) {
		t.Errorf("jackpot = %s, want 10000", got)
	}
}

func TestLotteryDrawRollsOver(t *testing.T) {
	clock := newFakeClock()
	engine, _ := newLotteryEngine(clock, newScriptedRandom())
	ctx := context.Background()

	if _, err := engine.BuyTicket(ctx, 1, []int{1, 2, 3, 4, 5, 6}); err != nil {
		t.Fatalf("BuyTicket: %v", err)
	}
	first := engine.CurrentDraw()

	clock.Advance(7 * 24 * time.Hour)
	next := engine.CurrentDraw()
	if next.ID == first.ID {
		t.Fatalf("draw did not roll over")
	}
	if !next.Jackpot.Equal(first.Jackpot) || next.TicketsSold != 0 {
		t.Errorf("rolled draw: jackpot=%s sold=%d", next.Jackpot, next.TicketsSold)
	}
	if !next.DrawTime.Equal(clock.Now().Add(7 * 24 * time.Hour)) {
		t.Errorf("draw time = %v", next.DrawTime)
	}
}
