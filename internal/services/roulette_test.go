package services_test

import (
	"context"
	"testing"

	"micro-casino-engine/internal/models"
	"micro-casino-engine/internal/services"
)

func TestRouletteNumberAndRed(t *testing.T) {
	ledger, _ := newTestLedger(newFakeClock())
	engine := services.NewRouletteEngine(ledger, newScriptedRandom().pushInts(17), testLimits)

	res, err := engine.Spin(context.Background(), 1, []models.RouletteBet{
		{Type: models.RouletteNumber, Value: "17", Amount: d("10")},
		{Type: models.RouletteRed, Amount: d("20")},
	})
	if err != nil {
		t.Fatalf("Spin: %v", err)
	}

	if res.Number != 17 || res.Color != models.RouletteColorRed {
		t.Errorf("draw = %d %s, want 17 red", res.Number, res.Color)
	}
	if !res.Bets[0].Payout.Equal(d("360")) {
		t.Errorf("number payout = %s, want 360", res.Bets[0].Payout)
	}
	if !res.Bets[1].Payout.Equal(d("40")) {
		t.Errorf("red payout = %s, want 40", res.Bets[1].Payout)
	}
	if !res.TotalBet.Equal(d("30")) || !res.TotalPayout.Equal(d("400")) {
		t.Errorf("totals = %s/%s, want 30/400", res.TotalBet, res.TotalPayout)
	}
	assertBalance(t, ledger, 1, "1370")
}

func TestRouletteZeroIsGreen(t *testing.T) {
	ledger, _ := newTestLedger(newFakeClock())
	engine := services.NewRouletteEngine(ledger, newScriptedRandom().pushInts(0), testLimits)

	bets := []models.RouletteBet{
		{Type: models.RouletteRed, Amount: d("10")},
		{Type: models.RouletteBlack, Amount: d("10")},
		{Type: models.RouletteOdd, Amount: d("10")},
		{Type: models.RouletteEven, Amount: d("10")},
		{Type: models.RouletteLow, Amount: d("10")},
		{Type: models.RouletteDozen1, Amount: d("10")},
	}
	res, err := engine.Spin(context.Background(), 1, bets)
	if err != nil {
		t.Fatalf("Spin: %v", err)
	}

	if res.Color != models.RouletteColorGreen {
		t.Errorf("color of zero = %s", res.Color)
	}
	for _, b := range res.Bets {
		if b.Won {
			t.Errorf("%s bet won on zero", b.Type)
		}
	}
	assertBalance(t, ledger, 1, "940")
}

func TestRouletteColors(t *testing.T) {
	red := []int{1, 3, 5, 7, 9, 12, 14, 16, 18, 19, 21, 23, 25, 27, 30, 32, 34, 36}
	isRed := make(map[int]bool)
	for _, n := range red {
		isRed[n] = true
	}

	for n := 1; n <= 36; n++ {
		want := models.RouletteColorBlack
		if isRed[n] {
			want = models.RouletteColorRed
		}
		if got := services.RouletteColorOf(n); got != want {
			t.Errorf("color(%d) = %s, want %s", n, got, want)
		}
	}
}

func TestRouletteDozensAndRanges(t *testing.T) {
	ledger, _ := newTestLedger(newFakeClock())
	engine := services.NewRouletteEngine(ledger, newScriptedRandom().pushInts(24), testLimits)

	res, err := engine.Spin(context.Background(), 1, []models.RouletteBet{
		{Type: models.RouletteDozen2, Amount: d("10")},
		{Type: models.RouletteHigh, Amount: d("10")},
		{Type: models.RouletteEven, Amount: d("10")},
		{Type: models.RouletteDozen3, Amount: d("10")},
	})
	if err != nil {
		t.Fatalf("Spin: %v", err)
	}

	wantWon := []bool{true, true, true, false}
	for i, b := range res.Bets {
		if b.Won != wantWon[i] {
			t.Errorf("%s won = %v, want %v", b.Type, b.Won, wantWon[i])
		}
	}
	if !res.TotalPayout.Equal(d("70")) {
		t.Errorf("total payout = %s, want 70", res.TotalPayout)
	}
}

func TestRouletteInvalidBetsDebitNothing(t *testing.T) {
	cases := []struct {
		name string
		bets []models.RouletteBet
	}{
		{"no bets", nil},
		{"unknown type", []models.RouletteBet{{Type: "corner", Amount: d("5")}}},
		{"number out of range", []models.RouletteBet{{Type: models.RouletteNumber, Value: "37", Amount: d("5")}}},
		{"number not numeric", []models.RouletteBet{{Type: models.RouletteNumber, Value: "red", Amount: d("5")}}},
		{"one bad amount", []models.RouletteBet{
			{Type: models.RouletteRed, Amount: d("5")},
			{Type: models.RouletteBlack, Amount: d("-5")},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ledger, _ := newTestLedger(newFakeClock())
			engine := services.NewRouletteEngine(ledger, newScriptedRandom(), testLimits)

			_, err := engine.Spin(context.Background(), 1, tc.bets)
			assertErrorIs(t, err, services.ErrInvalidBet)
			assertBalance(t, ledger, 1, "1000")
		})
	}
}

func TestRouletteTotalCheckedAgainstBalance(t *testing.T) {
	ledger, _ := newTestLedger(newFakeClock())
	engine := services.NewRouletteEngine(ledger, newScriptedRandom(), testLimits)

	_, err := engine.Spin(context.Background(), 1, []models.RouletteBet{
		{Type: models.RouletteRed, Amount: d("600")},
		{Type: models.RouletteBlack, Amount: d("600")},
	})
	assertErrorIs(t, err, services.ErrInsufficientFunds)
	assertBalance(t, ledger, 1, "1000")
}
