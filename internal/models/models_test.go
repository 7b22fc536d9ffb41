package models_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"micro-casino-engine/internal/models"
)

func hand(ranks ...string) []models.Card {
	cards := make([]models.Card, 0, len(ranks))
	for _, r := range ranks {
		cards = append(cards, models.NewCard(models.SuitSpades, r))
	}
	return cards
}

func TestHandScore(t *testing.T) {
	cases := []struct {
		name  string
		ranks []string
		want  int
	}{
		{"two aces and nine", []string{"A", "A", "9"}, 21},
		{"natural", []string{"10", "A"}, 21},
		{"face cards", []string{"K", "Q"}, 20},
		{"soft seventeen", []string{"A", "6"}, 17},
		{"hard after demotion", []string{"A", "6", "K"}, 17},
		{"bust", []string{"K", "Q", "5"}, 25},
		{"four aces", []string{"A", "A", "A", "A"}, 14},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := models.HandScore(hand(tc.ranks...)); got != tc.want {
				t.Errorf("HandScore(%v) = %d, want %d", tc.ranks, got, tc.want)
			}
		})
	}
}

func TestVIPLevelFor(t *testing.T) {
	cases := map[int64]models.VIPLevel{
		0:      models.VIPBronze,
		999:    models.VIPBronze,
		1000:   models.VIPSilver,
		9999:   models.VIPSilver,
		10000:  models.VIPGold,
		50000:  models.VIPPlatinum,
		99999:  models.VIPPlatinum,
		100000: models.VIPDiamond,
	}

	for points, want := range cases {
		if got := models.VIPLevelFor(points); got != want {
			t.Errorf("VIPLevelFor(%d) = %s, want %s", points, got, want)
		}
	}
}

func TestLoyaltyPointsFor(t *testing.T) {
	if got := models.LoyaltyPointsFor(decimal.NewFromInt(125)); got != 12 {
		t.Errorf("expected 12 points, got %d", got)
	}
	if got := models.LoyaltyPointsFor(decimal.NewFromInt(9)); got != 0 {
		t.Errorf("expected 0 points, got %d", got)
	}
}

func TestValidateNumbers(t *testing.T) {
	if err := models.ValidateNumbers([]int{1, 7, 13, 22, 38, 49}); err != nil {
		t.Errorf("valid pick rejected: %v", err)
	}

	invalid := [][]int{
		{1, 2, 3, 4, 5},
		{1, 2, 3, 4, 5, 50},
		{0, 2, 3, 4, 5, 6},
		{1, 1, 3, 4, 5, 6},
	}
	for _, nums := range invalid {
		if err := models.ValidateNumbers(nums); err == nil {
			t.Errorf("pick %v should be rejected", nums)
		}
	}
}

func TestBlackjackViewHidesHoleCard(t *testing.T) {
	round := &models.BlackjackRound{
		ID:         "round",
		PlayerHand: hand("9", "7"),
		DealerHand: hand("K", "6"),
		Status:     models.BlackjackDealt,
	}

	view := round.View()
	if len(view.DealerHand) != 1 {
		t.Fatalf("expected 1 visible dealer card, got %d", len(view.DealerHand))
	}
	if view.DealerScore != 10 {
		t.Errorf("expected visible dealer score 10, got %d", view.DealerScore)
	}
	if len(round.DealerHand) != 2 {
		t.Error("View must not modify the round")
	}

	round.Status = models.BlackjackDealerWin
	if got := len(round.View().DealerHand); got != 2 {
		t.Errorf("terminal round should reveal dealer hand, got %d cards", got)
	}
}

func TestOutcomeFor(t *testing.T) {
	bet := decimal.NewFromInt(50)
	if got := models.OutcomeFor(bet, decimal.Zero); got != models.OutcomeLoss {
		t.Errorf("expected loss, got %s", got)
	}
	if got := models.OutcomeFor(bet, bet); got != models.OutcomePush {
		t.Errorf("expected push, got %s", got)
	}
	if got := models.OutcomeFor(bet, decimal.NewFromInt(125)); got != models.OutcomeWin {
		t.Errorf("expected win, got %s", got)
	}
}
