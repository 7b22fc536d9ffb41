package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Suit string

const (
	SuitHearts   Suit = "hearts"
	SuitDiamonds Suit = "diamonds"
	SuitClubs    Suit = "clubs"
	SuitSpades   Suit = "spades"
)

var Suits = []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

// Ranks in shoe order; Value is derived from the rank.
var Ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

type Card struct {
	Suit  Suit   `json:"suit"`
	Rank  string `json:"rank"`
	Value int    `json:"value"`
}

func NewCard(suit Suit, rank string) Card {
	return Card{Suit: suit, Rank: rank, Value: rankValue(rank)}
}

func rankValue(rank string) int {
	switch rank {
	case "A":
		return 11
	case "J", "Q", "K", "10":
		return 10
	default:
		return int(rank[0] - '0')
	}
}

// HandScore counts aces as 11 and demotes them to 1 one at a time while the
// hand is over 21.
func HandScore(hand []Card) int {
	score, aces := 0, 0
	for _, c := range hand {
		score += c.Value
		if c.Rank == "A" {
			aces++
		}
	}
	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}
	return score
}

type BlackjackStatus string

const (
	BlackjackDealt      BlackjackStatus = "dealt"
	BlackjackNatural    BlackjackStatus = "blackjack"
	BlackjackPlayerBust BlackjackStatus = "playerBust"
	BlackjackDealerBust BlackjackStatus = "dealerBust"
	BlackjackPlayerWin  BlackjackStatus = "playerWin"
	BlackjackDealerWin  BlackjackStatus = "dealerWin"
	BlackjackPush       BlackjackStatus = "push"
)

func (s BlackjackStatus) Terminal() bool {
	return s != BlackjackDealt
}

type BlackjackAction string

const (
	BlackjackHit    BlackjackAction = "hit"
	BlackjackStand  BlackjackAction = "stand"
	BlackjackDouble BlackjackAction = "double"
)

type BlackjackRound struct {
	ID          string          `json:"id"`
	UserID      int64           `json:"user_id"`
	BetAmount   decimal.Decimal `json:"bet_amount"`
	PlayerHand  []Card          `json:"player_hand"`
	DealerHand  []Card          `json:"dealer_hand"`
	PlayerScore int             `json:"player_score"`
	DealerScore int             `json:"dealer_score"`
	Status      BlackjackStatus `json:"status"`
	CanHit      bool            `json:"can_hit"`
	CanDouble   bool            `json:"can_double"`
	CanSplit    bool            `json:"can_split"`
	WinAmount   decimal.Decimal `json:"win_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (r *BlackjackRound) Clone() *BlackjackRound {
	c := *r
	c.PlayerHand = append([]Card(nil), r.PlayerHand...)
	c.DealerHand = append([]Card(nil), r.DealerHand...)
	return &c
}

// View returns a copy safe to hand to the player: while the round is live
// only the dealer's first card is shown.
func (r *BlackjackRound) View() *BlackjackRound {
	v := r.Clone()
	if !r.Status.Terminal() && len(v.DealerHand) > 1 {
		v.DealerHand = v.DealerHand[:1]
		v.DealerScore = HandScore(v.DealerHand)
	}
	return v
}
