package services

import "micro-casino-engine/internal/models"

// Shoe deals from an infinite deck: every draw is independent and nothing is
// ever depleted.
type Shoe struct {
	rng RandomSource
}

func NewShoe(rng RandomSource) *Shoe {
	return &Shoe{rng: rng}
}

func (s *Shoe) Draw() models.Card {
	rank := models.Ranks[s.rng.NextInt(0, len(models.Ranks)-1)]
	suit := models.Suits[s.rng.NextInt(0, len(models.Suits)-1)]
	return models.NewCard(suit, rank)
}
