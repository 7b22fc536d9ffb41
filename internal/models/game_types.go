package models

type GameType string

const (
	GameTypeSlots     GameType = "slots"
	GameTypeRoulette  GameType = "roulette"
	GameTypeBlackjack GameType = "blackjack"
	GameTypeCrash     GameType = "crash"
	GameTypeDice      GameType = "dice"
	GameTypeLottery   GameType = "lottery"
	GameTypeSports    GameType = "sports"
)
