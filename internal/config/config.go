package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

type Config struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	// RedisURL empty keeps all state in process memory.
	RedisURL  string `env:"REDIS_URL"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	StartingBalance decimal.Decimal `env:"STARTING_BALANCE" envDefault:"1000"`
	MinBet          decimal.Decimal `env:"MIN_BET" envDefault:"1"`
	MaxBet          decimal.Decimal `env:"MAX_BET" envDefault:"10000"`
	RoundTTL        time.Duration   `env:"ROUND_TTL" envDefault:"30m"`

	CrashBettingDuration time.Duration `env:"CRASH_BETTING_DURATION" envDefault:"10s"`
	CrashTickInterval    time.Duration `env:"CRASH_TICK_INTERVAL" envDefault:"100ms"`
	CrashCooldown        time.Duration `env:"CRASH_COOLDOWN" envDefault:"3s"`
	CrashGrowthRate      float64       `env:"CRASH_GROWTH_RATE" envDefault:"0.06"`

	LotteryTicketPrice  decimal.Decimal `env:"LOTTERY_TICKET_PRICE" envDefault:"5"`
	LotteryJackpotShare decimal.Decimal `env:"LOTTERY_JACKPOT_SHARE" envDefault:"3"`
	LotterySeedJackpot  decimal.Decimal `env:"LOTTERY_SEED_JACKPOT" envDefault:"10000"`
	LotteryDrawInterval time.Duration   `env:"LOTTERY_DRAW_INTERVAL" envDefault:"168h"`
}

var parsers = map[reflect.Type]env.ParserFunc{
	reflect.TypeOf(decimal.Decimal{}): func(v string) (interface{}, error) {
		return decimal.NewFromString(v)
	},
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{FuncMap: parsers}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if !c.MinBet.IsPositive() {
		return fmt.Errorf("MIN_BET must be positive, got %s", c.MinBet)
	}
	if c.MaxBet.LessThan(c.MinBet) {
		return fmt.Errorf("MAX_BET %s is below MIN_BET %s", c.MaxBet, c.MinBet)
	}
	if c.StartingBalance.IsNegative() {
		return fmt.Errorf("STARTING_BALANCE must not be negative")
	}
	if c.LotteryJackpotShare.GreaterThan(c.LotteryTicketPrice) {
		return fmt.Errorf("LOTTERY_JACKPOT_SHARE exceeds LOTTERY_TICKET_PRICE")
	}
	if c.CrashGrowthRate <= 0 {
		return fmt.Errorf("CRASH_GROWTH_RATE must be positive")
	}
	if c.IsProduction() && c.JWTSecret == "dev-secret-change-me" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}
