package config_test

import (
	"strings"
	"testing"
	"time"

	"micro-casino-engine/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.StartingBalance.String() != "1000" {
		t.Errorf("expected starting balance 1000, got %s", cfg.StartingBalance)
	}
	if cfg.CrashBettingDuration != 10*time.Second {
		t.Errorf("expected 10s betting phase, got %s", cfg.CrashBettingDuration)
	}
	if cfg.LotteryTicketPrice.String() != "5" || cfg.LotteryJackpotShare.String() != "3" {
		t.Errorf("unexpected lottery pricing %s/%s", cfg.LotteryTicketPrice, cfg.LotteryJackpotShare)
	}
}

func TestLoadDecimalOverride(t *testing.T) {
	t.Setenv("STARTING_BALANCE", "250.50")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StartingBalance.String() != "250.5" {
		t.Errorf("expected 250.5, got %s", cfg.StartingBalance)
	}
}

func TestLoadRejectsBadDecimal(t *testing.T) {
	t.Setenv("MAX_BET", "lots")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Errorf("expected parse env prefix, got %v", err)
	}
}

func TestLoadRejectsInvertedLimits(t *testing.T) {
	t.Setenv("MIN_BET", "100")
	t.Setenv("MAX_BET", "10")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected MAX_BET below MIN_BET to fail")
	}
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected missing JWT_SECRET to fail in production")
	}
}
