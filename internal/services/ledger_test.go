package services_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"micro-casino-engine/internal/models"
	"micro-casino-engine/internal/services"
)

func TestLedgerProvisionsNewUsers(t *testing.T) {
	ledger, _ := newTestLedger(newFakeClock())

	u, err := ledger.GetOrCreate(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if !u.Balance.Equal(d("1000")) {
		t.Errorf("starting balance = %s, want 1000", u.Balance)
	}
	if u.VIPLevel != models.VIPBronze {
		t.Errorf("vip level = %s, want Bronze", u.VIPLevel)
	}
	if u.Username != "player_7" {
		t.Errorf("username = %q", u.Username)
	}
}

func TestLedgerDebitInsufficientFunds(t *testing.T) {
	ledger, store := newTestLedger(newFakeClock())
	ctx := context.Background()

	_, err := ledger.Debit(ctx, 1, d("1000.01"), services.Ref{Game: models.GameTypeSlots})
	assertErrorIs(t, err, services.ErrInsufficientFunds)
	assertBalance(t, ledger, 1, "1000")

	txs, _ := store.GetUserTransactions(ctx, 1, 10)
	if len(txs) != 0 {
		t.Errorf("failed debit left %d transactions", len(txs))
	}
}

func TestLedgerRejectsNonPositiveAmounts(t *testing.T) {
	ledger, _ := newTestLedger(newFakeClock())
	ctx := context.Background()

	if _, err := ledger.Debit(ctx, 1, d("0"), services.Ref{}); !errors.Is(err, services.ErrInvalidBet) {
		t.Errorf("Debit(0) error = %v", err)
	}
	if _, err := ledger.Credit(ctx, 1, d("-5"), services.Ref{}); !errors.Is(err, services.ErrInvalidBet) {
		t.Errorf("Credit(-5) error = %v", err)
	}
}

func TestLedgerTransactionsCarryBalanceAfter(t *testing.T) {
	ledger, _ := newTestLedger(newFakeClock())
	ctx := context.Background()
	ref := services.Ref{Game: models.GameTypeDice, RoundID: "dice_1"}

	if _, err := ledger.Debit(ctx, 1, d("40"), ref); err != nil {
		t.Fatalf("Debit: %v", err)
	}
	bal, err := ledger.Credit(ctx, 1, d("15.50"), ref)
	if err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if !bal.Equal(d("975.5")) {
		t.Errorf("Credit returned %s, want 975.50", bal)
	}

	txs, err := ledger.Transactions(ctx, 1, 10)
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	// Newest first.
	if txs[0].Type != models.TransactionTypePayout || !txs[0].BalanceAfter.Equal(d("975.5")) {
		t.Errorf("payout tx = %+v", txs[0])
	}
	if txs[1].Type != models.TransactionTypeBet || !txs[1].BalanceAfter.Equal(d("960")) {
		t.Errorf("bet tx = %+v", txs[1])
	}
	if txs[1].RoundID != "dice_1" {
		t.Errorf("bet tx round = %q", txs[1].RoundID)
	}
}

func TestLedgerSettleUpdatesStats(t *testing.T) {
	ledger, _ := newTestLedger(newFakeClock())
	ctx := context.Background()

	if _, err := ledger.Debit(ctx, 1, d("200"), services.Ref{Game: models.GameTypeSlots}); err != nil {
		t.Fatalf("Debit: %v", err)
	}
	u, err := ledger.Settle(ctx, 1, services.Settlement{Game: models.GameTypeSlots, RoundID: "r1", Wagered: d("200"), Payout: d("500")})
	if err != nil {
		t.Fatalf("Settle win: %v", err)
	}
	if !u.Balance.Equal(d("1300")) || !u.TotalWon.Equal(d("500")) || !u.TotalLost.IsZero() {
		t.Errorf("after win: balance=%s won=%s lost=%s", u.Balance, u.TotalWon, u.TotalLost)
	}
	if u.LoyaltyPoints != 20 || u.GamesPlayed != 1 {
		t.Errorf("after win: points=%d games=%d", u.LoyaltyPoints, u.GamesPlayed)
	}

	if _, err := ledger.Debit(ctx, 1, d("75"), services.Ref{Game: models.GameTypeSlots}); err != nil {
		t.Fatalf("Debit: %v", err)
	}
	u, err = ledger.Settle(ctx, 1, services.Settlement{Game: models.GameTypeSlots, RoundID: "r2", Wagered: d("75"), Payout: d("0")})
	if err != nil {
		t.Fatalf("Settle loss: %v", err)
	}
	if !u.Balance.Equal(d("1225")) || !u.TotalLost.Equal(d("75")) {
		t.Errorf("after loss: balance=%s lost=%s", u.Balance, u.TotalLost)
	}
	if u.LoyaltyPoints != 27 || u.GamesPlayed != 2 || !u.TotalWagered.Equal(d("275")) {
		t.Errorf("after loss: points=%d games=%d wagered=%s", u.LoyaltyPoints, u.GamesPlayed, u.TotalWagered)
	}

	history, err := ledger.History(ctx, 1, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 || history[0].Outcome != models.OutcomeLoss || history[1].Outcome != models.OutcomeWin {
		t.Errorf("history = %+v", history)
	}
}

func TestLedgerWithdrawAndDeposit(t *testing.T) {
	ledger, _ := newTestLedger(newFakeClock())
	ctx := context.Background()

	if _, err := ledger.Deposit(ctx, 3, d("250")); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if _, err := ledger.Withdraw(ctx, 3, d("1250.01")); !errors.Is(err, services.ErrInsufficientFunds) {
		t.Errorf("over-withdraw error = %v", err)
	}
	if _, err := ledger.Withdraw(ctx, 3, d("1250")); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	assertBalance(t, ledger, 3, "0")
}

func TestLedgerConcurrentDebitsNeverOverdraw(t *testing.T) {
	ledger, _ := newTestLedger(newFakeClock())
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		success atomic.Int64
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := ledger.Debit(ctx, 1, d("15"), services.Ref{Game: models.GameTypeDice})
			if err != nil {
				if !errors.Is(err, services.ErrInsufficientFunds) {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if u.Balance.IsNegative() {
				t.Errorf("observed negative balance %s", u.Balance)
			}
			success.Add(1)
		}()
	}
	wg.Wait()

	if success.Load() != 66 {
		t.Errorf("%d debits succeeded, want 66", success.Load())
	}
	assertBalance(t, ledger, 1, "10")
}

func TestLedgerFailedCommitLeavesNoTrace(t *testing.T) {
	ledger, store := newFlakyLedger(newFakeClock())
	ctx := context.Background()
	ref := services.Ref{Game: models.GameTypeDice, RoundID: "dice_1"}

	if _, err := ledger.GetOrCreate(ctx, 1); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	store.down.Store(true)
	_, err := ledger.Debit(ctx, 1, d("100"), ref)
	assertErrorIs(t, err, errStoreDown)
	_, err = ledger.Settle(ctx, 1, services.Settlement{Game: models.GameTypeDice, Wagered: d("100"), Payout: d("50")})
	assertErrorIs(t, err, errStoreDown)

	store.down.Store(false)
	assertBalance(t, ledger, 1, "1000")
	txs, err := ledger.Transactions(ctx, 1, 10)
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("%d transactions recorded for failed writes", len(txs))
	}

	if _, err := ledger.Debit(ctx, 1, d("100"), ref); err != nil {
		t.Fatalf("Debit: %v", err)
	}
	txs, _ = ledger.Transactions(ctx, 1, 10)
	if len(txs) != 1 || !txs[0].BalanceAfter.Equal(d("900")) {
		t.Errorf("transactions after recovery = %+v", txs)
	}
}

func TestLedgerSettleTakesStakeInSameWrite(t *testing.T) {
	ledger, _ := newTestLedger(newFakeClock())
	ctx := context.Background()

	u, err := ledger.Settle(ctx, 1, services.Settlement{
		Game:    models.GameTypeBlackjack,
		RoundID: "blackjack_1",
		Stake:   d("50"),
		Wagered: d("50"),
		Payout:  d("125"),
	})
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if !u.Balance.Equal(d("1075")) || !u.TotalWagered.Equal(d("50")) || u.GamesPlayed != 1 {
		t.Errorf("user = balance %s wagered %s games %d", u.Balance, u.TotalWagered, u.GamesPlayed)
	}

	txs, _ := ledger.Transactions(ctx, 1, 10)
	if len(txs) != 2 || txs[1].Type != models.TransactionTypeBet || txs[0].Type != models.TransactionTypePayout {
		t.Fatalf("transactions = %+v", txs)
	}
	if !txs[1].BalanceAfter.Equal(d("950")) {
		t.Errorf("stake balance after = %s, want 950", txs[1].BalanceAfter)
	}

	_, err = ledger.Settle(ctx, 1, services.Settlement{
		Game:    models.GameTypeBlackjack,
		Stake:   d("5000"),
		Wagered: d("5000"),
	})
	assertErrorIs(t, err, services.ErrInsufficientFunds)
	assertBalance(t, ledger, 1, "1075")
}
