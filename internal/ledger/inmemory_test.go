package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestInMemoryLedger_TransferMaintainsBalance(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	if err := l.EnsureAccount(ctx, "wallet:a"); err != nil {
		t.Fatalf("ensure account a: %v", err)
	}
	if err := l.EnsureAccount(ctx, "wallet:b"); err != nil {
		t.Fatalf("ensure account b: %v", err)
	}

	SeedBalance(l, "wallet:a", 10_000)

	res, err := l.Transfer(ctx, "wallet:a", "wallet:b", KindP2P, "client-1", 1_500)
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	if res.FromBalance != 8_500 {
		t.Fatalf("expected from balance 8500, got %d", res.FromBalance)
	}
	if res.ToBalance != 1_500 {
		t.Fatalf("expected to balance 1500, got %d", res.ToBalance)
	}

	ledgerImpl := l.(*inMemoryLedger)
	total := ledgerImpl.balances["wallet:a"] + ledgerImpl.balances["wallet:b"]
	if total != 10_000 {
		t.Fatalf("ledger not balanced, total=%d", total)
	}
}

func TestInMemoryLedger_OverdraftRejected(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	l.EnsureAccount(ctx, "wallet:a")
	l.EnsureAccount(ctx, "wallet:b")
	SeedBalance(l, "wallet:a", 100)

	if _, err := l.Transfer(ctx, "wallet:a", "wallet:b", KindP2P, "tx", 150); err != ErrInsufficientFunds {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	// Balance must remain untouched after the failed debit.
	balance, err := l.Balance(ctx, "wallet:a")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 100 {
		t.Fatalf("expected balance 100 after failed debit, got %d", balance)
	}
}

func TestInMemoryLedger_SelfTransferRejected(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	l.EnsureAccount(ctx, "wallet:a")
	SeedBalance(l, "wallet:a", 1_000)

	if _, err := l.Transfer(ctx, "wallet:a", "wallet:a", KindP2P, "self", 250); err != ErrSameAccount {
		t.Fatalf("expected same-account error, got %v", err)
	}

	// Nothing may be minted by the rejected posting.
	balance, err := l.Balance(ctx, "wallet:a")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 1_000 {
		t.Fatalf("expected balance 1000 after rejected self transfer, got %d", balance)
	}
	entries, err := l.Entries(ctx, "wallet:a", 1, 10)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries recorded, got %d", len(entries))
	}
}

func TestInMemoryLedger_UnknownAccount(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	l.EnsureAccount(ctx, "wallet:a")
	SeedBalance(l, "wallet:a", 1_000)

	if _, err := l.Balance(ctx, "wallet:missing"); err != ErrAccountNotFound {
		t.Fatalf("expected account-not-found, got %v", err)
	}
	if _, err := l.Transfer(ctx, "wallet:a", "wallet:missing", KindP2P, "tx-miss", 100); err != ErrAccountNotFound {
		t.Fatalf("expected account-not-found on transfer, got %v", err)
	}
}

func TestInMemoryLedger_DuplicateTransaction(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	l.EnsureAccount(ctx, "wallet:a")
	l.EnsureAccount(ctx, "wallet:b")
	SeedBalance(l, "wallet:a", 5_000)

	if _, err := l.Transfer(ctx, "wallet:a", "wallet:b", KindP2P, "dup", 500); err != nil {
		t.Fatalf("initial transfer failed: %v", err)
	}
	if _, err := l.Transfer(ctx, "wallet:a", "wallet:b", KindP2P, "dup", 500); err != ErrDuplicateTransaction {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	balance, _ := l.Balance(ctx, "wallet:a")
	if balance != 4_500 {
		t.Fatalf("duplicate must not move funds twice, balance=%d", balance)
	}
}

func TestInMemoryLedger_ConcurrentTransfers(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	l.EnsureAccount(ctx, "wallet:a")
	l.EnsureAccount(ctx, "wallet:b")
	SeedBalance(l, "wallet:a", 100_000)
	ledgerImpl := l.(*inMemoryLedger)

	const workers = 10
	const amount = int64(500)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			txID := fmt.Sprintf("tx-%d", i)
			if _, err := l.Transfer(ctx, "wallet:a", "wallet:b", KindP2P, txID, amount); err != nil {
				t.Errorf("transfer %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	total := ledgerImpl.balances["wallet:a"] + ledgerImpl.balances["wallet:b"]
	if total != 100_000 {
		t.Fatalf("ledger not balanced after concurrency, total=%d", total)
	}
}

func TestInMemoryLedger_TopUpAndWithdraw(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	l.EnsureAccount(ctx, "wallet:a")

	res, err := l.TopUp(ctx, "wallet:a", KindTopUp, "client-topup", 2_000)
	if err != nil {
		t.Fatalf("topup failed: %v", err)
	}
	if res.ToBalance != 2_000 {
		t.Fatalf("expected wallet balance 2000, got %d", res.ToBalance)
	}

	// The treasury absorbs the externally funded value.
	treasury, _ := l.Balance(ctx, TreasuryAccountCode)
	if treasury != -2_000 {
		t.Fatalf("expected treasury -2000, got %d", treasury)
	}

	if _, err := l.TopUp(ctx, "wallet:a", KindTopUp, "client-topup", 2_000); err != ErrDuplicateTransaction {
		t.Fatalf("expected duplicate topup error, got %v", err)
	}

	out, err := l.Withdraw(ctx, "wallet:a", KindWithdraw, "client-wd", 1_500)
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if out.FromBalance != 500 {
		t.Fatalf("expected wallet balance 500, got %d", out.FromBalance)
	}

	if _, err := l.Withdraw(ctx, "wallet:a", KindWithdraw, "client-wd-2", 10_000); err != ErrInsufficientFunds {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
}

func TestInMemoryLedger_EntriesPagination(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	l.EnsureAccount(ctx, "wallet:a")

	for i := 0; i < 5; i++ {
		if _, err := l.TopUp(ctx, "wallet:a", KindTopUp, fmt.Sprintf("tx-%d", i), int64(100*(i+1))); err != nil {
			t.Fatalf("topup %d: %v", i, err)
		}
	}

	first, err := l.Entries(ctx, "wallet:a", 1, 2)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(first))
	}
	// Newest first: the last topup was 500.
	if first[0].Amount != 500 {
		t.Fatalf("expected newest entry 500, got %d", first[0].Amount)
	}

	third, err := l.Entries(ctx, "wallet:a", 3, 2)
	if err != nil {
		t.Fatalf("entries page 3: %v", err)
	}
	if len(third) != 1 || third[0].Amount != 100 {
		t.Fatalf("expected final page with amount 100, got %+v", third)
	}
}
