package ledger

import (
	"context"
	"sync"
	"time"
)

type inMemoryLedger struct {
	mu           sync.RWMutex
	balances     map[string]int64
	transactions map[string]TransactionResult
	entries      map[string][]Entry
}

// NewInMemory creates a concurrency-safe in-memory ledger useful for unit
// tests and dev mode.
func NewInMemory() Ledger {
	l := &inMemoryLedger{
		balances:     make(map[string]int64),
		transactions: make(map[string]TransactionResult),
		entries:      make(map[string][]Entry),
	}
	l.balances[TreasuryAccountCode] = 0
	return l
}

func (l *inMemoryLedger) EnsureAccount(_ context.Context, code string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.balances[code]; !exists {
		l.balances[code] = 0
	}
	return nil
}

func (l *inMemoryLedger) Balance(_ context.Context, code string) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	balance, exists := l.balances[code]
	if !exists {
		return 0, ErrAccountNotFound
	}
	return balance, nil
}

func (l *inMemoryLedger) Transfer(_ context.Context, fromCode, toCode, kind, clientTxID string, amount int64) (TransactionResult, error) {
	return l.post(fromCode, toCode, kind, clientTxID, amount, false)
}

func (l *inMemoryLedger) TopUp(_ context.Context, code, kind, clientTxID string, amount int64) (TransactionResult, error) {
	return l.post(TreasuryAccountCode, code, kind, clientTxID, amount, true)
}

func (l *inMemoryLedger) Withdraw(_ context.Context, code, kind, clientTxID string, amount int64) (TransactionResult, error) {
	return l.post(code, TreasuryAccountCode, kind, clientTxID, amount, false)
}

func (l *inMemoryLedger) post(fromCode, toCode, kind, clientTxID string, amount int64, allowNegativeFrom bool) (TransactionResult, error) {
	if amount <= 0 {
		return TransactionResult{}, ErrInsufficientFunds
	}
	if fromCode == toCode {
		return TransactionResult{}, ErrSameAccount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	txID := kind + ":" + clientTxID
	if res, exists := l.transactions[txID]; exists {
		return res, ErrDuplicateTransaction
	}

	fromBalance, ok := l.balances[fromCode]
	if !ok {
		return TransactionResult{}, ErrAccountNotFound
	}
	toBalance, ok := l.balances[toCode]
	if !ok {
		return TransactionResult{}, ErrAccountNotFound
	}

	if !allowNegativeFrom && fromBalance < amount {
		return TransactionResult{}, ErrInsufficientFunds
	}

	fromBalance -= amount
	toBalance += amount

	l.balances[fromCode] = fromBalance
	l.balances[toCode] = toBalance

	now := time.Now().UTC()
	l.entries[fromCode] = append(l.entries[fromCode], Entry{TransactionID: txID, Kind: kind, Amount: -amount, Counterparty: toCode, CreatedAt: now})
	l.entries[toCode] = append(l.entries[toCode], Entry{TransactionID: txID, Kind: kind, Amount: amount, Counterparty: fromCode, CreatedAt: now})

	res := TransactionResult{
		TransactionID: txID,
		FromBalance:   fromBalance,
		ToBalance:     toBalance,
	}

	l.transactions[txID] = res
	return res, nil
}

func (l *inMemoryLedger) Entries(_ context.Context, code string, page, limit int) ([]Entry, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	all := l.entries[code]
	// Newest first.
	out := make([]Entry, 0, limit)
	start := (page - 1) * limit
	for i := len(all) - 1 - start; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}
