package analytics

import (
	"context"
	"sort"

	"github.com/naya-pay/naya_pay/internal/wallet"
)

// KindTotal aggregates signed entry amounts for one transaction kind.
type KindTotal struct {
	Kind     string
	In       int64
	Out      int64
	Count    int
	NetMinor int64
}

// Summary is a spending breakdown over a window of wallet history.
type Summary struct {
	WalletID   string
	TotalIn    int64
	TotalOut   int64
	NetMinor   int64
	Entries    int
	ByKind     []KindTotal
	WindowSize int
}

// Service derives spending summaries from wallet history.
type Service struct {
	wallets *wallet.Service
}

// NewService constructs an analytics service.
func NewService(wallets *wallet.Service) *Service {
	return &Service{wallets: wallets}
}

// Spending aggregates up to windowSize recent entries for the wallet.
func (s *Service) Spending(ctx context.Context, walletID string, windowSize int) (Summary, error) {
	if windowSize <= 0 || windowSize > 500 {
		windowSize = 100
	}

	entries, err := s.wallets.Transactions(ctx, walletID, 1, windowSize)
	if err != nil {
		return Summary{}, err
	}

	byKind := make(map[string]*KindTotal)
	summary := Summary{WalletID: walletID, WindowSize: windowSize}
	for _, e := range entries {
		kt, ok := byKind[e.Kind]
		if !ok {
			kt = &KindTotal{Kind: e.Kind}
			byKind[e.Kind] = kt
		}
		kt.Count++
		if e.Amount >= 0 {
			kt.In += e.Amount
			summary.TotalIn += e.Amount
		} else {
			kt.Out += -e.Amount
			summary.TotalOut += -e.Amount
		}
		kt.NetMinor += e.Amount
		summary.NetMinor += e.Amount
	}
	summary.Entries = len(entries)

	summary.ByKind = make([]KindTotal, 0, len(byKind))
	for _, kt := range byKind {
		summary.ByKind = append(summary.ByKind, *kt)
	}
	sort.Slice(summary.ByKind, func(i, j int) bool {
		if summary.ByKind[i].Out != summary.ByKind[j].Out {
			return summary.ByKind[i].Out > summary.ByKind[j].Out
		}
		return summary.ByKind[i].Kind < summary.ByKind[j].Kind
	})

	return summary, nil
}
