// Package ledger is the minimal cash/margin bookkeeping the matching engine
// needs for order admission. It subscribes to the book's fill events instead
// of holding a reference to the market, so neither side needs the other at
// construction time.
package ledger

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/granary/futures-sim/internal/book"
	"github.com/granary/futures-sim/internal/observ"
)

// Accounts tracks available margin per trader, in exact decimal arithmetic.
type Accounts struct {
	mu       sync.RWMutex
	balances map[string]decimal.Decimal
}

func New() *Accounts {
	return &Accounts{balances: map[string]decimal.Decimal{}}
}

// Deposit credits a trader's account.
func (a *Accounts) Deposit(trader string, amount decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balances[trader] = a.balances[trader].Add(amount)
}

// AvailableMargin satisfies the book's admission lookup.
func (a *Accounts) AvailableMargin(trader string) decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.balances[trader]
}

// ApplyFill settles one fill event: buys debit cash, sells credit it.
func (a *Accounts) ApplyFill(ev book.FillEvent) {
	if ev.Trader == "" {
		return
	}
	notional := decimal.NewFromFloat(ev.Price).Mul(decimal.NewFromFloat(ev.Quantity))

	a.mu.Lock()
	defer a.mu.Unlock()
	if ev.Side == book.SideBuy {
		a.balances[ev.Trader] = a.balances[ev.Trader].Sub(notional)
	} else {
		a.balances[ev.Trader] = a.balances[ev.Trader].Add(notional)
	}
	observ.IncCounter("ledger_settlements_total", map[string]string{"symbol": ev.Symbol})
}
