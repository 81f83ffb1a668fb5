package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granary/futures-sim/internal/book"
)

func TestApplyFillSettlesCash(t *testing.T) {
	a := New()
	a.Deposit("alice", decimal.NewFromInt(1000))

	a.ApplyFill(book.FillEvent{Symbol: "WHEAT", Trader: "alice", Side: book.SideBuy, Quantity: 5, Price: 10})
	assert.True(t, a.AvailableMargin("alice").Equal(decimal.NewFromInt(950)))

	a.ApplyFill(book.FillEvent{Symbol: "WHEAT", Trader: "alice", Side: book.SideSell, Quantity: 5, Price: 12})
	assert.True(t, a.AvailableMargin("alice").Equal(decimal.NewFromInt(1010)))
}

func TestSyntheticFillsIgnored(t *testing.T) {
	a := New()
	a.ApplyFill(book.FillEvent{Symbol: "WHEAT", Side: book.SideBuy, Quantity: 5, Price: 10})
	assert.True(t, a.AvailableMargin("").IsZero())
}

func TestMarginLookupSatisfiesBook(t *testing.T) {
	a := New()
	a.Deposit("bob", decimal.NewFromInt(100))

	b := book.New("WHEAT", a.AvailableMargin, a.ApplyFill)
	_, err := b.Submit(book.Order{Side: book.SideBuy, Kind: book.KindLimit, Price: 50, Quantity: 10, Trader: "bob"})
	assert.ErrorIs(t, err, book.ErrInsufficientMargin)

	_, err = b.Submit(book.Order{Side: book.SideBuy, Kind: book.KindLimit, Price: 50, Quantity: 2, Trader: "bob"})
	assert.NoError(t, err)
}

func TestMarketBuySettlesCash(t *testing.T) {
	a := New()
	a.Deposit("alice", decimal.NewFromInt(1000))

	b := book.New("WHEAT", a.AvailableMargin, a.ApplyFill)
	_, err := b.Submit(book.Order{Side: book.SideSell, Kind: book.KindLimit, Price: 10, Quantity: 5, Synthetic: true})
	require.NoError(t, err)

	rep, err := b.Submit(book.Order{Side: book.SideBuy, Kind: book.KindMarket, Quantity: 5, Trader: "alice"})
	require.NoError(t, err)
	require.Equal(t, 5.0, rep.Filled)

	// 5 @ 10 against synthetic depth debits the buyer
	assert.True(t, a.AvailableMargin("alice").Equal(decimal.NewFromInt(950)),
		"balance %s, want 950", a.AvailableMargin("alice"))
}
