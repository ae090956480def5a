package xquant

import (
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/percy-xu/xquant/date"
)

// Portfolio holds the long and short positions selected by a strategy, plus
// its available cash.
type Portfolio struct {
	long  map[string]Quantity
	short map[string]Quantity
	cash  Money
}

// NewPortfolio returns an empty portfolio holding the given cash.
func NewPortfolio(cash Money) *Portfolio {
	return &Portfolio{
		long:  make(map[string]Quantity),
		short: make(map[string]Quantity),
		cash:  cash,
	}
}

// Cash returns the portfolio's available cash.
func (p *Portfolio) Cash() Money { return p.cash }

// Long returns the long position held in a ticker, zero if none.
func (p *Portfolio) Long(ticker string) Quantity { return p.long[ticker] }

// Short returns the short position held in a ticker, zero if none.
func (p *Portfolio) Short(ticker string) Quantity { return p.short[ticker] }

// SetLong sets the long position of a ticker. A zero or negative quantity
// removes the position.
func (p *Portfolio) SetLong(ticker string, shares Quantity) {
	if shares.IsZero() || shares.IsNegative() {
		delete(p.long, ticker)
		return
	}
	p.long[ticker] = shares
}

// SetShort sets the short position of a ticker. A zero or negative quantity
// removes the position.
func (p *Portfolio) SetShort(ticker string, shares Quantity) {
	if shares.IsZero() || shares.IsNegative() {
		delete(p.short, ticker)
		return
	}
	p.short[ticker] = shares
}

// SetCash replaces the portfolio's cash balance.
func (p *Portfolio) SetCash(cash Money) { p.cash = cash }

// Longs returns an iterator over the long positions in ticker order.
func (p *Portfolio) Longs() iter.Seq2[string, Quantity] { return positions(p.long) }

// Shorts returns an iterator over the short positions in ticker order.
func (p *Portfolio) Shorts() iter.Seq2[string, Quantity] { return positions(p.short) }

func positions(m map[string]Quantity) iter.Seq2[string, Quantity] {
	return func(yield func(string, Quantity) bool) {
		for _, ticker := range slices.Sorted(maps.Keys(m)) {
			if !yield(ticker, m[ticker]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the portfolio.
func (p *Portfolio) Clone() *Portfolio {
	return &Portfolio{
		long:  maps.Clone(p.long),
		short: maps.Clone(p.short),
		cash:  p.cash,
	}
}

// Equal reports whether two portfolios hold the same positions and cash.
func (p *Portfolio) Equal(o *Portfolio) bool {
	if !p.cash.Equal(o.cash) || len(p.long) != len(o.long) || len(p.short) != len(o.short) {
		return false
	}
	for t, q := range p.long {
		if !o.long[t].Equal(q) {
			return false
		}
	}
	for t, q := range p.short {
		if !o.short[t].Equal(q) {
			return false
		}
	}
	return true
}

// StockValue computes the value of all long positions at a given day's close.
//
// A position suspended from trading that day is force-liquidated at its last
// traded price: the proceeds are credited to cash and the position removed,
// mirroring how a halted stock cannot be held at a meaningful mark. On a
// non-trading day (weekend, holiday) positions are simply marked at their
// last close, with no liquidation.
func (p *Portfolio) StockValue(m *Market, on date.Date) (Money, error) {
	total := M(0, p.cash.Currency())
	var liquidate []string

	for ticker, shares := range p.Longs() {
		price, ok := m.Price(ticker, on)
		if !ok {
			if m.Suspended(ticker, on) {
				_, last, _ := m.LastTraded(ticker)
				p.cash = p.cash.Add(M(last, p.cash.Currency()).Mul(shares))
				liquidate = append(liquidate, ticker)
				continue
			}
			price, ok = m.PriceAsOf(ticker, on)
			if !ok {
				return Money{}, fmt.Errorf("no price for %q on or before %s", ticker, on)
			}
		}
		total = total.Add(M(price, p.cash.Currency()).Mul(shares))
	}

	for _, ticker := range liquidate {
		delete(p.long, ticker)
	}
	return total, nil
}

// shortExposure computes the value of all short positions, marked at the last
// close on or before the day.
func (p *Portfolio) shortExposure(m *Market, on date.Date) (Money, error) {
	total := M(0, p.cash.Currency())
	for ticker, shares := range p.Shorts() {
		price, ok := m.PriceAsOf(ticker, on)
		if !ok {
			return Money{}, fmt.Errorf("no price for %q on or before %s", ticker, on)
		}
		total = total.Add(M(price, p.cash.Currency()).Mul(shares))
	}
	return total, nil
}

// NetLiquidation computes the portfolio's net liquidation value on a given
// day: long value plus cash, minus the exposure of open short positions.
func (p *Portfolio) NetLiquidation(m *Market, on date.Date) (Money, error) {
	stocks, err := p.StockValue(m, on)
	if err != nil {
		return Money{}, err
	}
	shorts, err := p.shortExposure(m, on)
	if err != nil {
		return Money{}, err
	}
	return stocks.Add(p.cash).Sub(shorts), nil
}

// MarshalJSON implements the json.Marshaler interface.
func (p *Portfolio) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("cash", p.cash)
	if len(p.long) > 0 {
		w.Append("long", p.long)
	}
	if len(p.short) > 0 {
		w.Append("short", p.short)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *Portfolio) UnmarshalJSON(b []byte) error {
	var temp struct {
		Cash  Money               `json:"cash"`
		Long  map[string]Quantity `json:"long"`
		Short map[string]Quantity `json:"short"`
	}
	if err := json.Unmarshal(b, &temp); err != nil {
		return err
	}
	p.cash = temp.Cash
	p.long = temp.Long
	p.short = temp.Short
	if p.long == nil {
		p.long = make(map[string]Quantity)
	}
	if p.short == nil {
		p.short = make(map[string]Quantity)
	}
	return nil
}
