package xquant

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/percy-xu/xquant/date"
)

// Side is a typed string identifying the direction of a trade.
type Side string

const (
	SideBuy   Side = "buy"
	SideSell  Side = "sell"
	SideShort Side = "short"
)

// ErrInsufficientCash reports a buy whose cost exceeds the portfolio's cash.
var ErrInsufficientCash = errors.New("insufficient cash, cannot fill order")

// ErrInsufficientShares reports a sell of more shares than are held long.
// Opening a short position is done with Short, not Sell.
var ErrInsufficientShares = errors.New("not enough long positions to fill order, use Short to open a short position")

// ErrNoPrice reports a transaction on a day the security has no price.
var ErrNoPrice = errors.New("no price for security on that day")

// Trade records a single executed transaction.
type Trade struct {
	Side   Side      `json:"side"`
	Date   date.Date `json:"date"`
	Ticker string    `json:"ticker"`
	Shares Quantity  `json:"shares"`
	Price  Money     `json:"price"`  // per share
	Amount Money     `json:"amount"` // total transaction value
}

// Equal reports whether two trades are identical.
func (t Trade) Equal(o Trade) bool {
	return t.Side == o.Side && t.Date == o.Date && t.Ticker == o.Ticker &&
		t.Shares.Equal(o.Shares) && t.Price.Equal(o.Price) && t.Amount.Equal(o.Amount)
}

// price resolves the exact close price of a transaction day.
func price(p *Portfolio, m *Market, ticker string, on date.Date) (Money, error) {
	close, ok := m.Price(ticker, on)
	if !ok {
		return Money{}, fmt.Errorf("%w: %q on %s", ErrNoPrice, ticker, on)
	}
	return M(close, p.cash.Currency()), nil
}

// Buy purchases shares of a security at the day's close, debiting cash.
func Buy(p *Portfolio, m *Market, ticker string, shares Quantity, on date.Date) (Trade, error) {
	unit, err := price(p, m, ticker, on)
	if err != nil {
		return Trade{}, err
	}
	cost := unit.Mul(shares)
	if p.cash.LessThan(cost) {
		return Trade{}, fmt.Errorf("buy %s %s on %s: %w", shares, ticker, on, ErrInsufficientCash)
	}
	p.cash = p.cash.Sub(cost)
	p.SetLong(ticker, p.Long(ticker).Add(shares))
	return Trade{Side: SideBuy, Date: on, Ticker: ticker, Shares: shares, Price: unit, Amount: cost}, nil
}

// Sell closes (part of) a long position at the day's close, crediting cash.
func Sell(p *Portfolio, m *Market, ticker string, shares Quantity, on date.Date) (Trade, error) {
	if p.Long(ticker).LessThan(shares) {
		return Trade{}, fmt.Errorf("sell %s %s on %s: %w", shares, ticker, on, ErrInsufficientShares)
	}
	unit, err := price(p, m, ticker, on)
	if err != nil {
		return Trade{}, err
	}
	proceeds := unit.Mul(shares)
	p.SetLong(ticker, p.Long(ticker).Sub(shares))
	p.cash = p.cash.Add(proceeds)
	return Trade{Side: SideSell, Date: on, Ticker: ticker, Shares: shares, Price: unit, Amount: proceeds}, nil
}

// Short opens (or extends) a short position at the day's close, crediting
// cash with the proceeds.
func Short(p *Portfolio, m *Market, ticker string, shares Quantity, on date.Date) (Trade, error) {
	unit, err := price(p, m, ticker, on)
	if err != nil {
		return Trade{}, err
	}
	proceeds := unit.Mul(shares)
	p.SetShort(ticker, p.Short(ticker).Add(shares))
	p.cash = p.cash.Add(proceeds)
	return Trade{Side: SideShort, Date: on, Ticker: ticker, Shares: shares, Price: unit, Amount: proceeds}, nil
}

// EncodeTrades writes trades as JSONL, one trade per line, in a stable field
// order.
func EncodeTrades(w io.Writer, trades []Trade) error {
	for _, t := range trades {
		var obj jsonObjectWriter
		obj.Append("side", t.Side)
		obj.Append("date", t.Date)
		obj.Append("ticker", t.Ticker)
		obj.Append("shares", t.Shares)
		obj.Append("price", t.Price)
		obj.Append("amount", t.Amount)
		line, err := obj.MarshalJSON()
		if err != nil {
			return fmt.Errorf("could not encode trade: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// DecodeTrades reads a JSONL stream of trades.
func DecodeTrades(r io.Reader) ([]Trade, error) {
	var trades []Trade
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var t Trade
		if err := json.Unmarshal(line, &t); err != nil {
			return nil, fmt.Errorf("could not decode trade line %q: %w", string(line), err)
		}
		trades = append(trades, t)
	}
	return trades, scanner.Err()
}
