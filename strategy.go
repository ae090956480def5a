package xquant

import (
	"context"
	"errors"
	"fmt"

	"github.com/percy-xu/xquant/date"
)

// Strategy is the decision procedure of a back-test: given the funds
// available on a rebalancing day, it selects the portfolio to hold until the
// next rebalance.
//
// Select is called with the rebalancing date, which is not necessarily a
// trading day; implementations are expected to snap to the trading calendar
// themselves when they need prices.
type Strategy interface {
	Name() string
	Select(ctx context.Context, funds Money, on date.Date) (*Portfolio, error)
}

// EqualWeight is a reference strategy that splits the available funds
// equally across a fixed universe of tickers, buying whole shares at the
// close of the last trading day on or before the rebalancing date. Leftover
// cash stays in the portfolio.
type EqualWeight struct {
	market   *Market
	universe []string
}

// NewEqualWeight returns an equal-weight strategy over the given universe.
func NewEqualWeight(m *Market, tickers ...string) (*EqualWeight, error) {
	if len(tickers) == 0 {
		return nil, errors.New("equal-weight universe is empty")
	}
	for _, t := range tickers {
		if !m.Has(t) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTicker, t)
		}
	}
	return &EqualWeight{market: m, universe: tickers}, nil
}

func (s *EqualWeight) Name() string { return "equal-weight" }

// Select builds the equal-weight portfolio for the rebalancing date.
func (s *EqualWeight) Select(ctx context.Context, funds Money, on date.Date) (*Portfolio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	day, err := s.market.ClosestTradingDay(on, Ffill)
	if err != nil {
		return nil, fmt.Errorf("equal-weight on %s: %w", on, err)
	}

	p := NewPortfolio(funds)
	alloc := funds.Div(Q(len(s.universe)))
	for _, ticker := range s.universe {
		close, ok := s.market.Price(ticker, day)
		if !ok {
			// suspended on the rebalancing day, skip and keep the cash
			continue
		}
		shares := alloc.DivPrice(M(close, funds.Currency())).Floor()
		if shares.IsZero() {
			continue
		}
		if _, err := Buy(p, s.market, ticker, shares, day); err != nil {
			return nil, fmt.Errorf("equal-weight on %s: %w", day, err)
		}
	}
	return p, nil
}
