package xquant

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/percy-xu/xquant/date"
	"gopkg.in/yaml.v3"
)

// Config holds the parameters of a back-test run.
type Config struct {
	Start     date.Date   `yaml:"start"`
	End       date.Date   `yaml:"end"`
	Funds     float64     `yaml:"funds"`
	Currency  string      `yaml:"currency"`
	Rebalance date.Period `yaml:"rebalance"`
	RiskFree  float64     `yaml:"risk-free"`
	Benchmark string      `yaml:"benchmark,omitempty"`
}

// DefaultRiskFree is the risk free rate assumed when none is configured.
const DefaultRiskFree = 0.04

// DecodeConfig reads and validates a YAML run configuration.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := Config{
		Currency:  DefaultCurrency,
		Rebalance: date.Monthly,
		RiskFree:  DefaultRiskFree,
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for obvious mistakes.
func (c Config) Validate() error {
	if c.Start.IsZero() || c.End.IsZero() {
		return errors.New("config: start and end dates are required")
	}
	if !c.Start.Before(c.End) {
		return fmt.Errorf("config: start %s must be before end %s", c.Start, c.End)
	}
	if c.Funds <= 0 {
		return errors.New("config: funds must be positive")
	}
	if c.RiskFree < 0 || c.RiskFree > 1 {
		return errors.New("config: risk-free rate must be between 0 and 1")
	}
	return nil
}

// Result is the outcome of a back-test run.
type Result struct {
	Config   Config
	Holdings *Holdings
	Equity   *date.History[float64] // net liquidation on every trading day
	Trades   []Trade                // implied rebalancing trades
}

// Run replays the strategy over the market between the configured dates.
//
// At every rebalancing boundary, the strategy selects the portfolio to hold
// for the period, funded with the net liquidation value of the previous
// portfolio (the initial funds for the first period). The equity curve
// records the net liquidation value on every trading day of the run.
func Run(ctx context.Context, cfg Config, m *Market, s Strategy) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errors.New("nil strategy")
	}

	holdings := NewHoldings()
	var trades []Trade
	var prev *Portfolio
	funds := M(cfg.Funds, cfg.Currency)

	for now := cfg.Start; !now.After(cfg.End); {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := now.EndOf(cfg.Rebalance)
		if end.After(cfg.End) {
			end = cfg.End
		}

		if prev != nil {
			value, err := prev.NetLiquidation(m, now.Add(-1))
			if err != nil {
				return nil, fmt.Errorf("rebalance on %s: %w", now, err)
			}
			funds = value
		}

		p, err := s.Select(ctx, funds, now)
		if err != nil {
			return nil, fmt.Errorf("strategy %q on %s: %w", s.Name(), now, err)
		}
		if p == nil {
			return nil, fmt.Errorf("strategy %q returned no portfolio on %s", s.Name(), now)
		}
		if err := holdings.Assign(date.Range{From: now, To: end}, p); err != nil {
			return nil, err
		}
		trades = append(trades, rebalanceTrades(prev, p, m, now)...)

		prev = p
		now = end.Add(1)
	}

	equity, err := EquityCurve(holdings, m, date.Range{From: cfg.Start, To: cfg.End})
	if err != nil {
		return nil, err
	}
	return &Result{Config: cfg, Holdings: holdings, Equity: equity, Trades: trades}, nil
}

// EquityCurve computes the net liquidation value of the holdings on every
// trading day within r.
func EquityCurve(h *Holdings, m *Market, r date.Range) (*date.History[float64], error) {
	equity := &date.History[float64]{}
	for _, day := range m.TradingDays() {
		if !r.Contains(day) {
			continue
		}
		p, err := h.PortfolioAt(day)
		if err != nil {
			return nil, err
		}
		value, err := p.NetLiquidation(m, day)
		if err != nil {
			return nil, fmt.Errorf("equity on %s: %w", day, err)
		}
		equity.Append(day, value.AsFloat())
	}
	if equity.Len() == 0 {
		return nil, fmt.Errorf("no trading day in %s", r)
	}
	return equity, nil
}

// rebalanceTrades derives the buy/sell trades implied by moving from the
// previous portfolio's long positions to the next one's, priced at the last
// close on or before the rebalancing date.
func rebalanceTrades(prev, next *Portfolio, m *Market, on date.Date) []Trade {
	var trades []Trade
	seen := make(map[string]bool)

	diff := func(ticker string) {
		if seen[ticker] {
			return
		}
		seen[ticker] = true
		var before, after Quantity
		if prev != nil {
			before = prev.Long(ticker)
		}
		after = next.Long(ticker)
		delta := after.Sub(before)
		if delta.IsZero() {
			return
		}
		close, ok := m.PriceAsOf(ticker, on)
		if !ok {
			return
		}
		unit := M(close, next.Cash().Currency())
		side, shares := SideBuy, delta
		if delta.IsNegative() {
			side, shares = SideSell, delta.Neg()
		}
		trades = append(trades, Trade{
			Side: side, Date: on, Ticker: ticker,
			Shares: shares, Price: unit, Amount: unit.Mul(shares),
		})
	}

	if prev != nil {
		for ticker := range prev.Longs() {
			diff(ticker)
		}
	}
	for ticker := range next.Longs() {
		diff(ticker)
	}
	return trades
}
