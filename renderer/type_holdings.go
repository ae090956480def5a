package renderer

import (
	"fmt"

	"github.com/percy-xu/xquant"
)

// Holdings represents the holdings history of a back-test in json.
type Holdings struct {
	// Strategy is the name of the strategy that produced the holdings.
	Strategy string `json:"strategy,omitempty"`
	// Periods lists every holding period in chronological order.
	Periods []HoldingPeriod `json:"periods"`
}

// HoldingPeriod represents the portfolio held over a single period.
type HoldingPeriod struct {
	From      string            `json:"from"`
	To        string            `json:"to"`
	Cash      string            `json:"cash"`
	Equity    string            `json:"equity"`
	Positions []HoldingPosition `json:"positions"`
}

// HoldingPosition represents a single position, long or short.
type HoldingPosition struct {
	Ticker string `json:"ticker"`
	Side   string `json:"side"`
	Shares string `json:"shares"`
}

// NewHoldings builds the holdings view, valuing each period's portfolio at
// its last day.
func NewHoldings(strategy string, h *xquant.Holdings, m *xquant.Market) (*Holdings, error) {
	view := &Holdings{Strategy: strategy}
	for r, p := range h.Periods() {
		value, err := p.Clone().NetLiquidation(m, r.To)
		if err != nil {
			return nil, fmt.Errorf("period %s: %w", r, err)
		}
		period := HoldingPeriod{
			From:   r.From.String(),
			To:     r.To.String(),
			Cash:   p.Cash().String(),
			Equity: value.String(),
		}
		for ticker, shares := range p.Longs() {
			period.Positions = append(period.Positions, HoldingPosition{
				Ticker: ticker, Side: "long", Shares: shares.String(),
			})
		}
		for ticker, shares := range p.Shorts() {
			period.Positions = append(period.Positions, HoldingPosition{
				Ticker: ticker, Side: "short", Shares: shares.String(),
			})
		}
		view.Periods = append(view.Periods, period)
	}
	return view, nil
}

// RenderHoldings renders the Holdings struct to a markdown string.
func RenderHoldings(h *Holdings) string {
	partials := map[string]string{
		"holdings_title":   "holdings_title.md",
		"holdings_periods": "holdings_periods.md",
	}
	return renderTemplate("holdings", "holdings.md", partials, h)
}
