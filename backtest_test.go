package xquant

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/percy-xu/xquant/date"
)

// flatMarket builds a market where two securities trade every weekday of the
// first quarter of 2021, at constant prices of 100 and 20 yuan.
func flatMarket(t *testing.T) *Market {
	t.Helper()
	m := NewMarket()
	for day := date.New(2021, time.January, 4); day.Before(date.New(2021, time.April, 1)); day = day.Add(1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if err := m.SetPrice("600519.SH", day, 100); err != nil {
			t.Fatal(err)
		}
		if err := m.SetPrice("000001.SZ", day, 20); err != nil {
			t.Fatal(err)
		}
	}
	return m
}

func TestDecodeConfig(t *testing.T) {
	in := `
start: 2021-01-04
end: 2021-03-31
funds: 100000
rebalance: monthly
benchmark: 000300.SH
`
	cfg, err := DecodeConfig(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Start != date.New(2021, time.January, 4) {
		t.Errorf("Start = %s", cfg.Start)
	}
	if cfg.Rebalance != date.Monthly {
		t.Errorf("Rebalance = %s, want monthly", cfg.Rebalance)
	}
	// Defaults are seeded before decoding.
	if cfg.Currency != "CNY" {
		t.Errorf("Currency = %q, want CNY", cfg.Currency)
	}
	if cfg.RiskFree != DefaultRiskFree {
		t.Errorf("RiskFree = %v, want %v", cfg.RiskFree, DefaultRiskFree)
	}
	if cfg.Benchmark != "000300.SH" {
		t.Errorf("Benchmark = %q", cfg.Benchmark)
	}
}

func TestDecodeConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing dates", "funds: 1000"},
		{"inverted dates", "start: 2021-02-01\nend: 2021-01-01\nfunds: 1000"},
		{"no funds", "start: 2021-01-01\nend: 2021-02-01"},
		{"bad risk free", "start: 2021-01-01\nend: 2021-02-01\nfunds: 1000\nrisk-free: 2"},
		{"unknown field", "start: 2021-01-01\nend: 2021-02-01\nfunds: 1000\nbogus: 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeConfig(strings.NewReader(tt.in)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRun(t *testing.T) {
	m := flatMarket(t)
	cfg := Config{
		Start:     date.New(2021, time.January, 4),
		End:       date.New(2021, time.March, 31),
		Funds:     100000,
		Currency:  "CNY",
		Rebalance: date.Monthly,
		RiskFree:  DefaultRiskFree,
	}
	s, err := NewEqualWeight(m, "600519.SH", "000001.SZ")
	if err != nil {
		t.Fatal(err)
	}

	res, err := Run(context.Background(), cfg, m, s)
	if err != nil {
		t.Fatal(err)
	}

	// January, February, March.
	if res.Holdings.Len() != 3 {
		t.Fatalf("Holdings.Len() = %d, want 3", res.Holdings.Len())
	}

	// 50000 on each ticker: 500 shares at 100, 2500 shares at 20, no
	// leftover cash, so the equity stays exactly at the initial funds.
	first, p, _ := res.Holdings.First()
	if first.From != cfg.Start {
		t.Errorf("first period starts %s, want %s", first.From, cfg.Start)
	}
	if !p.Long("600519.SH").Equal(Q(500)) || !p.Long("000001.SZ").Equal(Q(2500)) {
		t.Errorf("unexpected first portfolio: %v %v", p.Long("600519.SH"), p.Long("000001.SZ"))
	}
	for day, v := range res.Equity.Values() {
		if v != 100000 {
			t.Fatalf("equity on %s = %v, want 100000", day, v)
		}
	}

	// Prices never move, so rebalances change nothing: only the two
	// initial buys are recorded.
	if len(res.Trades) != 2 {
		t.Errorf("Trades = %d, want 2", len(res.Trades))
	}
	for _, tr := range res.Trades {
		if tr.Side != SideBuy {
			t.Errorf("trade side = %q, want buy", tr.Side)
		}
	}

	// Every weekday of the run is on the equity curve.
	if res.Equity.Len() != len(m.TradingDays()) {
		t.Errorf("Equity.Len() = %d, want %d", res.Equity.Len(), len(m.TradingDays()))
	}
}

func TestRunCancelled(t *testing.T) {
	m := flatMarket(t)
	cfg := Config{
		Start:     date.New(2021, time.January, 4),
		End:       date.New(2021, time.March, 31),
		Funds:     100000,
		Currency:  "CNY",
		Rebalance: date.Monthly,
	}
	s, err := NewEqualWeight(m, "600519.SH")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, cfg, m, s); err == nil {
		t.Error("a cancelled run should fail")
	}
}

func TestEquityCurveOutsideHoldings(t *testing.T) {
	m := flatMarket(t)
	h := NewHoldings()
	p := NewPortfolio(M(1000, "CNY"))
	if err := h.Assign(date.Range{From: date.New(2021, time.January, 4), To: date.New(2021, time.January, 31)}, p); err != nil {
		t.Fatal(err)
	}

	// February trading days are not covered by the holdings.
	r := date.Range{From: date.New(2021, time.January, 4), To: date.New(2021, time.February, 28)}
	if _, err := EquityCurve(h, m, r); err == nil {
		t.Error("an equity curve over uncovered days should fail")
	}
}
