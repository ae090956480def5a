package xquant

import (
	"errors"
	"testing"
	"time"

	"github.com/percy-xu/xquant/date"
)

// testMarket builds a market with two securities over the first week of
// January 2021. Monday the 4th to Friday the 8th are trading days, except
// that "000001.SZ" is suspended on the 6th and 7th.
func testMarket(t *testing.T) *Market {
	t.Helper()
	m := NewMarket()

	closes := map[string][]float64{
		"600519.SH": {100, 102, 101, 103, 104},
		"000001.SZ": {20, 21, 0, 0, 22},
	}
	days := []date.Date{
		date.New(2021, time.January, 4),
		date.New(2021, time.January, 5),
		date.New(2021, time.January, 6),
		date.New(2021, time.January, 7),
		date.New(2021, time.January, 8),
	}
	for ticker, prices := range closes {
		for i, p := range prices {
			if p == 0 {
				continue // suspended day
			}
			if err := m.SetPrice(ticker, days[i], p); err != nil {
				t.Fatal(err)
			}
		}
	}
	return m
}

func TestTradingDays(t *testing.T) {
	m := testMarket(t)
	days := m.TradingDays()
	if len(days) != 5 {
		t.Fatalf("TradingDays() returned %d days, want 5", len(days))
	}
	for i := 1; i < len(days); i++ {
		if !days[i-1].Before(days[i]) {
			t.Errorf("TradingDays() not sorted: %s before %s", days[i-1], days[i])
		}
	}
	if !m.IsTradingDay(date.New(2021, time.January, 6)) {
		t.Error("2021-01-06 should be a trading day")
	}
	if m.IsTradingDay(date.New(2021, time.January, 9)) {
		t.Error("2021-01-09 is a Saturday, not a trading day")
	}
}

func TestSuspended(t *testing.T) {
	m := testMarket(t)
	tests := []struct {
		ticker string
		on     date.Date
		want   bool
	}{
		// no price on a trading day, after having traded
		{"000001.SZ", date.New(2021, time.January, 6), true},
		{"000001.SZ", date.New(2021, time.January, 7), true},
		// traded that day
		{"000001.SZ", date.New(2021, time.January, 5), false},
		{"600519.SH", date.New(2021, time.January, 6), false},
		// a Saturday is not a suspension
		{"000001.SZ", date.New(2021, time.January, 9), false},
		// never traded before
		{"000001.SZ", date.New(2021, time.January, 1), false},
		{"999999.SH", date.New(2021, time.January, 6), false},
	}
	for _, tt := range tests {
		if got := m.Suspended(tt.ticker, tt.on); got != tt.want {
			t.Errorf("Suspended(%q, %s) = %v, want %v", tt.ticker, tt.on, got, tt.want)
		}
	}
}

func TestClosestTradingDay(t *testing.T) {
	m := testMarket(t)
	saturday := date.New(2021, time.January, 9)
	monday := date.New(2021, time.January, 4)

	tests := []struct {
		on     date.Date
		method Method
		want   date.Date
		err    bool
	}{
		{monday, Exact, monday, false},
		{monday, Ffill, monday, false},
		{saturday, Ffill, date.New(2021, time.January, 8), false},
		{saturday, Bfill, date.Date{}, true}, // nothing after the 8th
		{saturday, Exact, date.Date{}, true},
		{date.New(2021, time.January, 1), Bfill, monday, false},
		{date.New(2021, time.January, 1), Ffill, date.Date{}, true},
	}
	for _, tt := range tests {
		got, err := m.ClosestTradingDay(tt.on, tt.method)
		if tt.err {
			if !errors.Is(err, ErrNoTradingDay) {
				t.Errorf("ClosestTradingDay(%s, %q) error = %v, want ErrNoTradingDay", tt.on, tt.method, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ClosestTradingDay(%s, %q) unexpected error: %v", tt.on, tt.method, err)
		}
		if got != tt.want {
			t.Errorf("ClosestTradingDay(%s, %q) = %s, want %s", tt.on, tt.method, got, tt.want)
		}
	}
}

func TestNextAndLastTradingDay(t *testing.T) {
	m := testMarket(t)
	next, err := m.NextTradingDay(date.New(2021, time.January, 4))
	if err != nil {
		t.Fatal(err)
	}
	if want := date.New(2021, time.January, 5); next != want {
		t.Errorf("NextTradingDay = %s, want %s", next, want)
	}

	last, err := m.LastTradingDay(date.New(2021, time.January, 8))
	if err != nil {
		t.Fatal(err)
	}
	if want := date.New(2021, time.January, 7); last != want {
		t.Errorf("LastTradingDay = %s, want %s", last, want)
	}
}

func TestBusinessDays(t *testing.T) {
	m := testMarket(t)
	days := m.BusinessDays(2021, time.January)
	if len(days) != 5 {
		t.Errorf("BusinessDays(2021, January) returned %d days, want 5", len(days))
	}
	if days := m.BusinessDays(2021, time.February); len(days) != 0 {
		t.Errorf("BusinessDays(2021, February) returned %d days, want 0", len(days))
	}
}

func TestPriceAsOf(t *testing.T) {
	m := testMarket(t)
	// 000001.SZ is suspended on the 6th, its last close is the 5th's.
	price, ok := m.PriceAsOf("000001.SZ", date.New(2021, time.January, 6))
	if !ok || price != 21 {
		t.Errorf("PriceAsOf = %v, %v, want 21, true", price, ok)
	}
	if _, ok := m.PriceAsOf("000001.SZ", date.New(2021, time.January, 1)); ok {
		t.Error("PriceAsOf before the first close should not be ok")
	}
}

func TestMarketAdd(t *testing.T) {
	m := testMarket(t)
	if err := m.Add(NewSecurity("600519.SH", "CNY")); err == nil {
		t.Error("adding an existing ticker should be an error")
	}
	if got := m.Get("600519.SH").Currency(); got != "CNY" {
		t.Errorf("Currency() = %q, want CNY", got)
	}
	want := []string{"000001.SZ", "600519.SH"}
	got := m.Tickers()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Tickers() = %v, want %v", got, want)
	}
}

func TestTable(t *testing.T) {
	m := testMarket(t)
	caps := m.AddTable("market_cap")
	caps.Set("600519.SH", date.New(2021, time.January, 4), 1.2e12)

	if m.Table("market_cap") != caps {
		t.Error("Table(\"market_cap\") should return the created table")
	}
	if m.AddTable("market_cap") != caps {
		t.Error("AddTable should return the existing table")
	}
	v, ok := caps.History("600519.SH").Get(date.New(2021, time.January, 4))
	if !ok || v != 1.2e12 {
		t.Errorf("History().Get() = %v, %v, want 1.2e12, true", v, ok)
	}
	if m.Table("volume") != nil {
		t.Error("Table(\"volume\") should be nil")
	}
}
