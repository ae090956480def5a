package xquant

import (
	"testing"
	"time"

	"github.com/percy-xu/xquant/date"
)

func TestIndexWeights(t *testing.T) {
	caps := NewMarket().AddTable("market_cap")
	for ticker, series := range map[string][4]float64{
		"A": {70, 75, 60, 50},
		"B": {20, 15, 20, 20},
		"C": {10, 10, 20, 30},
	} {
		for i, v := range series {
			caps.Set(ticker, date.New(2005+5*i, time.January, 1), v*1e9)
		}
	}

	components := []Component{
		{Ticker: "A", Included: date.New(2000, time.January, 1)},
		{Ticker: "B", Included: date.New(2000, time.January, 1), Excluded: date.New(2012, time.January, 1)},
		{Ticker: "C", Included: date.New(2010, time.January, 1)},
	}

	tests := []struct {
		on   date.Date
		want map[string]Percent
	}{
		// All three components are in the index in 2010.
		{date.New(2010, time.January, 1), map[string]Percent{"A": 0.75, "B": 0.15, "C": 0.10}},
		// B is out in 2015 and the weights renormalize.
		{date.New(2015, time.January, 1), map[string]Percent{"A": 0.75, "C": 0.25}},
	}
	for _, tt := range tests {
		weights, err := IndexWeights(components, caps, tt.on)
		if err != nil {
			t.Fatal(err)
		}
		if len(weights) != len(tt.want) {
			t.Fatalf("on %s: weights = %v, want %v", tt.on, weights, tt.want)
		}
		for ticker, w := range tt.want {
			if weights[ticker] != w {
				t.Errorf("on %s: weight[%s] = %v, want %v", tt.on, ticker, weights[ticker], w)
			}
		}
	}
}

func TestIndexWeightsBeforeInclusion(t *testing.T) {
	caps := NewMarket().AddTable("market_cap")
	caps.Set("A", date.New(2009, time.June, 30), 1e9)
	components := []Component{{Ticker: "A", Included: date.New(2009, time.January, 1)}}

	if _, err := IndexWeights(components, caps, date.New(2008, time.June, 1)); err == nil {
		t.Error("no active component should be an error")
	}
}

func TestIndexWeightsDropsUncapitalized(t *testing.T) {
	caps := NewMarket().AddTable("market_cap")
	caps.Set("A", date.New(2010, time.January, 1), 3e9)
	caps.Set("B", date.New(2010, time.January, 1), 1e9)

	components := []Component{
		{Ticker: "A", Included: date.New(2009, time.January, 1)},
		{Ticker: "B", Included: date.New(2009, time.January, 1)},
		{Ticker: "C", Included: date.New(2009, time.January, 1)}, // no cap data
	}

	weights, err := IndexWeights(components, caps, date.New(2010, time.June, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(weights) != 2 {
		t.Fatalf("weights = %v, want only A and B", weights)
	}
	if weights["A"] != 0.75 || weights["B"] != 0.25 {
		t.Errorf("weights = %v, want A 0.75 B 0.25", weights)
	}
}

func TestIndexWeightsCapLookup(t *testing.T) {
	// Capitalizations published after the query date are used (first value
	// on or after), falling back to the last one before when the series
	// ended earlier.
	caps := NewMarket().AddTable("market_cap")
	caps.Set("A", date.New(2010, time.March, 31), 3e9)
	caps.Set("B", date.New(2010, time.March, 31), 1e9)

	components := []Component{
		{Ticker: "A", Included: date.New(2009, time.January, 1)},
		{Ticker: "B", Included: date.New(2009, time.January, 1)},
	}

	for _, on := range []date.Date{
		date.New(2010, time.January, 1), // before publication
		date.New(2010, time.June, 1),    // after publication
	} {
		weights, err := IndexWeights(components, caps, on)
		if err != nil {
			t.Fatal(err)
		}
		if weights["A"] != 0.75 || weights["B"] != 0.25 {
			t.Errorf("on %s: weights = %v, want A 0.75 B 0.25", on, weights)
		}
	}
}

func TestQuarterSum(t *testing.T) {
	records := []Record{
		{Ticker: "600519.SH", Date: date.New(2021, time.January, 15), Value: 10},
		{Ticker: "600519.SH", Date: date.New(2021, time.February, 15), Value: 20},
		{Ticker: "600519.SH", Date: date.New(2021, time.April, 1), Value: 5},
		{Ticker: "000001.SZ", Date: date.New(2021, time.March, 31), Value: 7},
	}

	sums := QuarterSum(records)
	if len(sums) != 2 {
		t.Fatalf("got %d tickers, want 2", len(sums))
	}

	q1 := date.New(2021, time.January, 1)
	q2 := date.New(2021, time.April, 1)

	if v, ok := sums["600519.SH"].Get(q1); !ok || v != 30 {
		t.Errorf("600519.SH Q1 = %v, %v, want 30", v, ok)
	}
	if v, ok := sums["600519.SH"].Get(q2); !ok || v != 5 {
		t.Errorf("600519.SH Q2 = %v, %v, want 5", v, ok)
	}
	if v, ok := sums["000001.SZ"].Get(q1); !ok || v != 7 {
		t.Errorf("000001.SZ Q1 = %v, %v, want 7", v, ok)
	}
}
