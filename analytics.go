package xquant

import (
	"fmt"

	"github.com/percy-xu/xquant/date"
)

// Component is a constituent of a stock index, with the dates it entered
// and, when applicable, left the index. A zero Excluded date means the
// component is still part of the index.
type Component struct {
	Ticker   string
	Included date.Date
	Excluded date.Date
}

// active reports whether the component was part of the index on a given day.
func (c Component) active(on date.Date) bool {
	if on.Before(c.Included) {
		return false
	}
	return c.Excluded.IsZero() || on.Before(c.Excluded)
}

// IndexWeights computes the capitalization weight of every index component
// on a given day. Components not yet included, or already excluded, get no
// weight, and neither do members with no capitalization data. Capitalizations
// are read from the table at the first value on or after the day, since
// constituents data is usually published with a lag.
//
// For example, with components A (in since 2000), B (in 2000, out 2012) and
// C (in since 2010) capitalized at 75, 15 and 10 billion in 2010, the weights
// on a day of 2010 are A 0.75, B 0.15, C 0.10. In 2015 B is out, and A and C,
// then capitalized at 60 and 20 billion, weigh 0.75 and 0.25.
func IndexWeights(components []Component, caps *Table, on date.Date) (map[string]Percent, error) {
	if caps == nil {
		return nil, fmt.Errorf("no capitalization table")
	}

	values := make(map[string]float64)
	var total float64
	for _, c := range components {
		if !c.active(on) {
			continue
		}
		h := caps.History(c.Ticker)
		if h == nil {
			continue // no capitalization data, dropped from the index
		}
		v, ok := h.ValueOnOrAfter(on)
		if !ok {
			v, ok = h.ValueAsOf(on)
		}
		if !ok {
			continue
		}
		values[c.Ticker] = v
		total += v
	}
	if total == 0 {
		return nil, fmt.Errorf("no active component on %s", on)
	}

	weights := make(map[string]Percent, len(values))
	for ticker, v := range values {
		weights[ticker] = Percent(round4(v / total))
	}
	return weights, nil
}

// Record is a dated observation of some per-ticker figure, typically a
// quarterly fundamental like net profit or revenue.
type Record struct {
	Ticker string
	Date   date.Date
	Value  float64
}

// QuarterSum sums records per ticker and per calendar quarter. The result
// maps tickers to a history with one point per quarter, dated at the
// quarter's first day.
func QuarterSum(records []Record) map[string]*date.History[float64] {
	sums := make(map[string]map[date.Date]float64)
	for _, r := range records {
		q := r.Date.StartOf(date.Quarterly)
		if sums[r.Ticker] == nil {
			sums[r.Ticker] = make(map[date.Date]float64)
		}
		sums[r.Ticker][q] += r.Value
	}

	out := make(map[string]*date.History[float64], len(sums))
	for ticker, quarters := range sums {
		h := &date.History[float64]{}
		for q, sum := range quarters {
			h.Append(q, sum)
		}
		out[ticker] = h
	}
	return out
}
