package xquant

import (
	"errors"
	"fmt"
	"iter"

	"github.com/percy-xu/xquant/date"
)

// ErrOutsideHistory reports a lookup for a date not covered by the holdings.
var ErrOutsideHistory = errors.New("date not within holdings history")

// Holdings is the historical record of the portfolios held by a strategy:
// one portfolio per holding period, in chronological order, with
// non-overlapping periods.
type Holdings struct {
	ranges     []date.Range
	portfolios []*Portfolio
}

// NewHoldings returns an empty holdings history.
func NewHoldings() *Holdings { return &Holdings{} }

// Len returns the number of holding periods.
func (h *Holdings) Len() int { return len(h.ranges) }

// Assign appends a holding period. Periods must be appended in chronological
// order and must not overlap.
func (h *Holdings) Assign(r date.Range, p *Portfolio) error {
	if r.To.Before(r.From) {
		return fmt.Errorf("invalid holding period %s", r)
	}
	if p == nil {
		return errors.New("nil portfolio")
	}
	if n := len(h.ranges); n > 0 && !h.ranges[n-1].To.Before(r.From) {
		return fmt.Errorf("holding period %s overlaps %s", r, h.ranges[n-1])
	}
	h.ranges = append(h.ranges, r)
	h.portfolios = append(h.portfolios, p)
	return nil
}

// PortfolioAt returns the portfolio held on a given day.
func (h *Holdings) PortfolioAt(on date.Date) (*Portfolio, error) {
	for i, r := range h.ranges {
		if r.Contains(on) {
			return h.portfolios[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrOutsideHistory, on)
}

// Periods returns an iterator over the holding periods in chronological order.
func (h *Holdings) Periods() iter.Seq2[date.Range, *Portfolio] {
	return func(yield func(date.Range, *Portfolio) bool) {
		for i, r := range h.ranges {
			if !yield(r, h.portfolios[i]) {
				return
			}
		}
	}
}

// First returns the earliest holding period, or false when empty.
func (h *Holdings) First() (date.Range, *Portfolio, bool) {
	if len(h.ranges) == 0 {
		return date.Range{}, nil, false
	}
	return h.ranges[0], h.portfolios[0], true
}

// Last returns the latest holding period, or false when empty.
func (h *Holdings) Last() (date.Range, *Portfolio, bool) {
	n := len(h.ranges)
	if n == 0 {
		return date.Range{}, nil, false
	}
	return h.ranges[n-1], h.portfolios[n-1], true
}

// Span returns the full range covered by the holdings, or false when empty.
func (h *Holdings) Span() (date.Range, bool) {
	if len(h.ranges) == 0 {
		return date.Range{}, false
	}
	return date.Range{From: h.ranges[0].From, To: h.ranges[len(h.ranges)-1].To}, true
}
