package date

import (
	"iter"
	"time"
)

// Quarters returns an iterator over the first days of the calendar quarters
// that start within r, boundaries included.
func Quarters(r Range) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		q := r.From.StartOf(Quarterly)
		if q.Before(r.From) {
			q = q.EndOf(Quarterly).Add(1)
		}
		for ; !q.After(r.To); q = q.EndOf(Quarterly).Add(1) {
			if !yield(q) {
				return
			}
		}
	}
}

// QuarterRange returns the calendar range of the given quarter (1 to 4).
// It returns false when quarter is out of range.
func QuarterRange(year, quarter int) (Range, bool) {
	if quarter < 1 || quarter > 4 {
		return Range{}, false
	}
	first := New(year, time.Month((quarter-1)*3+1), 1)
	return Range{From: first, To: first.EndOf(Quarterly)}, true
}
