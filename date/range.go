package date

import (
	"fmt"
	"time"
)

// Range represents an inclusive range of dates. In a back-test, each Range is
// one holding period: the portfolio selected at From is held until To.
type Range struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// NewRange returns the standard range containing d for a well known period.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Contains reports whether the date is included in the range (boundaries included).
func (r Range) Contains(on Date) bool { return !on.Before(r.From) && !on.After(r.To) }

// Days returns the number of calendar days in the range, boundaries included.
func (r Range) Days() int { return r.From.Days(r.To) + 1 }

// Period returns the standard period this range spans, if it is a standard one.
func (r Range) Period() (p Period, ok bool) {
	switch {
	case r.From == r.To:
		return Daily, true
	case r.From.Weekday() == time.Monday && r.From.EndOf(Weekly) == r.To:
		return Weekly, true
	case r.From.Day() == 1 && r.From.EndOf(Monthly) == r.To:
		return Monthly, true
	case r.From.StartOf(Quarterly) == r.From && r.From.EndOf(Quarterly) == r.To:
		return Quarterly, true
	case r.From.StartOf(Yearly) == r.From && r.From.EndOf(Yearly) == r.To:
		return Yearly, true
	default:
		return Daily, false
	}
}

// Identifier computes a unique, short identifier for the Range: the day
// itself for a daily range, "2021-W05", "2021-03", "2021-Q2" or "2021" for
// standard periods, and "from_to" otherwise.
func (r Range) Identifier() string {
	p, ok := r.Period()
	if !ok {
		return fmt.Sprintf("%s_%s", r.From, r.To)
	}
	switch p {
	case Daily:
		return r.From.String()
	case Weekly:
		_, week := r.From.ISOWeek()
		return fmt.Sprintf("%d-W%02d", r.From.Year(), week)
	case Monthly:
		return r.From.Format("2006-01")
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", r.From.Year(), r.From.Quarter())
	case Yearly:
		return r.From.Format("2006")
	default:
		panic("unknown period")
	}
}

// String formats the range as "from..to".
func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
