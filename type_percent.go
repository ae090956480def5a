package xquant

import "fmt"

// Percent is a ratio stored as a fraction (0.0525 means 5.25%).
type Percent float64

// Equal compares two percentages with the precision they are displayed at.
func (p Percent) Equal(q Percent) bool {
	const precision = 0.00005
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", 100*float64(p))
}

// SignedString returns the percentage with an explicit sign; zero is "-".
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", 100*float64(p))
	if res == "+0.00%" {
		return "-"
	}
	return res
}
