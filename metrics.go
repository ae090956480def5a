package xquant

import (
	"errors"
	"fmt"
	"math"

	"github.com/percy-xu/xquant/date"
)

// tradingDaysPerYear is the number of trading days assumed when annualizing
// daily figures. Chinese exchanges trade about 250 days a year.
const tradingDaysPerYear = 250

// Compounding selects the unit used to annualize a return.
type Compounding byte

const (
	CompoundDaily   Compounding = 'd'
	CompoundWeekly  Compounding = 'w'
	CompoundMonthly Compounding = 'm'
)

// round4 rounds to four decimal places, the precision all ratios are
// reported at.
func round4(v float64) float64 { return math.Round(v*1e4) / 1e4 }

// mean computes the arithmetic mean of a series.
func mean(vs []float64) float64 {
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// std computes the standard deviation of a series. ddof is the delta degree
// of freedom: 0 for the population deviation, 1 for the sample one.
func std(vs []float64, ddof int) float64 {
	if len(vs) <= ddof {
		return 0
	}
	mu := mean(vs)
	var sum float64
	for _, v := range vs {
		d := v - mu
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vs)-ddof))
}

// DailyReturns computes the day over day percentage changes of a series.
func DailyReturns(h *date.History[float64]) []float64 {
	returns := make([]float64, 0, h.Len())
	prev, first := 0.0, true
	for _, v := range h.Values() {
		if !first {
			returns = append(returns, v/prev-1)
		}
		prev, first = v, false
	}
	return returns
}

// CumulativeReturn computes the total return of a series between its first
// and last points.
func CumulativeReturn(h *date.History[float64]) (Percent, error) {
	if h.Len() < 2 {
		return 0, errors.New("not enough data points to compute a return")
	}
	_, first := h.First()
	_, last := h.Latest()
	if first == 0 {
		return 0, errors.New("series starts at zero")
	}
	return Percent(round4(last/first - 1)), nil
}

// years measures the span of a series in years, in the given compounding
// unit. Days use the calendar day count over 365, weeks the day count over
// 7 weeks of 52, and months the whole calendar month difference over 12.
func years(h *date.History[float64], c Compounding) (float64, error) {
	from, _ := h.First()
	to, _ := h.Latest()
	switch c {
	case CompoundDaily:
		return float64(from.Days(to)) / 365, nil
	case CompoundWeekly:
		return float64(from.Days(to)) / 7 / 52, nil
	case CompoundMonthly:
		months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
		return float64(months) / 12, nil
	default:
		return 0, fmt.Errorf("unknown compounding unit %q", c)
	}
}

// AnnualizedReturn computes the geometric yearly return of a series,
// compounded in the given unit.
func AnnualizedReturn(h *date.History[float64], c Compounding) (Percent, error) {
	cum, err := CumulativeReturn(h)
	if err != nil {
		return 0, err
	}
	span, err := years(h, c)
	if err != nil {
		return 0, err
	}
	if span <= 0 {
		return 0, errors.New("series spans less than one compounding unit")
	}
	return Percent(round4(math.Pow(1+float64(cum), 1/span) - 1)), nil
}

// AnnualizedExcessReturn computes the annualized return of a series over the
// annualized return of its benchmark.
func AnnualizedExcessReturn(h, benchmark *date.History[float64], c Compounding) (Percent, error) {
	rp, err := AnnualizedReturn(h, c)
	if err != nil {
		return 0, err
	}
	rb, err := AnnualizedReturn(benchmark, c)
	if err != nil {
		return 0, fmt.Errorf("benchmark: %w", err)
	}
	return Percent(round4(float64(rp) - float64(rb))), nil
}

// ExcessReturn computes the cumulative return of a series over the
// cumulative return of its benchmark.
func ExcessReturn(h, benchmark *date.History[float64]) (Percent, error) {
	rp, err := CumulativeReturn(h)
	if err != nil {
		return 0, err
	}
	rb, err := CumulativeReturn(benchmark)
	if err != nil {
		return 0, fmt.Errorf("benchmark: %w", err)
	}
	return Percent(round4(float64(rp) - float64(rb))), nil
}

// MaxDrawdown computes the largest peak to trough decline of a series, as a
// negative percentage.
func MaxDrawdown(h *date.History[float64]) (Percent, error) {
	if h.Len() < 2 {
		return 0, errors.New("not enough data points to compute a drawdown")
	}
	var peak, worst float64
	for _, v := range h.Values() {
		if v > peak {
			peak = v
		}
		if dd := v/peak - 1; dd < worst {
			worst = dd
		}
	}
	return Percent(round4(worst)), nil
}

// Volatility computes the annualized standard deviation of a series' daily
// returns.
func Volatility(h *date.History[float64]) (Percent, error) {
	returns := DailyReturns(h)
	if len(returns) == 0 {
		return 0, errors.New("not enough data points to compute volatility")
	}
	return Percent(round4(std(returns, 0) * math.Sqrt(tradingDaysPerYear))), nil
}

// SharpeRatio computes the annualized return in excess of the risk free rate,
// per unit of volatility. The risk free rate is a yearly fraction in [0, 1].
func SharpeRatio(h *date.History[float64], riskFree float64) (float64, error) {
	if riskFree < 0 || riskFree > 1 {
		return 0, errors.New("risk-free rate must be between 0 and 1")
	}
	ra, err := AnnualizedReturn(h, CompoundDaily)
	if err != nil {
		return 0, err
	}
	vol, err := Volatility(h)
	if err != nil {
		return 0, err
	}
	if vol == 0 {
		return 0, errors.New("volatility is zero")
	}
	return round4((float64(ra) - riskFree) / float64(vol)), nil
}

// RiskAdjustedReturn computes the annualized return per unit of volatility.
func RiskAdjustedReturn(h *date.History[float64]) (float64, error) {
	ra, err := AnnualizedReturn(h, CompoundDaily)
	if err != nil {
		return 0, err
	}
	vol, err := Volatility(h)
	if err != nil {
		return 0, err
	}
	if vol == 0 {
		return 0, errors.New("volatility is zero")
	}
	return round4(float64(ra) / float64(vol)), nil
}

// alignReturns computes the daily returns of a series and of its benchmark
// on the series' own days, marking the benchmark at its last value on or
// before each day.
func alignReturns(h, benchmark *date.History[float64]) (rs, rb []float64, err error) {
	var prevH, prevB float64
	first := true
	for day, v := range h.Values() {
		b, ok := benchmark.ValueAsOf(day)
		if !ok {
			return nil, nil, fmt.Errorf("benchmark has no value on or before %s", day)
		}
		if !first {
			rs = append(rs, v/prevH-1)
			rb = append(rb, b/prevB-1)
		}
		prevH, prevB, first = v, b, false
	}
	if len(rs) == 0 {
		return nil, nil, errors.New("not enough data points to align series")
	}
	return rs, rb, nil
}

// TrackingError computes the annualized standard deviation of the daily
// return differences between a series and its benchmark.
func TrackingError(h, benchmark *date.History[float64]) (Percent, error) {
	rs, rb, err := alignReturns(h, benchmark)
	if err != nil {
		return 0, err
	}
	diff := make([]float64, len(rs))
	for i := range rs {
		diff[i] = rs[i] - rb[i]
	}
	return Percent(round4(std(diff, 0) * math.Sqrt(tradingDaysPerYear))), nil
}

// InformationRatio computes the annualized excess return per unit of
// tracking error.
func InformationRatio(h, benchmark *date.History[float64]) (float64, error) {
	excess, err := AnnualizedExcessReturn(h, benchmark, CompoundDaily)
	if err != nil {
		return 0, err
	}
	te, err := TrackingError(h, benchmark)
	if err != nil {
		return 0, err
	}
	if te == 0 {
		return 0, errors.New("tracking error is zero")
	}
	return round4(float64(excess) / float64(te)), nil
}

// Beta computes the sensitivity of a series' daily returns to its
// benchmark's, as the sample covariance over the benchmark's sample variance.
func Beta(h, benchmark *date.History[float64]) (float64, error) {
	rs, rb, err := alignReturns(h, benchmark)
	if err != nil {
		return 0, err
	}
	if len(rs) < 2 {
		return 0, errors.New("not enough data points to compute beta")
	}
	ms, mb := mean(rs), mean(rb)
	var cov, varb float64
	for i := range rs {
		cov += (rs[i] - ms) * (rb[i] - mb)
		varb += (rb[i] - mb) * (rb[i] - mb)
	}
	n := float64(len(rs) - 1)
	cov, varb = cov/n, varb/n
	if varb == 0 {
		return 0, errors.New("benchmark variance is zero")
	}
	return round4(cov / varb), nil
}

// Alpha computes the annualized return in excess of what the capital asset
// pricing model predicts for the series' beta.
func Alpha(h, benchmark *date.History[float64], riskFree float64) (Percent, error) {
	if riskFree < 0 || riskFree > 1 {
		return 0, errors.New("risk-free rate must be between 0 and 1")
	}
	rp, err := AnnualizedReturn(h, CompoundDaily)
	if err != nil {
		return 0, err
	}
	rm, err := AnnualizedReturn(benchmark, CompoundDaily)
	if err != nil {
		return 0, fmt.Errorf("benchmark: %w", err)
	}
	beta, err := Beta(h, benchmark)
	if err != nil {
		return 0, err
	}
	expected := riskFree + beta*(float64(rm)-riskFree)
	return Percent(round4(float64(rp) - expected)), nil
}

// DailyWinRate computes the fraction of days on which the series' return
// beats its benchmark's.
func DailyWinRate(h, benchmark *date.History[float64]) (Percent, error) {
	rs, rb, err := alignReturns(h, benchmark)
	if err != nil {
		return 0, err
	}
	wins := 0
	for i := range rs {
		if rs[i] > rb[i] {
			wins++
		}
	}
	return Percent(round4(float64(wins) / float64(len(rs)))), nil
}

// periodReturns computes the return of each holding period, valued at the
// net liquidation on the period boundaries. The first period has no prior
// value to compare against and is skipped.
func periodReturns(h *Holdings, m *Market) ([]float64, error) {
	var returns []float64
	var prev float64
	first := true
	for r, p := range h.Periods() {
		value, err := p.Clone().NetLiquidation(m, r.To)
		if err != nil {
			return nil, fmt.Errorf("period %s: %w", r, err)
		}
		v := value.AsFloat()
		if !first {
			returns = append(returns, v/prev-1)
		}
		prev, first = v, false
	}
	return returns, nil
}

// WinRate computes the fraction of holding periods that ended with a gain.
// The first period is skipped, having no prior period to measure against.
func WinRate(h *Holdings, m *Market) (Percent, error) {
	returns, err := periodReturns(h, m)
	if err != nil {
		return 0, err
	}
	if len(returns) == 0 {
		return 0, errors.New("not enough holding periods to compute a win rate")
	}
	wins := 0
	for _, r := range returns {
		if r > 0 {
			wins++
		}
	}
	return Percent(round4(float64(wins) / float64(len(returns)))), nil
}

// ProfitLossRatio computes the average gain of winning periods over the
// average loss of losing periods.
func ProfitLossRatio(h *Holdings, m *Market) (float64, error) {
	returns, err := periodReturns(h, m)
	if err != nil {
		return 0, err
	}
	var gains, losses []float64
	for _, r := range returns {
		switch {
		case r > 0:
			gains = append(gains, r)
		case r < 0:
			losses = append(losses, r)
		}
	}
	if len(losses) == 0 {
		return 0, errors.New("no losing period, profit/loss ratio is undefined")
	}
	if len(gains) == 0 {
		return 0, nil
	}
	return round4(mean(gains) / -mean(losses)), nil
}

// TurnoverRatio computes the yearly traded value as a fraction of the
// average equity. Only changes in long positions count as turnover.
func TurnoverRatio(h *Holdings, m *Market) (Percent, error) {
	if h.Len() < 2 {
		return 0, errors.New("not enough holding periods to compute turnover")
	}

	var traded, equitySum float64
	var prev *Portfolio
	periods := 0
	for r, p := range h.Periods() {
		value, err := p.Clone().NetLiquidation(m, r.To)
		if err != nil {
			return 0, fmt.Errorf("period %s: %w", r, err)
		}
		equitySum += value.AsFloat()
		periods++

		if prev != nil {
			for _, t := range rebalanceTrades(prev, p, m, r.From) {
				traded += t.Amount.AsFloat()
			}
		}
		prev = p
	}

	span, ok := h.Span()
	if !ok {
		return 0, errors.New("empty holdings")
	}
	yrs := float64(span.From.Days(span.To)) / 365
	if yrs <= 0 {
		return 0, errors.New("holdings span less than a day")
	}
	avgEquity := equitySum / float64(periods)
	return Percent(round4(traded / avgEquity / yrs)), nil
}

// Report gathers the standard performance figures of a back-test run.
type Report struct {
	Range              date.Range
	CumulativeReturn   Percent
	AnnualizedReturn   Percent
	MaxDrawdown        Percent
	Volatility         Percent
	SharpeRatio        float64
	RiskAdjustedReturn float64
	WinRate            Percent

	// Benchmark-relative figures, present only when the run had a benchmark.
	Benchmark        string
	ExcessReturn     Percent
	TrackingError    Percent
	InformationRatio float64
	Beta             float64
	Alpha            Percent
	DailyWinRate     Percent
}

// NewReport computes the full performance report of a back-test result.
func NewReport(res *Result, m *Market) (*Report, error) {
	rep := &Report{Range: date.Range{From: res.Config.Start, To: res.Config.End}}
	var err error

	if rep.CumulativeReturn, err = CumulativeReturn(res.Equity); err != nil {
		return nil, err
	}
	if rep.AnnualizedReturn, err = AnnualizedReturn(res.Equity, CompoundDaily); err != nil {
		return nil, err
	}
	if rep.MaxDrawdown, err = MaxDrawdown(res.Equity); err != nil {
		return nil, err
	}
	if rep.Volatility, err = Volatility(res.Equity); err != nil {
		return nil, err
	}
	if rep.SharpeRatio, err = SharpeRatio(res.Equity, res.Config.RiskFree); err != nil {
		return nil, err
	}
	if rep.RiskAdjustedReturn, err = RiskAdjustedReturn(res.Equity); err != nil {
		return nil, err
	}
	if rep.WinRate, err = WinRate(res.Holdings, m); err != nil {
		return nil, err
	}

	if res.Config.Benchmark == "" {
		return rep, nil
	}
	sec := m.Get(res.Config.Benchmark)
	if sec == nil {
		return nil, fmt.Errorf("benchmark: %w: %s", ErrUnknownTicker, res.Config.Benchmark)
	}
	bench := sec.Prices()
	rep.Benchmark = res.Config.Benchmark

	if rep.ExcessReturn, err = ExcessReturn(res.Equity, bench); err != nil {
		return nil, err
	}
	if rep.TrackingError, err = TrackingError(res.Equity, bench); err != nil {
		return nil, err
	}
	if rep.InformationRatio, err = InformationRatio(res.Equity, bench); err != nil {
		return nil, err
	}
	if rep.Beta, err = Beta(res.Equity, bench); err != nil {
		return nil, err
	}
	if rep.Alpha, err = Alpha(res.Equity, bench, res.Config.RiskFree); err != nil {
		return nil, err
	}
	if rep.DailyWinRate, err = DailyWinRate(res.Equity, bench); err != nil {
		return nil, err
	}
	return rep, nil
}
