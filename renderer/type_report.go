package renderer

import (
	"fmt"

	"github.com/percy-xu/xquant"
)

// Report represents a performance report in json. Ratios are pre-formatted
// strings so the templates stay free of number formatting.
type Report struct {
	// Strategy is the name of the strategy the report is about.
	Strategy string `json:"strategy"`
	// Range is the back-test range, "from..to".
	Range string `json:"range"`

	CumulativeReturn   string `json:"cumulativeReturn"`
	AnnualizedReturn   string `json:"annualizedReturn"`
	MaxDrawdown        string `json:"maxDrawdown"`
	Volatility         string `json:"volatility"`
	SharpeRatio        string `json:"sharpeRatio"`
	RiskAdjustedReturn string `json:"riskAdjustedReturn"`
	WinRate            string `json:"winRate"`

	// Benchmark is empty when the run had no benchmark, and the
	// benchmark-relative rows are skipped.
	Benchmark        string `json:"benchmark,omitempty"`
	ExcessReturn     string `json:"excessReturn,omitempty"`
	TrackingError    string `json:"trackingError,omitempty"`
	InformationRatio string `json:"informationRatio,omitempty"`
	Beta             string `json:"beta,omitempty"`
	Alpha            string `json:"alpha,omitempty"`
	DailyWinRate     string `json:"dailyWinRate,omitempty"`
}

// NewReport builds the report view from computed performance figures.
func NewReport(strategy string, rep *xquant.Report) *Report {
	r := &Report{
		Strategy:           strategy,
		Range:              rep.Range.String(),
		CumulativeReturn:   rep.CumulativeReturn.SignedString(),
		AnnualizedReturn:   rep.AnnualizedReturn.SignedString(),
		MaxDrawdown:        rep.MaxDrawdown.String(),
		Volatility:         rep.Volatility.String(),
		SharpeRatio:        fmt.Sprintf("%.4f", rep.SharpeRatio),
		RiskAdjustedReturn: fmt.Sprintf("%.4f", rep.RiskAdjustedReturn),
		WinRate:            rep.WinRate.String(),
	}
	if rep.Benchmark == "" {
		return r
	}
	r.Benchmark = rep.Benchmark
	r.ExcessReturn = rep.ExcessReturn.SignedString()
	r.TrackingError = rep.TrackingError.String()
	r.InformationRatio = fmt.Sprintf("%.4f", rep.InformationRatio)
	r.Beta = fmt.Sprintf("%.4f", rep.Beta)
	r.Alpha = rep.Alpha.SignedString()
	r.DailyWinRate = rep.DailyWinRate.String()
	return r
}

// RenderReport renders the Report struct to a markdown string.
func RenderReport(r *Report) string {
	partials := map[string]string{
		"report_title":     "report_title.md",
		"report_metrics":   "report_metrics.md",
		"report_benchmark": "report_benchmark.md",
	}
	return renderTemplate("report", "report.md", partials, r)
}
