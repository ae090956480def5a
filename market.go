package xquant

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/percy-xu/xquant/date"
)

// Security holds the identity and the daily close price history of a single
// listed instrument.
type Security struct {
	ticker   string
	currency string
	prices   date.History[float64]
}

// NewSecurity returns a security with an empty price history.
// An empty currency defaults to DefaultCurrency.
func NewSecurity(ticker, currency string) *Security {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Security{ticker: ticker, currency: currency}
}

// Ticker returns the security's ticker symbol.
func (s *Security) Ticker() string { return s.ticker }

// Currency returns the currency the security is quoted in.
func (s *Security) Currency() string { return s.currency }

// Prices returns the security's daily close price history.
func (s *Security) Prices() *date.History[float64] { return &s.prices }

// Method selects how a date is snapped onto the trading calendar when it is
// not a trading day itself.
type Method string

const (
	Exact Method = ""      // the date must be a trading day
	Ffill Method = "ffill" // fall back to the last trading day before
	Bfill Method = "bfill" // fall forward to the first trading day after
)

// ErrUnknownTicker reports an operation on a ticker that was never added to
// the market.
var ErrUnknownTicker = errors.New("unknown ticker")

// ErrNoTradingDay reports that no trading day could be resolved for a date.
var ErrNoTradingDay = errors.New("no matching trading day")

// Market holds market data for a universe of securities: their price
// histories, the trading calendar derived from them, and named auxiliary
// datasets such as volume or market capitalization.
type Market struct {
	securities []*Security
	index      map[string]*Security
	tables     map[string]*Table
}

// NewMarket returns a new empty market data collection.
func NewMarket() *Market {
	return &Market{
		index:  make(map[string]*Security),
		tables: make(map[string]*Table),
	}
}

// Add adds a security to the market. Adding the same ticker twice is an error.
func (m *Market) Add(sec *Security) error {
	if sec == nil || sec.ticker == "" {
		return errors.New("security must have a ticker")
	}
	if _, ok := m.index[sec.ticker]; ok {
		return fmt.Errorf("ticker %q is already defined", sec.ticker)
	}
	m.securities = append(m.securities, sec)
	m.index[sec.ticker] = sec
	return nil
}

// Has reports whether the ticker is known to the market.
func (m *Market) Has(ticker string) bool {
	_, ok := m.index[ticker]
	return ok
}

// Get returns the security declared with this ticker, or nil if unknown.
func (m *Market) Get(ticker string) *Security { return m.index[ticker] }

// Tickers returns all known tickers in alphabetical order.
func (m *Market) Tickers() []string {
	tickers := make([]string, 0, len(m.securities))
	for _, sec := range m.securities {
		tickers = append(tickers, sec.ticker)
	}
	slices.Sort(tickers)
	return tickers
}

// SetPrice records the close price of a ticker on a given day, declaring the
// security on the fly if needed.
func (m *Market) SetPrice(ticker string, on date.Date, price float64) error {
	sec, ok := m.index[ticker]
	if !ok {
		sec = NewSecurity(ticker, DefaultCurrency)
		if err := m.Add(sec); err != nil {
			return err
		}
	}
	sec.prices.Append(on, price)
	return nil
}

// Price returns the close price of a ticker on a given day.
func (m *Market) Price(ticker string, on date.Date) (float64, bool) {
	sec, ok := m.index[ticker]
	if !ok {
		return 0, false
	}
	return sec.prices.Get(on)
}

// PriceAsOf returns the close price on a given day, or the most recent close
// before it.
func (m *Market) PriceAsOf(ticker string, on date.Date) (float64, bool) {
	sec, ok := m.index[ticker]
	if !ok {
		return 0, false
	}
	return sec.prices.ValueAsOf(on)
}

// LastTraded returns the most recent day the ticker traded and its close.
func (m *Market) LastTraded(ticker string) (date.Date, float64, bool) {
	sec, ok := m.index[ticker]
	if !ok || sec.prices.Len() == 0 {
		return date.Date{}, 0, false
	}
	day, price := sec.prices.Latest()
	return day, price, true
}

// TradingDays returns the trading calendar: the sorted union of all price
// dates across the market's securities.
func (m *Market) TradingDays() []date.Date {
	histories := make([]*date.History[float64], 0, len(m.securities))
	for _, sec := range m.securities {
		histories = append(histories, &sec.prices)
	}
	var days []date.Date
	for day := range date.Iterate(histories...) {
		days = append(days, day)
	}
	return days
}

// IsTradingDay reports whether at least one security traded on that day.
func (m *Market) IsTradingDay(on date.Date) bool {
	for _, sec := range m.securities {
		if _, ok := sec.prices.Get(on); ok {
			return true
		}
	}
	return false
}

// Suspended reports whether the ticker was suspended from trading on a given
// day: the day is a trading day and the ticker has traded before, but has no
// price.
func (m *Market) Suspended(ticker string, on date.Date) bool {
	sec, ok := m.index[ticker]
	if !ok {
		return false
	}
	if _, ok := sec.prices.Get(on); ok {
		return false
	}
	if _, ok := sec.prices.ValueAsOf(on); !ok {
		return false // never traded yet
	}
	return m.IsTradingDay(on)
}

// ClosestTradingDay returns the trading day matching a date: the date itself
// when it is a trading day, otherwise the closest one in the direction given
// by method. With Exact, a non-trading date is an error.
func (m *Market) ClosestTradingDay(on date.Date, method Method) (date.Date, error) {
	days := m.TradingDays()
	i, found := slices.BinarySearchFunc(days, on, compareDates)
	if found {
		return days[i], nil
	}
	switch method {
	case Ffill:
		if i > 0 {
			return days[i-1], nil
		}
	case Bfill:
		if i < len(days) {
			return days[i], nil
		}
	case Exact:
		return date.Date{}, fmt.Errorf("%w: %s is not a trading day", ErrNoTradingDay, on)
	default:
		return date.Date{}, fmt.Errorf("unknown method %q", method)
	}
	return date.Date{}, fmt.Errorf("%w: nothing %s of %s", ErrNoTradingDay, method, on)
}

// NextTradingDay returns the first trading day strictly after a date.
func (m *Market) NextTradingDay(on date.Date) (date.Date, error) {
	return m.ClosestTradingDay(on.Add(1), Bfill)
}

// LastTradingDay returns the last trading day strictly before a date.
func (m *Market) LastTradingDay(on date.Date) (date.Date, error) {
	return m.ClosestTradingDay(on.Add(-1), Ffill)
}

// BusinessDays returns all trading days in a given month.
func (m *Market) BusinessDays(year int, month time.Month) []date.Date {
	r := date.NewRange(date.New(year, month, 1), date.Monthly)
	var days []date.Date
	for _, day := range m.TradingDays() {
		if r.Contains(day) {
			days = append(days, day)
		}
	}
	return days
}

func compareDates(d, t date.Date) int {
	switch {
	case d.After(t):
		return 1
	case d.Before(t):
		return -1
	default:
		return 0
	}
}

// Table is a named auxiliary dataset: one time series per ticker, for data
// other than prices (volume, market capitalization, ...).
type Table struct {
	name    string
	columns map[string]*date.History[float64]
}

// AddTable creates (or returns) the named auxiliary dataset of the market.
func (m *Market) AddTable(name string) *Table {
	if t, ok := m.tables[name]; ok {
		return t
	}
	t := &Table{name: name, columns: make(map[string]*date.History[float64])}
	m.tables[name] = t
	return t
}

// Table returns the named auxiliary dataset, or nil if unknown.
func (m *Market) Table(name string) *Table { return m.tables[name] }

// Name returns the dataset's name.
func (t *Table) Name() string { return t.name }

// Set records a value for a ticker on a given day.
func (t *Table) Set(ticker string, on date.Date, v float64) {
	h, ok := t.columns[ticker]
	if !ok {
		h = &date.History[float64]{}
		t.columns[ticker] = h
	}
	h.Append(on, v)
}

// History returns the series recorded for a ticker, or nil if none.
func (t *Table) History(ticker string) *date.History[float64] { return t.columns[ticker] }

// Tickers returns the dataset's tickers in alphabetical order.
func (t *Table) Tickers() []string {
	tickers := make([]string, 0, len(t.columns))
	for ticker := range t.columns {
		tickers = append(tickers, ticker)
	}
	slices.Sort(tickers)
	return tickers
}
