package xquant

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/percy-xu/xquant/date"
)

// This file persists a market as a single JSONL stream, human-readable and
// git-friendly. The stream starts with one definition line per security,
// then one line per day holding that day's closes:
//
//	{"ticker":"600036.SH","currency":"CNY"}
//	{"on":"2021-01-04","600036.SH":43.20}
//
// A line is dispatched on its fields: "ticker" marks a definition, "on"
// marks a day of prices.

const attrOn = "on"
const attrTicker = "ticker"

// EncodeMarket writes the market's securities and prices as JSONL.
func EncodeMarket(w io.Writer, m *Market) error {
	tickers := m.Tickers()

	for _, ticker := range tickers {
		var jw jsonObjectWriter
		jw.Append(attrTicker, ticker)
		jw.Append("currency", m.Get(ticker).Currency())
		b, err := jw.MarshalJSON()
		if err != nil {
			return fmt.Errorf("persist error: cannot marshal security %q: %w", ticker, err)
		}
		if _, err := w.Write(append(b, '\n')); err != nil {
			return fmt.Errorf("persist error: cannot write to file: %w", err)
		}
	}

	histories := make([]*date.History[float64], 0, len(tickers))
	for _, ticker := range tickers {
		histories = append(histories, m.Get(ticker).Prices())
	}

	for day := range date.Iterate(histories...) {
		var jw jsonObjectWriter
		jw.Append(attrOn, day.String())
		for _, ticker := range tickers {
			price, ok := m.Price(ticker, day)
			if !ok || math.IsNaN(price) {
				continue
			}
			jw.Append(ticker, price)
		}
		b, err := jw.MarshalJSON()
		if err != nil {
			return err
		}
		if _, err := w.Write(append(b, '\n')); err != nil {
			return fmt.Errorf("persist error: cannot write to file: %w", err)
		}
	}
	return nil
}

// DecodeMarket reads a market persisted by EncodeMarket.
func DecodeMarket(r io.Reader) (*Market, error) {
	m := NewMarket()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	i := 0
	for scanner.Scan() {
		i++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		jobj := make(map[string]any)
		if err := json.Unmarshal([]byte(line), &jobj); err != nil {
			return nil, fmt.Errorf("parse error line %d: not a correct json: %w", i, err)
		}

		if _, ok := jobj[attrTicker]; ok {
			if err := decodeSecurityLine(m, jobj, i); err != nil {
				return nil, err
			}
			continue
		}
		if err := decodePriceLine(m, jobj, i); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("load error: %w", err)
	}
	return m, nil
}

func decodeSecurityLine(m *Market, jobj map[string]any, i int) error {
	ticker, ok := jobj[attrTicker].(string)
	if !ok {
		return fmt.Errorf("parse error line %d: property %q must be of type 'string'", i, attrTicker)
	}
	currency, _ := jobj["currency"].(string)
	if err := m.Add(NewSecurity(ticker, currency)); err != nil {
		return fmt.Errorf("parse error line %d: %w", i, err)
	}
	return nil
}

func decodePriceLine(m *Market, jobj map[string]any, i int) error {
	jvalue, ok := jobj[attrOn]
	if !ok {
		return fmt.Errorf("parse error line %d: missing the property %q with a date", i, attrOn)
	}
	jstring, ok := jvalue.(string)
	if !ok {
		return fmt.Errorf("parse error line %d: property %q must be of type 'string'", i, attrOn)
	}
	on, err := date.Parse(jstring)
	if err != nil {
		return fmt.Errorf("parse error line %d: property %q must be a valid date: %w", i, attrOn, err)
	}

	for ticker, price := range jobj {
		if ticker == attrOn {
			continue
		}
		p, ok := price.(float64)
		if !ok {
			return fmt.Errorf("parse error line %d: property %q must be of type 'number'", i, ticker)
		}
		if !m.Has(ticker) {
			return fmt.Errorf("parse error line %d: property %q must be an existing ticker", i, ticker)
		}
		if err := m.SetPrice(ticker, on, p); err != nil {
			return fmt.Errorf("parse error line %d: %w", i, err)
		}
	}
	return nil
}

// DecodeMarketFile loads a market from a JSONL file. A missing file yields
// an empty market.
func DecodeMarketFile(path string) (*Market, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewMarket(), nil
		}
		return nil, fmt.Errorf("load error: cannot open market file %q: %w", path, err)
	}
	defer f.Close()
	return DecodeMarket(f)
}

// EncodeMarketFile persists a market to a JSONL file.
func EncodeMarketFile(path string, m *Market) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("persist error: cannot create file %q: %w", path, err)
	}
	defer f.Close()
	return EncodeMarket(f, m)
}
