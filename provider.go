package xquant

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/percy-xu/xquant/date"
)

// This file fetches daily closes from the Tushare Pro API, the standard data
// source for Chinese A-shares. Responses are cached on disk with a daily
// expiry so repeated back-tests do not hammer the service.

const tushareURL = "https://api.tushare.pro"
const tushare_token = "TUSHARE_TOKEN"

var tushareTokenFlag = flag.String("tushare-token", "", "Tushare Pro token to use for fetching prices.\n If missing it will read the environment variable \""+tushare_token+"\". You can get one at https://tushare.pro/")

func tushareToken() string {
	// If the flag is not set, we try to read it from the environment variable.
	if *tushareTokenFlag == "" {
		*tushareTokenFlag = os.Getenv(tushare_token)
	}
	return *tushareTokenFlag
}

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// diskcache implements a unique key per day, so the local tmp expires every day.
	// POST bodies are part of the key, two different queries hit two entries.
	var body []byte
	if req.Body != nil {
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
	}
	key := fmt.Sprintf("%s %s %s %s", date.Today().String(), req.Method, req.URL.String(), body)
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	if err := c.put(key, resp); err != nil {
		log.Printf("cache write err (ignored): %v\n", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(os.TempDir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(os.TempDir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	_, err = f.Write(content)
	f.Close()
	return err
}

// daily returns a client with a cache with daily expiry.
func daily() *http.Client {
	client := new(http.Client)
	client.Transport = &diskCache{http.DefaultTransport}
	return client
}

// tushareQuery performs a single Tushare Pro call and returns the response's
// field names and data rows.
func tushareQuery(ctx context.Context, client *http.Client, apiName string, params map[string]string, fields string) ([]string, [][]any, error) {
	token := tushareToken()
	if token == "" {
		return nil, nil, fmt.Errorf("no Tushare token, set -tushare-token or the %s environment variable", tushare_token)
	}

	payload, err := json.Marshal(map[string]any{
		"api_name": apiName,
		"token":    token,
		"params":   params,
		"fields":   fields,
	})
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tushareURL, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("error calling tushare %q: %w", apiName, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, nil, fmt.Errorf("cannot http POST %v: %v", tushareURL, resp.Status)
	}

	var jobj any
	if err := json.NewDecoder(resp.Body).Decode(&jobj); err != nil {
		return nil, nil, fmt.Errorf("error parsing tushare %q response: %w", apiName, err)
	}

	if jcode, err := jsonpath.Get("$.code", jobj); err == nil {
		if code, ok := jcode.(float64); ok && code != 0 {
			msg, _ := jsonpath.Get("$.msg", jobj)
			return nil, nil, fmt.Errorf("tushare %q failed with code %v: %v", apiName, code, msg)
		}
	}

	jfields, err := jsonpath.Get("$.data.fields", jobj)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing tushare %q response: %q %w", apiName, "$.data.fields", err)
	}
	jitems, err := jsonpath.Get("$.data.items", jobj)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing tushare %q response: %q %w", apiName, "$.data.items", err)
	}

	var names []string
	for _, f := range jfields.([]any) {
		name, ok := f.(string)
		if !ok {
			return nil, nil, fmt.Errorf("tushare %q: field name is not a string: %v", apiName, f)
		}
		names = append(names, name)
	}
	var rows [][]any
	for _, it := range jitems.([]any) {
		row, ok := it.([]any)
		if !ok {
			return nil, nil, fmt.Errorf("tushare %q: item is not a row: %v", apiName, it)
		}
		rows = append(rows, row)
	}
	return names, rows, nil
}

// tushareDate formats a date the way the Tushare API expects, "20210104".
func tushareDate(d date.Date) string { return strings.ReplaceAll(d.String(), "-", "") }

// parseTushareDate parses a "20210104" style date.
func parseTushareDate(s string) (date.Date, error) {
	if len(s) != 8 {
		return date.Date{}, fmt.Errorf("invalid tushare date %q", s)
	}
	return date.Parse(s[:4] + "-" + s[4:6] + "-" + s[6:])
}

// FetchDailyPrices downloads the daily closes of a ticker over a range.
// Tickers in the ".XSHG" and ".XSHE" style are converted to the exchange
// codes Tushare expects.
func FetchDailyPrices(ctx context.Context, ticker string, r date.Range) (*date.History[float64], error) {
	code := ticker
	if strings.HasSuffix(ticker, ".XSHG") || strings.HasSuffix(ticker, ".XSHE") {
		var err error
		if code, err = ConvertTicker(ticker); err != nil {
			return nil, err
		}
	}
	if !ValidTicker(code) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTicker, ticker)
	}

	fields, rows, err := tushareQuery(ctx, daily(), "daily", map[string]string{
		"ts_code":    code,
		"start_date": tushareDate(r.From),
		"end_date":   tushareDate(r.To),
	}, "trade_date,close")
	if err != nil {
		return nil, err
	}

	dayCol, closeCol := -1, -1
	for i, f := range fields {
		switch f {
		case "trade_date":
			dayCol = i
		case "close":
			closeCol = i
		}
	}
	if dayCol < 0 || closeCol < 0 {
		return nil, fmt.Errorf("tushare daily: missing trade_date or close in fields %v", fields)
	}

	h := &date.History[float64]{}
	for _, row := range rows {
		jday, ok := row[dayCol].(string)
		if !ok {
			return nil, fmt.Errorf("tushare daily: trade_date is not a string: %v", row[dayCol])
		}
		on, err := parseTushareDate(jday)
		if err != nil {
			return nil, err
		}
		price, ok := row[closeCol].(float64)
		if !ok {
			continue // suspended day, close is null
		}
		h.Append(on, price)
	}
	return h, nil
}

// UpdateMarket fetches the daily closes of every security in the market over
// a range and stores them.
func UpdateMarket(ctx context.Context, m *Market, r date.Range) error {
	for _, ticker := range m.Tickers() {
		prices, err := FetchDailyPrices(ctx, ticker, r)
		if err != nil {
			return fmt.Errorf("update %q: %w", ticker, err)
		}
		for on, price := range prices.Values() {
			if err := m.SetPrice(ticker, on, price); err != nil {
				return err
			}
		}
	}
	return nil
}
