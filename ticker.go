package xquant

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Chinese A-share tickers come in two conventions: the exchange suffixes
// ".SH"/".SZ" used by most data vendors, and the market identifier suffixes
// ".XSHG"/".XSHE" used by others. A ticker is a six digit code plus one of
// those suffixes, e.g. "600519.SH" or "000001.XSHE".

// ErrInvalidTicker reports a ticker symbol that cannot be interpreted.
var ErrInvalidTicker = errors.New("invalid ticker symbol")

var tickerRegex = regexp.MustCompile(`^[0-9]{6}\.(SH|SZ|XSHG|XSHE)$`)

// ValidTicker reports whether the ticker follows either A-share convention.
func ValidTicker(ticker string) bool { return tickerRegex.MatchString(ticker) }

// ConvertTicker converts a ticker symbol between the two conventions:
// ".XSHG" becomes ".SH", ".XSHE" becomes ".SZ", and the other way around.
func ConvertTicker(ticker string) (string, error) {
	switch {
	case strings.HasSuffix(ticker, ".XSHG"):
		return strings.TrimSuffix(ticker, ".XSHG") + ".SH", nil
	case strings.HasSuffix(ticker, ".XSHE"):
		return strings.TrimSuffix(ticker, ".XSHE") + ".SZ", nil
	case strings.HasSuffix(ticker, ".SH"):
		return strings.TrimSuffix(ticker, ".SH") + ".XSHG", nil
	case strings.HasSuffix(ticker, ".SZ"):
		return strings.TrimSuffix(ticker, ".SZ") + ".XSHE", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTicker, ticker)
	}
}

// AddSuffix adds the Shanghai or Shenzhen exchange suffix (".SH" or ".SZ")
// to a bare numeric code. The code is zero-padded to six digits; codes
// starting with '6' trade in Shanghai, all others in Shenzhen.
//
//	AddSuffix("1")      == "000001.SZ"
//	AddSuffix("300001") == "300001.SZ"
//	AddSuffix("600001") == "600001.SH"
func AddSuffix(code string) (string, error) {
	if len(code) > 6 {
		return "", fmt.Errorf("%w: cannot interpret %q", ErrInvalidTicker, code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: cannot interpret %q", ErrInvalidTicker, code)
		}
	}
	code = strings.Repeat("0", 6-len(code)) + code
	if code[0] == '6' {
		return code + ".SH", nil
	}
	return code + ".SZ", nil
}
