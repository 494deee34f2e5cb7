package universe

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// symbolPattern accepts US-style tickers, optionally with a class suffix
// such as BRK.B.
var symbolPattern = regexp.MustCompile(`^[A-Z]{1,5}(\.[A-Z]{1,2})?$`)

// defaultWatchlist is the built-in scan universe: liquid large caps plus the
// sector ETFs, used when no universe file or symbol list is given.
var defaultWatchlist = []string{
	"AAPL", "MSFT", "NVDA", "GOOGL", "AMZN", "META", "TSLA", "AVGO", "AMD", "QCOM",
	"CRM", "ORCL", "ADBE", "NFLX", "INTC", "MU", "TXN", "AMAT", "LRCX", "KLAC",
	"JPM", "BAC", "WFC", "GS", "MS", "V", "MA", "AXP", "BLK", "SCHW",
	"UNH", "JNJ", "LLY", "PFE", "MRK", "ABBV", "TMO", "ABT", "DHR", "BMY",
	"XOM", "CVX", "COP", "SLB", "EOG", "OXY",
	"HD", "LOW", "MCD", "SBUX", "NKE", "TGT", "COST", "WMT", "PG", "KO", "PEP",
	"BA", "CAT", "DE", "GE", "HON", "UPS", "UNP", "RTX", "LMT",
	"DIS", "CMCSA", "T", "VZ", "TMUS",
	"LIN", "FCX", "NEM", "NUE",
	"NEE", "DUK", "SO",
	"PLD", "AMT", "SPG",
	"SPY", "QQQ", "IWM", "DIA",
	"XLK", "XLF", "XLE", "XLV", "XLY", "XLP", "XLI", "XLB", "XLU", "XLRE", "XLC",
}

// Default returns a copy of the built-in watchlist.
func Default() []string {
	out := make([]string, len(defaultWatchlist))
	copy(out, defaultWatchlist)
	return out
}

// FromArgs parses a comma-separated symbol list.
func FromArgs(arg string) ([]string, error) {
	return Clean(strings.Split(arg, ","))
}

// FromFile reads one symbol per line. Blank lines and '#' comments are
// ignored.
func FromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var raw []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		raw = append(raw, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return Clean(raw)
}

// Clean normalizes symbols to upper case, drops duplicates, rejects anything
// that does not look like a ticker, and returns the result sorted.
func Clean(symbols []string) ([]string, error) {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		sym := strings.ToUpper(strings.TrimSpace(s))
		if sym == "" {
			continue
		}
		if !symbolPattern.MatchString(sym) {
			return nil, fmt.Errorf("invalid symbol %q", s)
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	sort.Strings(out)
	return out, nil
}
