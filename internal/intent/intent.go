// Package intent extracts trade and balance intents from free-form text, for
// both agent replies and raw user input.
package intent

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var (
	tradePattern   = regexp.MustCompile(`(?i)\b(?:trade|swap)\s+([0-9]*\.?[0-9]+)\s*(\w+)\s*(?:to|->)\s*(\w+)`)
	balancePattern = regexp.MustCompile(`(?i)\b(balance|portfolio|holdings)\b`)
)

// Trade is a parsed swap intent, e.g. "swap 0.5 ETH to USDC".
type Trade struct {
	Amount     float64
	AmountText string
	From       string
	To         string
}

// ParseTrade extracts the first trade intent from text, if any.
func ParseTrade(text string) (Trade, bool) {
	match := tradePattern.FindStringSubmatch(text)
	if match == nil {
		return Trade{}, false
	}
	amount, err := strconv.ParseFloat(match[1], 64)
	if err != nil || amount <= 0 {
		return Trade{}, false
	}
	return Trade{
		Amount:     amount,
		AmountText: match[1],
		From:       strings.ToUpper(match[2]),
		To:         strings.ToUpper(match[3]),
	}, true
}

// WantsBalance reports whether text asks for balances or portfolio holdings.
func WantsBalance(text string) bool {
	return balancePattern.MatchString(text)
}

// Token describes one tradable asset. Address is empty for the native coin.
type Token struct {
	Symbol         string
	Address        string
	Decimals       int
	RouterFee      int
	WrappedAddress string
}

// Registry maps upper-case symbols to token details.
type Registry map[string]Token

// DefaultRegistry returns the Sepolia testnet token set. Contract addresses
// can be overridden through environment variables.
func DefaultRegistry() Registry {
	weth := envOr("WETH_ADDRESS", "0xDD13E55209Fd76AfE204dBda4007C227904f0a81")
	return Registry{
		"ETH": {
			Symbol:         "ETH",
			Decimals:       18,
			RouterFee:      3000,
			WrappedAddress: weth,
		},
		"WETH": {
			Symbol:    "WETH",
			Address:   weth,
			Decimals:  18,
			RouterFee: 3000,
		},
		"USDC": {
			Symbol:    "USDC",
			Address:   envOr("USDC_ADDRESS", "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238"),
			Decimals:  6,
			RouterFee: 500,
		},
		"DAI": {
			Symbol:    "DAI",
			Address:   envOr("DAI_ADDRESS", "0x38E68A37F05A21E2C2dC6aAbC5e1E6aF3A3A7f81"),
			Decimals:  18,
			RouterFee: 3000,
		},
	}
}

// Resolve looks up a symbol case-insensitively.
func (r Registry) Resolve(symbol string) (Token, error) {
	token, ok := r[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return Token{}, fmt.Errorf("token %q is not configured", symbol)
	}
	return token, nil
}

// FormatAmount renders an asset amount with four decimals below 1 and two
// otherwise, rounding half away from zero.
func FormatAmount(value float64) string {
	if math.Abs(value) < 1 {
		return strconv.FormatFloat(math.Round(value*10000)/10000, 'f', 4, 64)
	}
	return strconv.FormatFloat(math.Round(value*100)/100, 'f', 2, 64)
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
