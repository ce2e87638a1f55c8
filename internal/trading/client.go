// Package trading is the HTTP client for the SuperAgent backend trading
// routes (Binance Spot Testnet behind the backend).
package trading

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Order side and type values accepted by the backend.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	TypeMarket = "MARKET"
	TypeLimit  = "LIMIT"
)

// AssetBalance is one non-empty balance row from the backend account query.
type AssetBalance struct {
	Asset  string `json:"asset"`
	Free   string `json:"free"`
	Locked string `json:"locked"`
}

// OrderRequest describes an order to place through the backend.
type OrderRequest struct {
	Symbol    string   `json:"symbol"`
	Side      string   `json:"side"`
	Quantity  float64  `json:"quantity"`
	Price     *float64 `json:"price,omitempty"`
	OrderType string   `json:"order_type,omitempty"`
}

// OrderResult is the backend receipt for a placed order.
type OrderResult struct {
	Status string         `json:"status"`
	Order  map[string]any `json:"order"`
}

// Client talks to the backend /trading routes.
type Client struct {
	apiBase string
	httpc   *http.Client
}

// NewClient creates a trading client for the given backend base URL.
func NewClient(apiBase string) *Client {
	return &Client{
		apiBase: strings.TrimRight(strings.TrimSpace(apiBase), "/"),
		httpc:   &http.Client{},
	}
}

// Balance fetches the account balances that hold any free or locked amount.
func (c *Client) Balance(ctx context.Context) ([]AssetBalance, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/trading/balance", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trading request failed on /trading/balance: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, backendError("balance", resp.StatusCode, payload)
	}

	var parsed struct {
		Balances []AssetBalance `json:"balances"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, errors.New("trading balance returned non-json payload")
	}
	return parsed.Balances, nil
}

// PlaceOrder submits an order. Limit orders require a price, mirroring the
// backend validation so the round trip is not wasted on a known rejection.
func (c *Client) PlaceOrder(ctx context.Context, order OrderRequest) (OrderResult, error) {
	order.Symbol = strings.ToUpper(strings.TrimSpace(order.Symbol))
	order.Side = strings.ToUpper(strings.TrimSpace(order.Side))
	if order.OrderType == "" {
		order.OrderType = TypeMarket
	}
	order.OrderType = strings.ToUpper(strings.TrimSpace(order.OrderType))

	if order.Symbol == "" {
		return OrderResult{}, errors.New("order symbol is required")
	}
	if order.Quantity <= 0 {
		return OrderResult{}, errors.New("order quantity must be positive")
	}
	if order.OrderType == TypeLimit && order.Price == nil {
		return OrderResult{}, errors.New("limit orders require a price value")
	}

	buf, err := json.Marshal(order)
	if err != nil {
		return OrderResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/trading/order", bytes.NewReader(buf))
	if err != nil {
		return OrderResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return OrderResult{}, fmt.Errorf("trading request failed on /trading/order: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return OrderResult{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return OrderResult{}, backendError("order", resp.StatusCode, payload)
	}

	var result OrderResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return OrderResult{}, errors.New("trading order returned non-json payload")
	}
	return result, nil
}

// backendError prefers the FastAPI detail text when the body carries one.
func backendError(op string, status int, payload []byte) error {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(payload, &body); err == nil && strings.TrimSpace(body.Detail) != "" {
		return fmt.Errorf("trading %s failed: %s", op, strings.TrimSpace(body.Detail))
	}
	compact := strings.Join(strings.Fields(string(payload)), " ")
	if len(compact) > 240 {
		compact = compact[:237] + "..."
	}
	return fmt.Errorf("trading %s http %d: %s", op, status, compact)
}
