package trading

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBalanceDecodesRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trading/balance" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"balances": []map[string]string{
				{"asset": "ETH", "free": "1.25000000", "locked": "0.00000000"},
				{"asset": "USDC", "free": "512.00000000", "locked": "8.00000000"},
			},
		})
	}))
	defer srv.Close()

	balances, err := NewClient(srv.URL).Balance(context.Background())
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(balances))
	}
	if balances[0].Asset != "ETH" || balances[0].Free != "1.25000000" {
		t.Fatalf("unexpected first balance: %+v", balances[0])
	}
}

func TestBalanceSurfacesBackendDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Binance API credentials are not configured."})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Balance(context.Background())
	if err == nil {
		t.Fatalf("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "Binance API credentials are not configured.") {
		t.Fatalf("expected backend detail in error, got %q", err.Error())
	}
}

func TestPlaceOrderNormalizesAndPosts(t *testing.T) {
	var got OrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trading/order" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode order: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"order":  map[string]any{"symbol": "ETHUSDC", "orderId": 42},
		})
	}))
	defer srv.Close()

	result, err := NewClient(srv.URL).PlaceOrder(context.Background(), OrderRequest{
		Symbol:   " ethusdc ",
		Side:     "sell",
		Quantity: 0.5,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if result.Status != "success" {
		t.Fatalf("unexpected status %q", result.Status)
	}
	if got.Symbol != "ETHUSDC" || got.Side != SideSell || got.OrderType != TypeMarket {
		t.Fatalf("expected normalized order, got %+v", got)
	}
	if got.Price != nil {
		t.Fatalf("market order should omit price, got %v", *got.Price)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	client := NewClient("http://127.0.0.1:0")

	if _, err := client.PlaceOrder(context.Background(), OrderRequest{Side: SideBuy, Quantity: 1}); err == nil {
		t.Fatalf("expected error for missing symbol")
	}
	if _, err := client.PlaceOrder(context.Background(), OrderRequest{Symbol: "ETHUSDC", Side: SideBuy}); err == nil {
		t.Fatalf("expected error for zero quantity")
	}
	if _, err := client.PlaceOrder(context.Background(), OrderRequest{
		Symbol:    "ETHUSDC",
		Side:      SideBuy,
		Quantity:  1,
		OrderType: TypeLimit,
	}); err == nil || !strings.Contains(err.Error(), "require a price") {
		t.Fatalf("expected limit-without-price rejection, got %v", err)
	}
}

func TestPlaceOrderRejectedByBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Failed to place order: insufficient balance"})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).PlaceOrder(context.Background(), OrderRequest{
		Symbol:   "ETHUSDC",
		Side:     SideSell,
		Quantity: 9000,
	})
	if err == nil || !strings.Contains(err.Error(), "insufficient balance") {
		t.Fatalf("expected backend rejection detail, got %v", err)
	}
}
