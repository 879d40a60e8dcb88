package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func chartBody(closes []string, meta string) string {
	return fmt.Sprintf(`{"chart":{"result":[{"meta":%s,"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`,
		meta, strings.Join(closes, ","))
}

func risingCloses(n int) []string {
	out := make([]string, 0, n+1)
	for i := 0; i < n; i++ {
		out = append(out, fmt.Sprintf("%.2f", 100.0+float64(i)*0.5))
	}
	// null close on a holiday
	out = append(out, "null")
	return out
}

func newTestServer(t *testing.T, meta string, closes []string, profileStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/TEST") {
			t.Errorf("chart path = %q", r.URL.Path)
		}
		fmt.Fprint(w, chartBody(closes, meta))
	})
	mux.HandleFunc("/v10/finance/quoteSummary/", func(w http.ResponseWriter, r *http.Request) {
		if profileStatus != http.StatusOK {
			w.WriteHeader(profileStatus)
			return
		}
		fmt.Fprint(w, `{"quoteSummary":{"result":[{"assetProfile":{"sector":"Technology","industry":"Semiconductors"},"price":{"marketCap":{"raw":1500000000}}}]}}`)
	})
	return httptest.NewServer(mux)
}

func TestStockInfoFull(t *testing.T) {
	meta := `{"currency":"USD","symbol":"TEST","longName":"Test Corporation","shortName":"TestCo","regularMarketPrice":131.5}`
	srv := newTestServer(t, meta, risingCloses(60), http.StatusOK)
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL}, nil)
	info, err := p.StockInfo(context.Background(), "test")
	if err != nil {
		t.Fatalf("StockInfo: %v", err)
	}

	if info.Symbol != "TEST" {
		t.Errorf("Symbol = %q", info.Symbol)
	}
	if info.CompanyName != "Test Corporation" {
		t.Errorf("CompanyName = %q", info.CompanyName)
	}
	if info.Price != 131.5 {
		t.Errorf("Price = %v", info.Price)
	}
	if info.Currency != "USD" {
		t.Errorf("Currency = %q", info.Currency)
	}
	if info.Sector != "Technology" || info.Industry != "Semiconductors" {
		t.Errorf("Sector/Industry = %q/%q", info.Sector, info.Industry)
	}
	if info.MarketCap != 1500000000 {
		t.Errorf("MarketCap = %d", info.MarketCap)
	}
	if info.SMA20 <= 0 || info.SMA50 <= 0 {
		t.Errorf("SMA20/SMA50 = %v/%v, want positive with 60 closes", info.SMA20, info.SMA50)
	}
	// Rising series, so the day change is positive
	if info.ChangePct <= 0 {
		t.Errorf("ChangePct = %v, want positive", info.ChangePct)
	}
	// A strictly rising series pins RSI at 100
	if info.RSI14 != 100 {
		t.Errorf("RSI14 = %v, want 100", info.RSI14)
	}
	if info.Error != "" {
		t.Errorf("Error = %q, want empty", info.Error)
	}
}

func TestStockInfoProfileFailureDegrades(t *testing.T) {
	meta := `{"currency":"USD","symbol":"TEST","longName":"Test Corporation","regularMarketPrice":131.5}`
	srv := newTestServer(t, meta, risingCloses(60), http.StatusInternalServerError)
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL}, nil)
	info, err := p.StockInfo(context.Background(), "TEST")
	if err != nil {
		t.Fatalf("StockInfo: %v", err)
	}
	if info.Price != 131.5 {
		t.Errorf("Price = %v", info.Price)
	}
	if info.Sector != "" {
		t.Errorf("Sector = %q, want empty on profile failure", info.Sector)
	}
	if info.Error == "" {
		t.Error("Error field empty, want a profile-unavailable note")
	}
}

func TestStockInfoChartError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL}, nil)
	if _, err := p.StockInfo(context.Background(), "NOPE"); err == nil {
		t.Fatal("expected error for delisted symbol")
	}
}

func TestStockInfoShortHistory(t *testing.T) {
	meta := `{"currency":"USD","symbol":"TEST","shortName":"TestCo","regularMarketPrice":0}`
	srv := newTestServer(t, meta, []string{"101.0", "102.0", "103.5"}, http.StatusOK)
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL}, nil)
	info, err := p.StockInfo(context.Background(), "TEST")
	if err != nil {
		t.Fatalf("StockInfo: %v", err)
	}
	if info.CompanyName != "TestCo" {
		t.Errorf("CompanyName = %q, want shortName fallback", info.CompanyName)
	}
	// No market price in meta: last close stands in
	if info.Price != 103.5 {
		t.Errorf("Price = %v, want last close 103.5", info.Price)
	}
	if info.SMA20 != 0 || info.SMA50 != 0 || info.RSI14 != 0 {
		t.Errorf("snapshot = %v/%v/%v, want zero values with 3 closes", info.SMA20, info.SMA50, info.RSI14)
	}
}
