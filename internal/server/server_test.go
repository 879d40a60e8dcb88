package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stock-sentiment/internal/config"
	"stock-sentiment/internal/interfaces"
	"stock-sentiment/internal/sentiment"
	"stock-sentiment/internal/types"
)

const relevantBody = "AAPL shares moved sharply higher after the company posted quarterly results well ahead of expectations, and several analysts lifted their AAPL price targets in response."

type stubFetcher struct {
	name  string
	items []types.ContentItem
	calls int
}

func (f *stubFetcher) Fetch(ctx context.Context, ticker, companyName string) ([]types.ContentItem, error) {
	f.calls++
	return f.items, nil
}

func (f *stubFetcher) Name() string { return f.name }

type stubClassifier struct{}

func (c *stubClassifier) Classify(ctx context.Context, texts []string) ([]types.Classification, error) {
	out := make([]types.Classification, len(texts))
	for i := range texts {
		out[i] = types.Classification{Label: "positive", Confidence: 0.9}
	}
	return out, nil
}

func (c *stubClassifier) Name() string { return "stub" }

type stubMarket struct {
	info *types.StockInfo
	err  error
}

func (m *stubMarket) StockInfo(ctx context.Context, symbol string) (*types.StockInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.info, nil
}

type stubStore struct {
	runs     []types.AnalysisRun
	gotLimit int
}

func (s *stubStore) UpsertStock(ctx context.Context, ticker, companyName string) error { return nil }
func (s *stubStore) SaveItems(ctx context.Context, ticker string, items []types.AnalyzedItem) error {
	return nil
}
func (s *stubStore) RecentItems(ctx context.Context, ticker, sourceType string, limit int) ([]types.AnalyzedItem, error) {
	return nil, nil
}
func (s *stubStore) SaveRun(ctx context.Context, run types.AnalysisRun) error { return nil }
func (s *stubStore) RunHistory(ctx context.Context, ticker string, limit int) ([]types.AnalysisRun, error) {
	s.gotLimit = limit
	return s.runs, nil
}
func (s *stubStore) Close() error { return nil }

func newsItem(id string) types.ContentItem {
	return types.ContentItem{
		ID:          id,
		Title:       "AAPL moves on earnings",
		Body:        relevantBody,
		URL:         "https://example.com/news/" + id,
		Source:      "Example Wire",
		SourceType:  types.SourceTypeNews,
		PublishedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

type testServer struct {
	srv     *Server
	handler http.Handler
	fetcher *stubFetcher
}

func newTestServer(t *testing.T, market interfaces.MarketData, store interfaces.Store, mutate func(*config.Config)) *testServer {
	t.Helper()
	t.Setenv("SENTIMENT_LOG_DIR", t.TempDir())

	fetcher := &stubFetcher{name: "news", items: []types.ContentItem{newsItem("a")}}
	svc := sentiment.NewService(sentiment.Params{
		Fetchers:   []interfaces.Fetcher{fetcher},
		Classifier: &stubClassifier{},
	})

	cfg := config.DefaultConfig()
	cfg.Server.RateLimitRPS = 1000
	cfg.Server.RateLimitBurst = 1000
	if mutate != nil {
		mutate(cfg)
	}

	srv := New(svc, market, store, cfg)
	return &testServer{srv: srv, handler: srv.Handler(), fetcher: fetcher}
}

func (ts *testServer) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil, nil, nil)

	rec := ts.get("/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestStockInfoEndpoint(t *testing.T) {
	market := &stubMarket{info: &types.StockInfo{Symbol: "AAPL", CompanyName: "Apple Inc.", Price: 187.3}}
	ts := newTestServer(t, market, nil, nil)

	rec := ts.get("/api/stock/aapl/info")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var info types.StockInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decoding info response: %v", err)
	}
	if info.Symbol != "AAPL" || info.CompanyName != "Apple Inc." {
		t.Errorf("unexpected info payload: %+v", info)
	}
}

func TestStockInfoNotFound(t *testing.T) {
	ts := newTestServer(t, &stubMarket{err: errors.New("no such symbol")}, nil, nil)

	rec := ts.get("/api/stock/ZZZZ/info")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected an error message in the body")
	}
}

func TestStockInfoUnconfigured(t *testing.T) {
	ts := newTestServer(t, nil, nil, nil)

	if rec := ts.get("/api/stock/AAPL/info"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without a market provider, got %d", rec.Code)
	}
}

func TestInvalidTickerRejected(t *testing.T) {
	ts := newTestServer(t, &stubMarket{info: &types.StockInfo{Symbol: "X"}}, nil, nil)

	for _, path := range []string{
		"/api/stock/TOOLONGTICKER1/info",
		"/api/stock/TOOLONGTICKER1/sentiment",
		"/api/stock/A_B/sentiment",
	} {
		if rec := ts.get(path); rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for %s, got %d", path, rec.Code)
		}
	}
}

func TestSentimentEndpoint(t *testing.T) {
	ts := newTestServer(t, nil, nil, nil)

	rec := ts.get("/api/stock/aapl/sentiment?source=news")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res types.AggregateResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding sentiment response: %v", err)
	}
	if res.Ticker != "AAPL" {
		t.Errorf("expected ticker AAPL, got %q", res.Ticker)
	}
	if res.DataSource != "News" {
		t.Errorf("expected data source News, got %q", res.DataSource)
	}
	if res.AnalyzedCount != 1 {
		t.Errorf("expected 1 analyzed item, got %d", res.AnalyzedCount)
	}
}

func TestSentimentBadSource(t *testing.T) {
	ts := newTestServer(t, nil, nil, nil)

	if rec := ts.get("/api/stock/AAPL/sentiment?source=twitter"); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an unknown source, got %d", rec.Code)
	}
}

func TestSentimentRefreshBypassesCache(t *testing.T) {
	ts := newTestServer(t, nil, nil, nil)

	for i := 0; i < 2; i++ {
		if rec := ts.get("/api/stock/AAPL/sentiment"); rec.Code != http.StatusOK {
			t.Fatalf("request %d failed with %d", i, rec.Code)
		}
	}
	if ts.fetcher.calls != 1 {
		t.Fatalf("expected the second lookup to be cached, fetcher ran %d times", ts.fetcher.calls)
	}

	if rec := ts.get("/api/stock/AAPL/sentiment?refresh=1"); rec.Code != http.StatusOK {
		t.Fatalf("refresh request failed with %d", rec.Code)
	}
	if ts.fetcher.calls != 2 {
		t.Errorf("expected refresh=1 to re-run the pipeline, fetcher ran %d times", ts.fetcher.calls)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	store := &stubStore{runs: []types.AnalysisRun{
		{ID: "1", Ticker: "AAPL", Suggestion: "Buy"},
		{ID: "2", Ticker: "AAPL", Suggestion: "Hold"},
	}}
	ts := newTestServer(t, nil, store, nil)

	rec := ts.get("/api/stock/AAPL/history?limit=abc")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.gotLimit != 20 {
		t.Errorf("expected an unparsable limit to fall back to 20, got %d", store.gotLimit)
	}

	var body struct {
		Ticker string              `json:"ticker"`
		Runs   []types.AnalysisRun `json:"runs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding history response: %v", err)
	}
	if body.Ticker != "AAPL" || len(body.Runs) != 2 {
		t.Errorf("unexpected history payload: %+v", body)
	}

	ts.get("/api/stock/AAPL/history?limit=5")
	if store.gotLimit != 5 {
		t.Errorf("expected limit 5 to be passed through, got %d", store.gotLimit)
	}
}

func TestHistoryUnconfigured(t *testing.T) {
	ts := newTestServer(t, nil, nil, nil)

	if rec := ts.get("/api/stock/AAPL/history"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without a store, got %d", rec.Code)
	}
}

func TestRateLimitPerClient(t *testing.T) {
	ts := newTestServer(t, nil, nil, func(cfg *config.Config) {
		cfg.Server.RateLimitRPS = 1
		cfg.Server.RateLimitBurst = 1
	})

	if rec := ts.get("/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", rec.Code)
	}
	if rec := ts.get("/healthz"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("a different client should get its own bucket, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, nil, nil, func(cfg *config.Config) {
		cfg.Server.AllowedOrigin = "https://dashboard.example.com"
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/stock/AAPL/sentiment", nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected preflight to succeed, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://dashboard.example.com" {
		t.Errorf("expected the configured origin, got %q", got)
	}
}
