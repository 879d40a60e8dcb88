package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stock-sentiment/internal/types"
)

const longDescription = "The company reported quarterly revenue well above consensus estimates, driven by strong demand across all reporting segments and improving margins that management expects to hold through the remainder of the fiscal year."

func newsapiHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Errorf("missing or wrong X-Api-Key header: %q", r.Header.Get("X-Api-Key"))
		}
		q := r.URL.Query()
		if !strings.Contains(q.Get("q"), "AAPL") {
			t.Errorf("query should contain the ticker, got %q", q.Get("q"))
		}
		if q.Get("language") != "en" || q.Get("sortBy") != "publishedAt" {
			t.Errorf("unexpected query params: %v", q)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"status": "ok",
			"totalResults": 5,
			"articles": [
				{"source": {"name": "Reuters"}, "title": "Apple beats estimates", "description": %q, "url": "https://reuters.example.com/a1", "publishedAt": "2024-06-01T09:00:00Z"},
				{"source": {"name": "Reuters"}, "title": "Duplicate entry", "description": %q, "url": "https://reuters.example.com/a1", "publishedAt": "2024-06-01T09:05:00Z"},
				{"source": {"name": "PR Mill"}, "title": "Sponsored post", "description": %q, "url": "https://www.blocked.example.com/a2", "publishedAt": "2024-06-01T08:00:00Z"},
				{"source": {"name": "Spam Daily"}, "title": "Clickbait", "description": %q, "url": "https://other.example.com/a3", "publishedAt": "2024-06-01T07:00:00Z"},
				{"source": {"name": "Bloomberg"}, "title": "[Removed]", "description": %q, "url": "https://bloomberg.example.com/a4", "publishedAt": "2024-06-01T06:00:00Z"},
				{"source": {"name": "CNBC"}, "title": "Undated story", "description": %q, "url": "https://cnbc.example.com/a5", "publishedAt": ""},
				{"source": {"name": "WSJ"}, "title": "Apple supply chain update", "description": %q, "url": "https://wsj.example.com/a6", "publishedAt": "2024-06-01T05:00:00Z"}
			]
		}`, longDescription, longDescription, longDescription, longDescription, longDescription, longDescription, longDescription)
	}
}

func TestFetcherFiltersAndMaps(t *testing.T) {
	srv := httptest.NewServer(newsapiHandler(t))
	defer srv.Close()

	f := NewFetcher(Config{
		APIKey:          "test-key",
		BaseURL:         srv.URL,
		MaxArticles:     10,
		DomainBlacklist: []string{"blocked.example.com"},
		SourceBlacklist: []string{"Spam Daily"},
	}, nil)

	items, err := f.Fetch(context.Background(), "AAPL", "Apple")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 surviving articles, got %d: %+v", len(items), items)
	}
	first := items[0]
	if first.Title != "Apple beats estimates" || first.Source != "Reuters" {
		t.Errorf("unexpected first item: %+v", first)
	}
	if first.SourceType != types.SourceTypeNews {
		t.Errorf("expected news source type, got %q", first.SourceType)
	}
	if first.ID != first.URL {
		t.Error("news items use their URL as identifier")
	}
	if items[1].Title != "Apple supply chain update" {
		t.Errorf("unexpected second item: %+v", items[1])
	}
}

func TestFetcherHonorsMaxArticles(t *testing.T) {
	srv := httptest.NewServer(newsapiHandler(t))
	defer srv.Close()

	f := NewFetcher(Config{
		APIKey:      "test-key",
		BaseURL:     srv.URL,
		MaxArticles: 1,
	}, nil)

	items, err := f.Fetch(context.Background(), "AAPL", "Apple")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected the batch capped at 1, got %d", len(items))
	}
}

func TestFetcherAPIErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status": "error", "code": "apiKeyInvalid", "message": "bad key"}`)
	}))
	defer srv.Close()

	f := NewFetcher(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	if _, err := f.Fetch(context.Background(), "AAPL", "Apple"); err == nil {
		t.Error("expected an error for non-ok API status")
	}
}

func TestFetcherNoKeyNoFallback(t *testing.T) {
	f := NewFetcher(Config{ScrapeFallback: false}, nil)
	if _, err := f.Fetch(context.Background(), "AAPL", "Apple"); err == nil {
		t.Error("expected an error when keyless and fallback disabled")
	}
}

func TestHostOf(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://www.prnewswire.com/x/y", "prnewswire.com"},
		{"https://reuters.com/a", "reuters.com"},
		{"not a url at all\x7f", ""},
	}
	for _, tt := range tests {
		if got := hostOf(tt.raw); got != tt.want {
			t.Errorf("hostOf(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestFetcherName(t *testing.T) {
	if NewFetcher(Config{}, nil).Name() != "news" {
		t.Error("unexpected fetcher name")
	}
}
