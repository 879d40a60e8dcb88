// Package news fetches recent press coverage for a ticker, primarily
// through NewsAPI with a scraping fallback for keyless deployments.
package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stock-sentiment/internal/api"
	"stock-sentiment/internal/fetch"
	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/types"
)

// Config controls the news fetcher.
type Config struct {
	APIKey          string
	BaseURL         string
	MaxArticles     int
	DomainBlacklist []string
	SourceBlacklist []string
	ScrapeFallback  bool
	Timeout         time.Duration
}

// Fetcher pulls articles from the NewsAPI /everything endpoint and
// maps them to content items. Press release mills and other unwanted
// publishers are dropped by domain or source name.
type Fetcher struct {
	client    *api.Client
	scraper   *Scraper
	extractor *Extractor
	limiter   *fetch.ProviderLimiter
	cfg       Config
}

func NewFetcher(cfg Config, limiter *fetch.ProviderLimiter) *Fetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://newsapi.org/v2"
	}
	if cfg.MaxArticles <= 0 {
		cfg.MaxArticles = 15
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Fetcher{
		client: api.NewClient(
			api.WithBaseURL(cfg.BaseURL),
			api.WithTimeout(cfg.Timeout),
			api.WithLogging(true),
		),
		scraper:   NewScraper(cfg.Timeout),
		extractor: NewExtractor(cfg.Timeout),
		limiter:   limiter,
		cfg:       cfg,
	}
}

func (f *Fetcher) Name() string {
	return "news"
}

// Fetch returns up to MaxArticles recent articles mentioning the
// ticker or company. Bodies are filled by the extractor where the API
// description alone is too short to classify.
func (f *Fetcher) Fetch(ctx context.Context, ticker, companyName string) ([]types.ContentItem, error) {
	var (
		items []types.ContentItem
		err   error
	)
	if f.cfg.APIKey == "" {
		if !f.cfg.ScrapeFallback {
			return nil, fmt.Errorf("news fetcher: no API key configured and scraping disabled")
		}
		logger.Warn(ctx, "No news API key set, scraping headlines instead", "ticker", ticker)
		items, err = f.scraper.Headlines(ctx, ticker, companyName, f.cfg.MaxArticles)
	} else {
		items, err = f.fetchFromAPI(ctx, ticker, companyName)
	}
	if err != nil {
		return nil, err
	}

	items = f.extractor.Enrich(ctx, items)
	logger.Info(ctx, "News fetch completed", "ticker", ticker, "articles", len(items))
	return items, nil
}

func (f *Fetcher) fetchFromAPI(ctx context.Context, ticker, companyName string) ([]types.ContentItem, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, fetch.ProviderNewsAPI); err != nil {
			return nil, err
		}
	}

	query := fmt.Sprintf("%q", ticker)
	if companyName != "" {
		query = fmt.Sprintf("%q OR %q", companyName, ticker)
	}
	// Fetch extra so blacklist filtering still leaves a full batch
	pageSize := f.cfg.MaxArticles * 2
	if pageSize > 100 {
		pageSize = 100
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("page", "1")

	req := api.NewRequest(http.MethodGet, "/everything?"+params.Encode()).
		WithContext(ctx).
		WithHeader("X-Api-Key", f.cfg.APIKey)

	resp, err := f.client.DoWithRetry(req, nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi request failed: %w", err)
	}

	var payload everythingResponse
	if err := resp.ParseJSON(&payload); err != nil {
		return nil, err
	}
	if payload.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %q: %s", payload.Status, payload.Message)
	}

	return f.collect(ctx, payload.Articles), nil
}

// collect filters and maps raw API articles, deduplicating by URL.
func (f *Fetcher) collect(ctx context.Context, articles []article) []types.ContentItem {
	items := make([]types.ContentItem, 0, f.cfg.MaxArticles)
	seen := make(map[string]bool, len(articles))

	for _, a := range articles {
		if len(items) >= f.cfg.MaxArticles {
			break
		}
		if a.Title == "" || a.Title == "[Removed]" || a.URL == "" || a.PublishedAt == "" {
			continue
		}
		if seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		if f.blacklisted(a.URL, a.Source.Name) {
			logger.Debug(ctx, "Skipping blacklisted article", "url", a.URL, "source", a.Source.Name)
			continue
		}

		items = append(items, types.ContentItem{
			ID:          a.URL,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			SourceType:  types.SourceTypeNews,
			PublishedAt: a.PublishedAt,
			Author:      a.Author,
		})
	}
	return items
}

func (f *Fetcher) blacklisted(rawURL, sourceName string) bool {
	host := hostOf(rawURL)
	for _, d := range f.cfg.DomainBlacklist {
		// Substring so subdomains of a blocked domain are caught too.
		if d != "" && strings.Contains(host, strings.ToLower(d)) {
			return true
		}
	}
	for _, s := range f.cfg.SourceBlacklist {
		if sourceName == s {
			return true
		}
	}
	return false
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

type everythingResponse struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []article `json:"articles"`
	Code         string    `json:"code,omitempty"`
	Message      string    `json:"message,omitempty"`
}

type article struct {
	Source      articleSource `json:"source"`
	Author      string        `json:"author"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	PublishedAt string        `json:"publishedAt"`
	Content     string        `json:"content"`
}

type articleSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
