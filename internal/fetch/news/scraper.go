package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/types"
)

// Scraper collects headlines from financial news listing pages. It is
// the keyless fallback behind the NewsAPI fetcher; article bodies are
// filled separately by the extractor.
type Scraper struct {
	sources []Source
	timeout time.Duration
}

// Source defines one scrapable news listing.
type Source struct {
	Name       string
	BaseURL    string
	SearchPath string // e.g. "/quote/{symbol}/news"
	Selectors  Selectors
	RateLimit  time.Duration
}

// Selectors holds the CSS selectors for pulling article data out of a
// listing page.
type Selectors struct {
	Container   string
	Title       string
	URL         string
	Summary     string
	PublishedAt string
}

func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: defaultSources(),
		timeout: timeout,
	}
}

func defaultSources() []Source {
	return []Source{
		{
			Name:       "YahooFinance",
			BaseURL:    "https://finance.yahoo.com",
			SearchPath: "/quote/{symbol}/news",
			Selectors: Selectors{
				Container:   "li.stream-item",
				Title:       "h3",
				URL:         "a",
				Summary:     "p",
				PublishedAt: "time",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "Finviz",
			BaseURL:    "https://finviz.com",
			SearchPath: "/quote.ashx?t={symbol}",
			Selectors: Selectors{
				Container:   "tr.news-table-row",
				Title:       "a.tab-link-news",
				URL:         "a.tab-link-news",
				Summary:     "",
				PublishedAt: "td",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// Headlines scrapes all configured sources for the ticker and falls
// back to a Google News search when the listings come up empty.
func (s *Scraper) Headlines(ctx context.Context, ticker, companyName string, maxArticles int) ([]types.ContentItem, error) {
	timer := logger.StartOperation(ctx, "news.scrape", "ticker", ticker, "sources", len(s.sources))
	ctx = timer.GetContext()
	logger.Info(ctx, "Starting headline scraping", "ticker", ticker, "sources", len(s.sources))

	perSource := maxArticles / len(s.sources)
	if perSource < 1 {
		perSource = 1
	}

	items := []types.ContentItem{}
	for _, source := range s.sources {
		found, err := s.scrapeSource(ctx, source, ticker, perSource)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape source", err, "source", source.Name, "ticker", ticker)
			continue
		}
		items = append(items, found...)

		// Rate limiting between sources
		time.Sleep(source.RateLimit)
	}

	if len(items) == 0 {
		fallback, err := s.googleNews(ctx, ticker, companyName, maxArticles)
		if err != nil {
			timer.EndWithError(err)
			return nil, err
		}
		timer.End("articles", len(fallback))
		return fallback, nil
	}

	timer.End("articles", len(items))
	logger.Info(ctx, "Headline scraping completed", "ticker", ticker, "articles", len(items))
	return items, nil
}

func (s *Scraper) scrapeSource(ctx context.Context, source Source, ticker string, maxArticles int) ([]types.ContentItem, error) {
	items := []types.ContentItem{}

	c := colly.NewCollector(
		colly.AllowedDomains(domainOf(source.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(source.Selectors.Container, func(e *colly.HTMLElement) {
		if len(items) >= maxArticles {
			return
		}

		title := strings.TrimSpace(e.ChildText(source.Selectors.Title))
		if title == "" {
			return
		}
		articleURL := e.ChildAttr(source.Selectors.URL, "href")
		if articleURL == "" {
			return
		}
		if !strings.HasPrefix(articleURL, "http") {
			articleURL = source.BaseURL + articleURL
		}

		var summary string
		if source.Selectors.Summary != "" {
			summary = strings.TrimSpace(e.ChildText(source.Selectors.Summary))
		}
		publishedAt := strings.TrimSpace(e.ChildAttr(source.Selectors.PublishedAt, "datetime"))

		items = append(items, types.ContentItem{
			ID:          articleURL,
			Title:       title,
			Description: summary,
			URL:         articleURL,
			Source:      source.Name,
			SourceType:  types.SourceTypeNews,
			PublishedAt: publishedAt,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Scraping error", err, "source", source.Name, "url", r.Request.URL.String())
	})

	searchURL := source.BaseURL + strings.ReplaceAll(source.SearchPath, "{symbol}", strings.ToUpper(ticker))
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", searchURL, err)
	}
	c.Wait()

	return items, nil
}

// googleNews is the last-resort source when the listing pages yield
// nothing.
func (s *Scraper) googleNews(ctx context.Context, ticker, companyName string, maxArticles int) ([]types.ContentItem, error) {
	items := []types.ContentItem{}

	c := colly.NewCollector(
		colly.AllowedDomains("news.google.com", "www.google.com"),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	})

	c.OnHTML("article", func(e *colly.HTMLElement) {
		if len(items) >= maxArticles {
			return
		}

		title := e.ChildText("h3, h4")
		link := e.ChildAttr("a", "href")
		if title == "" || link == "" {
			return
		}
		// Clean up Google News redirect URL
		if strings.HasPrefix(link, "./articles/") {
			link = "https://news.google.com" + link[1:]
		}

		items = append(items, types.ContentItem{
			ID:          link,
			Title:       title,
			URL:         link,
			Source:      "GoogleNews",
			SourceType:  types.SourceTypeNews,
			PublishedAt: e.ChildAttr("time", "datetime"),
		})
	})

	subject := companyName
	if subject == "" {
		subject = ticker
	}
	searchQuery := url.QueryEscape(subject + " stock news")
	searchURL := fmt.Sprintf("https://news.google.com/search?q=%s&hl=en-US&gl=US&ceid=US:en", searchQuery)

	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to scrape Google News: %w", err)
	}
	c.Wait()

	logger.Info(ctx, "Google News scraping completed", "ticker", ticker, "articles", len(items))
	return items, nil
}

func domainOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
