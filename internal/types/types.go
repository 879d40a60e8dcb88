package types

import "time"

// Source categories for fetched content.
const (
	SourceTypeNews          = "news"
	SourceTypeRedditPost    = "reddit_post"
	SourceTypeRedditComment = "reddit_comment"
)

// ContentItem is one fetched unit of text (article, post, comment)
// about a security. PublishedAt stays a raw string from the provider;
// it may be empty or malformed and is parsed leniently downstream.
type ContentItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Body        string `json:"body,omitempty"`
	URL         string `json:"url"`
	Source      string `json:"source_name"`
	SourceType  string `json:"source_type"`
	PublishedAt string `json:"publishedAt,omitempty"`
	Author      string `json:"author,omitempty"`
	Upvotes     int    `json:"upvotes,omitempty"`
}

// Classification is the raw output of a sentiment classifier for one text.
type Classification struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// AnalyzedItem is a ContentItem after text selection and sentiment
// normalization. Immutable once built; re-analysis produces a new value.
type AnalyzedItem struct {
	Headline    string  `json:"headline"`
	URL         string  `json:"url"`
	Score       float64 `json:"score"`
	Label       string  `json:"label"`
	PublishedAt string  `json:"publishedAt,omitempty"`
	Source      string  `json:"source_name"`
	SourceType  string  `json:"source_type"`
}

// JustificationPoint is one representative item selected to explain a
// recommendation to an end user.
type JustificationPoint struct {
	Type     string  `json:"type"`
	Headline string  `json:"headline"`
	URL      string  `json:"url,omitempty"`
	Source   string  `json:"source,omitempty"`
	Score    float64 `json:"score"`
}

// AggregateResult is the full outcome of one sentiment aggregation for
// a ticker: weighted score, recommendation, and supporting evidence.
type AggregateResult struct {
	Ticker         string               `json:"ticker"`
	CompanyName    string               `json:"company_name"`
	DataSource     string               `json:"data_source"`
	Score          float64              `json:"aggregated_score"`
	Suggestion     string               `json:"suggestion"`
	AnalyzedCount  int                  `json:"analyzed_articles_count"`
	Justifications []JustificationPoint `json:"justification_points"`
	TopItems       []AnalyzedItem       `json:"top_analyzed_items"`
	GeneratedAt    int64                `json:"generated_at"`
}

// StockInfo is basic company/quote data plus a small technical snapshot
// when daily history is available.
type StockInfo struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"company_name"`
	Price       float64 `json:"current_price"`
	ChangePct   float64 `json:"change_pct,omitempty"`
	Currency    string  `json:"currency,omitempty"`
	Sector      string  `json:"sector,omitempty"`
	Industry    string  `json:"industry,omitempty"`
	MarketCap   int64   `json:"market_cap,omitempty"`
	SMA20       float64 `json:"sma_20,omitempty"`
	SMA50       float64 `json:"sma_50,omitempty"`
	RSI14       float64 `json:"rsi_14,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// AnalysisRun is one persisted aggregation outcome, kept for history.
type AnalysisRun struct {
	ID            string    `json:"id"`
	Ticker        string    `json:"ticker"`
	DataSource    string    `json:"data_source"`
	Score         float64   `json:"score"`
	Suggestion    string    `json:"suggestion"`
	AnalyzedCount int       `json:"analyzed_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// AnalysisRequest is the message shape the worker consumes from the
// request topic.
type AnalysisRequest struct {
	Ticker string `json:"ticker"`
	Source string `json:"source"`
}
