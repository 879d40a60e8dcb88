// Package reddit fetches posts and top-level comments mentioning a
// ticker from the public Reddit JSON API. No authentication is used;
// the API tolerates light read traffic with a distinctive user agent.
package reddit

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"stock-sentiment/internal/api"
	"stock-sentiment/internal/fetch"
	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/types"
)

// Config controls the reddit fetcher.
type Config struct {
	BaseURL         string
	Subreddits      []string
	Timespan        string // hour, day, week, month, year, all
	PostLimit       int
	CommentsPerPost int
	Timeout         time.Duration
}

type Fetcher struct {
	client  *api.Client
	limiter *fetch.ProviderLimiter
	cfg     Config
}

func NewFetcher(cfg Config, limiter *fetch.ProviderLimiter) *Fetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.reddit.com"
	}
	if len(cfg.Subreddits) == 0 {
		cfg.Subreddits = []string{"stocks", "investing", "wallstreetbets"}
	}
	if cfg.Timespan == "" {
		cfg.Timespan = "week"
	}
	if cfg.PostLimit <= 0 {
		cfg.PostLimit = 10
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
		limiter: limiter,
		cfg:     cfg,
	}
}

func (f *Fetcher) Name() string {
	return "reddit"
}

// Fetch searches each configured subreddit for the ticker and returns
// matching posts plus their top comments. Posts seen in an earlier
// subreddit are not repeated. A failing subreddit is logged and
// skipped; the remainder still contributes.
func (f *Fetcher) Fetch(ctx context.Context, ticker, companyName string) ([]types.ContentItem, error) {
	query := fmt.Sprintf("%q OR \"$%s\"", ticker, ticker)
	if companyName != "" {
		query = fmt.Sprintf("%q OR %q OR \"$%s\"", companyName, ticker, ticker)
	}
	logger.Info(ctx, "Fetching reddit data", "ticker", ticker, "subreddits", len(f.cfg.Subreddits))

	items := []types.ContentItem{}
	seen := make(map[string]bool)

	for _, sub := range f.cfg.Subreddits {
		posts, err := f.searchSubreddit(ctx, sub, query)
		if err != nil {
			logger.ErrorWithErr(ctx, "Subreddit search failed", err, "subreddit", sub)
			continue
		}
		for _, p := range posts {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			items = append(items, postToItem(p))

			if f.cfg.CommentsPerPost > 0 {
				comments, err := f.topComments(ctx, p)
				if err != nil {
					logger.Debug(ctx, "Comment fetch failed", "post", p.ID, "error", err)
					continue
				}
				items = append(items, comments...)
			}
		}
	}

	logger.Info(ctx, "Reddit fetch completed", "ticker", ticker, "items", len(items))
	return items, nil
}

func (f *Fetcher) searchSubreddit(ctx context.Context, subreddit, query string) ([]postData, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, fetch.ProviderReddit); err != nil {
			return nil, err
		}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("restrict_sr", "1")
	params.Set("sort", "new")
	params.Set("t", f.cfg.Timespan)
	params.Set("limit", strconv.Itoa(f.cfg.PostLimit))

	path := fmt.Sprintf("/r/%s/search.json?%s", subreddit, params.Encode())
	resp, err := f.client.GET(ctx, path, api.RedditHeaders())
	if err != nil {
		return nil, err
	}

	var page postListing
	if err := resp.ParseJSON(&page); err != nil {
		return nil, err
	}

	posts := make([]postData, 0, len(page.Data.Children))
	for _, child := range page.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

func (f *Fetcher) topComments(ctx context.Context, post postData) ([]types.ContentItem, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, fetch.ProviderReddit); err != nil {
			return nil, err
		}
	}

	path := fmt.Sprintf("/comments/%s.json?limit=%d&depth=1&sort=top", post.ID, f.cfg.CommentsPerPost)
	resp, err := f.client.GET(ctx, path, api.RedditHeaders())
	if err != nil {
		return nil, err
	}

	// The endpoint returns a two-element array: the post itself, then
	// its comment tree.
	var pages []commentThread
	if err := resp.ParseJSON(&pages); err != nil {
		return nil, err
	}
	if len(pages) < 2 {
		return nil, fmt.Errorf("unexpected comment payload shape for post %s", post.ID)
	}

	items := []types.ContentItem{}
	for _, child := range pages[1].Data.Children {
		if len(items) >= f.cfg.CommentsPerPost {
			break
		}
		if child.Kind != "t1" {
			continue
		}
		c := child.Data
		if c.Body == "" || c.Body == "[deleted]" || c.Body == "[removed]" {
			continue
		}
		items = append(items, commentToItem(post, c))
	}
	return items, nil
}

func postToItem(p postData) types.ContentItem {
	// Classify title and selftext together so short link posts still
	// carry their headline sentiment.
	body := p.Title + "."
	if p.SelfText != "" {
		body += " " + p.SelfText
	}
	return types.ContentItem{
		ID:          p.ID,
		Title:       truncate(p.Title, 250),
		Body:        body,
		URL:         "https://reddit.com" + p.Permalink,
		Source:      "r/" + p.Subreddit,
		SourceType:  types.SourceTypeRedditPost,
		PublishedAt: unixToISO(p.CreatedUTC),
		Author:      authorName(p.Author),
		Upvotes:     p.Score,
	}
}

func commentToItem(p postData, c commentData) types.ContentItem {
	return types.ContentItem{
		ID:          c.ID,
		Title:       "Comment on: " + truncate(p.Title, 100) + "...",
		Body:        c.Body,
		URL:         "https://reddit.com" + c.Permalink,
		Source:      "r/" + p.Subreddit,
		SourceType:  types.SourceTypeRedditComment,
		PublishedAt: unixToISO(c.CreatedUTC),
		Author:      authorName(c.Author),
		Upvotes:     c.Score,
	}
}

func unixToISO(createdUTC float64) string {
	if createdUTC <= 0 {
		return ""
	}
	return time.Unix(int64(createdUTC), 0).UTC().Format(time.RFC3339)
}

func authorName(author string) string {
	if author == "" {
		return "[deleted]"
	}
	return author
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

type postListing struct {
	Data struct {
		Children []struct {
			Data postData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type postData struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	Permalink   string  `json:"permalink"`
	CreatedUTC  float64 `json:"created_utc"`
	Subreddit   string  `json:"subreddit"`
	Author      string  `json:"author"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
}

type commentThread struct {
	Data struct {
		Children []struct {
			Kind string      `json:"kind"`
			Data commentData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type commentData struct {
	ID         string  `json:"id"`
	Body       string  `json:"body"`
	Permalink  string  `json:"permalink"`
	CreatedUTC float64 `json:"created_utc"`
	Author     string  `json:"author"`
	Score      int     `json:"score"`
}
