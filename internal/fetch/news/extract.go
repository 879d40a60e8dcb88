package news

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"stock-sentiment/internal/api"
	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/types"
)

// Descriptions shorter than this are not worth classifying on their
// own, so the full article page is fetched.
const minUsefulLength = 100

// Paragraph containers most publishers wrap body text in, ordered
// specific to generic.
var articleSelectors = []string{
	"article p",
	"div.article-body p",
	"div.caas-body p",
	"div.story-content p",
	"div.content-body p",
}

// Extractor pulls readable article text out of news pages.
type Extractor struct {
	client *api.Client
	delay  time.Duration
}

func NewExtractor(timeout time.Duration) *Extractor {
	return &Extractor{
		client: api.NewClient(api.WithTimeout(timeout)),
		delay:  500 * time.Millisecond,
	}
}

// Enrich fills Body for items whose description is too short to
// classify. Extraction failures leave the item as fetched; the text
// selection downstream falls back to description or title.
func (e *Extractor) Enrich(ctx context.Context, items []types.ContentItem) []types.ContentItem {
	enriched := make([]types.ContentItem, len(items))
	copy(enriched, items)

	for i := range enriched {
		if len(enriched[i].Description) >= minUsefulLength || enriched[i].URL == "" {
			continue
		}
		body, err := e.ArticleText(ctx, enriched[i].URL)
		if err != nil {
			logger.Debug(ctx, "Article extraction failed", "url", enriched[i].URL, "error", err)
		} else {
			enriched[i].Body = body
		}

		// Rate limiting between article fetches
		time.Sleep(e.delay)
	}
	return enriched
}

// ArticleText downloads one article page and joins its paragraph text.
func (e *Extractor) ArticleText(ctx context.Context, articleURL string) (string, error) {
	resp, err := e.client.GET(ctx, articleURL, api.BrowserHeaders())
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return "", fmt.Errorf("failed to parse article HTML: %w", err)
	}

	for _, selector := range articleSelectors {
		paragraphs := []string{}
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if len(text) > 20 {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= 2 {
			return strings.Join(paragraphs, "\n\n"), nil
		}
	}
	return "", fmt.Errorf("no article body found at %s", articleURL)
}
