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

const articlePage = `<html><body>
<nav><p>Home</p></nav>
<article>
<p>Apple shares climbed after the company posted record services revenue for the quarter.</p>
<p>Analysts raised their price targets, citing resilient demand in the face of a soft consumer backdrop.</p>
<p>ad</p>
</article>
</body></html>`

func TestArticleText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articlePage)
	}))
	defer srv.Close()

	e := NewExtractor(0)
	text, err := e.ArticleText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("ArticleText failed: %v", err)
	}

	if !strings.Contains(text, "record services revenue") {
		t.Errorf("missing first paragraph: %q", text)
	}
	if got := len(strings.Split(text, "\n\n")); got != 2 {
		t.Errorf("expected 2 paragraphs joined by blank lines, short junk dropped, got %d: %q", got, text)
	}
}

func TestArticleTextNoBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><div>nothing here</div></body></html>")
	}))
	defer srv.Close()

	e := NewExtractor(0)
	if _, err := e.ArticleText(context.Background(), srv.URL); err == nil {
		t.Error("expected an error when no article body is found")
	}
}

func TestEnrichFillsShortItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articlePage)
	}))
	defer srv.Close()

	e := NewExtractor(0)
	e.delay = 0

	items := []types.ContentItem{
		{Title: "short one", Description: "too short", URL: srv.URL},
		{Title: "long one", Description: longDescription, URL: srv.URL + "/never-fetched"},
	}
	enriched := e.Enrich(context.Background(), items)

	if enriched[0].Body == "" {
		t.Error("short item should have been enriched with a body")
	}
	if enriched[1].Body != "" {
		t.Error("item with a long description must not be re-fetched")
	}
	// Input slice untouched
	if items[0].Body != "" {
		t.Error("Enrich must not mutate its input")
	}
}
