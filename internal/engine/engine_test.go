package engine

import (
	"fmt"
	"testing"
	"time"

	"stock-sentiment/internal/types"
)

func TestAnalyzeRecentPositiveDominatesStaleNegative(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p := DefaultParams()
	p.HalfLifeHours = 24

	items := []types.AnalyzedItem{
		{Headline: "fresh rally", Score: 0.8, PublishedAt: now.Format(time.RFC3339)},
		{Headline: "old crash", Score: -0.8, PublishedAt: now.Add(-1000 * time.Hour).Format(time.RFC3339)},
	}
	res := New(p).Analyze(items, now)

	if res.Score <= 0.5 {
		t.Errorf("recent strong positive should dominate, got %v", res.Score)
	}
	if res.Suggestion != SuggestionStrongBuy {
		t.Errorf("expected %q, got %q", SuggestionStrongBuy, res.Suggestion)
	}
	if res.AnalyzedCount != 2 {
		t.Errorf("expected 2 analyzed items, got %d", res.AnalyzedCount)
	}
}

func TestAnalyzeEmptyBatch(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	res := New(DefaultParams()).Analyze(nil, now)

	if res.Score != 0.0 {
		t.Errorf("empty batch should score 0.0, got %v", res.Score)
	}
	if res.Suggestion != SuggestionHold {
		t.Errorf("expected Hold, got %q", res.Suggestion)
	}
	if res.AnalyzedCount != 0 {
		t.Errorf("expected count 0, got %d", res.AnalyzedCount)
	}
	if len(res.Justifications) != 1 || res.Justifications[0].Headline != NoDataHeadline {
		t.Errorf("expected the synthetic no-data justification, got %+v", res.Justifications)
	}
}

func TestNeutralResultMatchesEmptyAnalyze(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	e := New(DefaultParams())
	a := e.NeutralResult(now)
	b := e.Analyze(nil, now)
	if a.Score != b.Score || a.Suggestion != b.Suggestion || a.AnalyzedCount != b.AnalyzedCount {
		t.Error("NeutralResult must equal an empty Analyze call")
	}
}

func TestAnalyzeTopItemsKeepInputOrder(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p := DefaultParams()
	p.MaxReportedItems = 3

	items := make([]types.AnalyzedItem, 5)
	for i := range items {
		items[i] = types.AnalyzedItem{
			Headline: fmt.Sprintf("item-%d", i),
			Score:    float64(i) * 0.1,
		}
	}
	res := New(p).Analyze(items, now)

	if len(res.TopItems) != 3 {
		t.Fatalf("expected 3 reported items, got %d", len(res.TopItems))
	}
	for i, it := range res.TopItems {
		if it.Headline != fmt.Sprintf("item-%d", i) {
			t.Errorf("reported items must preserve input order, got %q at %d", it.Headline, i)
		}
	}
	if res.AnalyzedCount != 5 {
		t.Errorf("count covers the full batch, got %d", res.AnalyzedCount)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	e := New(DefaultParams())
	items := []types.AnalyzedItem{
		{Headline: "a", Score: 0.42, PublishedAt: "2024-05-30T08:00:00Z"},
		{Headline: "b", Score: -0.17, PublishedAt: ""},
		{Headline: "c", Score: 0.05, PublishedAt: "not a timestamp"},
	}

	first := e.Analyze(items, now)
	for i := 0; i < 5; i++ {
		again := e.Analyze(items, now)
		if again.Score != first.Score || again.Suggestion != first.Suggestion {
			t.Fatalf("analysis is not deterministic: %+v vs %+v", again, first)
		}
	}
}

func TestAnalyzeScoreStaysBounded(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	e := New(DefaultParams())
	items := []types.AnalyzedItem{
		{Score: 1.0, PublishedAt: now.Format(time.RFC3339)},
		{Score: -1.0, PublishedAt: ""},
		{Score: 0.33, PublishedAt: "2020-01-01"},
	}
	res := e.Analyze(items, now)
	if res.Score < -1 || res.Score > 1 {
		t.Errorf("aggregate score out of range: %v", res.Score)
	}
}
