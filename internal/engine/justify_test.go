package engine

import (
	"testing"

	"stock-sentiment/internal/types"
)

func item(headline string, score float64) types.AnalyzedItem {
	return types.AnalyzedItem{
		Headline: headline,
		URL:      "https://example.com/" + headline,
		Score:    score,
		Source:   "test",
	}
}

func TestSelectJustificationsSignificantPair(t *testing.T) {
	items := []types.AnalyzedItem{
		item("bullish", 0.3),
		item("bearish", -0.3),
		item("meh", 0.01),
	}
	points := SelectJustifications(items, 3)

	if len(points) != 2 {
		t.Fatalf("expected exactly 2 points, got %d", len(points))
	}
	if points[0].Type != "positive" || points[0].Score != 0.3 {
		t.Errorf("first point should be the positive 0.3 item, got %+v", points[0])
	}
	if points[1].Type != "negative" || points[1].Score != -0.3 {
		t.Errorf("second point should be the negative -0.3 item, got %+v", points[1])
	}
}

func TestSelectJustificationsNeutralFallback(t *testing.T) {
	items := []types.AnalyzedItem{
		item("mild-up", 0.02),
		item("mild-down", -0.01),
	}
	points := SelectJustifications(items, 3)

	if len(points) != 1 {
		t.Fatalf("expected exactly 1 neutral point, got %d", len(points))
	}
	if points[0].Type != "neutral" {
		t.Errorf("expected neutral point, got %q", points[0].Type)
	}
	if points[0].Score != -0.01 {
		t.Errorf("fallback should pick the smallest absolute score, got %v", points[0].Score)
	}
}

func TestSelectJustificationsNeutralTieBreak(t *testing.T) {
	items := []types.AnalyzedItem{
		item("first", 0.02),
		item("second", -0.02),
	}
	points := SelectJustifications(items, 3)
	if len(points) != 1 || points[0].Headline != "first" {
		t.Errorf("ties break by input order, expected 'first', got %+v", points)
	}
}

func TestSelectJustificationsEmptyInput(t *testing.T) {
	points := SelectJustifications(nil, 3)
	if len(points) != 1 {
		t.Fatalf("empty input must yield one synthetic point, got %d", len(points))
	}
	if points[0].Type != "neutral" || points[0].Headline != NoDataHeadline {
		t.Errorf("unexpected synthetic point: %+v", points[0])
	}
}

func TestSelectJustificationsSinglePositiveNoDuplicate(t *testing.T) {
	items := []types.AnalyzedItem{item("only", 0.5)}
	points := SelectJustifications(items, 3)
	if len(points) != 1 {
		t.Fatalf("a single item must not appear twice, got %d points", len(points))
	}
	if points[0].Type != "positive" {
		t.Errorf("expected positive point, got %q", points[0].Type)
	}
}

func TestSelectJustificationsPositivePlusNeutral(t *testing.T) {
	items := []types.AnalyzedItem{
		item("strong", 0.4),
		item("quiet", 0.03),
	}
	points := SelectJustifications(items, 3)

	if len(points) != 2 {
		t.Fatalf("expected positive plus neutral fallback, got %d", len(points))
	}
	if points[0].Type != "positive" || points[1].Type != "neutral" {
		t.Errorf("unexpected point types: %q, %q", points[0].Type, points[1].Type)
	}
	if points[1].Headline != "quiet" {
		t.Errorf("fallback must not reuse the positive item, got %q", points[1].Headline)
	}
}

func TestSelectJustificationsTruncates(t *testing.T) {
	items := []types.AnalyzedItem{
		item("up", 0.6),
		item("down", -0.6),
		item("flat", 0.0),
	}
	points := SelectJustifications(items, 2)
	if len(points) > 2 {
		t.Errorf("expected at most 2 points, got %d", len(points))
	}
}
