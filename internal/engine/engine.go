// Package engine reduces a batch of classified text items about one
// security to a single weighted sentiment score, a discrete suggestion
// and a short list of justification points. Every function is pure and
// synchronous; the caller supplies the clock instant, so identical
// inputs always produce identical results.
package engine

import (
	"time"

	"stock-sentiment/internal/types"
)

// Thresholds partitions the aggregate score into the five suggestion
// labels. Valid thresholds are ordered StrongBuy >= Buy >= Hold >=
// Sell, which makes the partition total over the real line.
type Thresholds struct {
	StrongBuy float64
	Buy       float64
	Hold      float64
	Sell      float64
}

// Params holds the tunable weighting and selection knobs.
type Params struct {
	HalfLifeHours     float64
	IntensityBoost    float64
	MinTextLength     int
	MinMentions       int
	MaxJustifications int
	MaxReportedItems  int
	Thresholds        Thresholds
}

// DefaultParams returns the reference tuning.
func DefaultParams() Params {
	return Params{
		HalfLifeHours:     72,
		IntensityBoost:    0.15,
		MinTextLength:     100,
		MinMentions:       1,
		MaxJustifications: 3,
		MaxReportedItems:  15,
		Thresholds: Thresholds{
			StrongBuy: 0.25,
			Buy:       0.05,
			Hold:      -0.05,
			Sell:      -0.25,
		},
	}
}

type Engine struct {
	params Params
}

func New(params Params) *Engine {
	return &Engine{params: params}
}

func (e *Engine) Params() Params {
	return e.params
}

// Analyze collapses analyzed items into one result. Weights combine
// recency decay and intensity boost per item; the score is their
// weighted mean. TopItems keeps the first MaxReportedItems in input
// order, not sorted, so callers see the batch as it was analyzed.
// Ticker, CompanyName and DataSource are left for the caller to fill.
func (e *Engine) Analyze(items []types.AnalyzedItem, now time.Time) types.AggregateResult {
	scores := make([]float64, len(items))
	weights := make([]float64, len(items))
	for i, it := range items {
		scores[i] = it.Score
		weights[i] = Weight(it.Score, it.PublishedAt, now, e.params.HalfLifeHours, e.params.IntensityBoost)
	}
	score := WeightedMean(scores, weights)

	top := items
	if len(top) > e.params.MaxReportedItems {
		top = top[:e.params.MaxReportedItems]
	}

	return types.AggregateResult{
		Score:          score,
		Suggestion:     Suggest(score, e.params.Thresholds),
		AnalyzedCount:  len(items),
		Justifications: SelectJustifications(items, e.params.MaxJustifications),
		TopItems:       top,
		GeneratedAt:    now.UTC().Unix(),
	}
}

// NeutralResult is the well-defined outcome for total-failure paths:
// no items could be fetched or classified at all.
func (e *Engine) NeutralResult(now time.Time) types.AggregateResult {
	return e.Analyze(nil, now)
}
