package engine

import (
	"math"
	"sort"

	"stock-sentiment/internal/types"
)

// Significance thresholds for justification points. A positive point
// must score above, a negative point below.
const (
	positivePointThreshold = 0.1
	negativePointThreshold = -0.1
)

// NoDataHeadline is the synthetic justification emitted when nothing
// was analyzed at all.
const NoDataHeadline = "No recent relevant data found."

// SelectJustifications picks up to max representative items: the
// strongest positive (if above the significance threshold), the
// strongest negative (if below), and a most-neutral fallback when
// fewer than two significant points exist. The fallback is the unused
// item closest to zero, ties broken by input order. Empty input yields
// one synthetic neutral point so callers always get an explanation.
// The same underlying item never appears twice.
func SelectJustifications(items []types.AnalyzedItem, max int) []types.JustificationPoint {
	if max <= 0 {
		max = 3
	}
	if len(items) == 0 {
		return []types.JustificationPoint{{
			Type:     "neutral",
			Headline: NoDataHeadline,
			Score:    0.0,
		}}
	}

	sorted := make([]types.AnalyzedItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	points := make([]types.JustificationPoint, 0, max)
	used := make(map[string]bool, 2)

	top := sorted[0]
	if top.Score > positivePointThreshold {
		points = append(points, pointFrom("positive", top))
		used[itemKey(top)] = true
	}
	bottom := sorted[len(sorted)-1]
	if bottom.Score < negativePointThreshold && !used[itemKey(bottom)] {
		points = append(points, pointFrom("negative", bottom))
		used[itemKey(bottom)] = true
	}

	if len(points) < 2 {
		best := -1
		for i, it := range items {
			if used[itemKey(it)] {
				continue
			}
			if best == -1 || math.Abs(it.Score) < math.Abs(items[best].Score) {
				best = i
			}
		}
		if best >= 0 {
			points = append(points, pointFrom("neutral", items[best]))
		}
	}

	if len(points) > max {
		points = points[:max]
	}
	return points
}

func pointFrom(kind string, it types.AnalyzedItem) types.JustificationPoint {
	return types.JustificationPoint{
		Type:     kind,
		Headline: it.Headline,
		URL:      it.URL,
		Source:   it.Source,
		Score:    it.Score,
	}
}

// itemKey identifies one underlying item within a batch. URLs are the
// natural key but social comments may not carry one, so the headline
// joins in.
func itemKey(it types.AnalyzedItem) string {
	return it.URL + "\x00" + it.Headline
}
