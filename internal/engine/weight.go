package engine

import (
	"math"
	"strings"
	"time"
)

// DefaultRecencyWeight is used for items with a missing or unparsable
// timestamp: undated items still contribute, but minimally.
const DefaultRecencyWeight = 0.1

// Provider timestamps arrive in several shapes. Layouts without a zone
// are taken as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parsePublishedAt(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// RecencyWeight computes exp(-ln2 * ageHours / halfLifeHours), with age
// clamped at zero so future-dated items count as fresh. Missing or
// unparsable timestamps fall back to DefaultRecencyWeight.
func RecencyWeight(publishedAt string, now time.Time, halfLifeHours float64) float64 {
	if halfLifeHours <= 0 {
		return DefaultRecencyWeight
	}
	ts, ok := parsePublishedAt(publishedAt)
	if !ok {
		return DefaultRecencyWeight
	}
	ageHours := math.Max(0, now.UTC().Sub(ts).Hours())
	return math.Exp(-math.Ln2 * ageHours / halfLifeHours)
}

// IntensityWeight amplifies strongly polarized items independent of
// direction: 1 + |score| * boost.
func IntensityWeight(score, boostFactor float64) float64 {
	return 1.0 + math.Abs(score)*boostFactor
}

// Weight is the combined per-item weight, multiplicative over recency
// and intensity. Never negative; the recency term can underflow to
// zero for extremely old items, which WeightedMean tolerates.
func Weight(score float64, publishedAt string, now time.Time, halfLifeHours, boostFactor float64) float64 {
	return RecencyWeight(publishedAt, now, halfLifeHours) * IntensityWeight(score, boostFactor)
}
