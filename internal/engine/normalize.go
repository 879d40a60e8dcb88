package engine

import "strings"

// Normalize converts a classifier label and confidence into a signed
// score. Positive labels map to +confidence, negative to -confidence,
// neutral to zero. The second return is false for any other label so
// the caller can log label drift; the score is still a safe zero.
// Confidence is passed through unclamped, the classifier contract owns
// its range.
func Normalize(label string, confidence float64) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "positive":
		return confidence, true
	case "negative":
		return -confidence, true
	case "neutral":
		return 0.0, true
	default:
		return 0.0, false
	}
}
