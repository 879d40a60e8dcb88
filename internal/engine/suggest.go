package engine

// Suggestion labels, from most to least bullish.
const (
	SuggestionStrongBuy  = "Strong Buy"
	SuggestionBuy        = "Buy"
	SuggestionHold       = "Hold"
	SuggestionSell       = "Sell"
	SuggestionStrongSell = "Strong Sell"
)

// Suggest maps an aggregate score to a suggestion label. The mapping
// is total over the real line and monotonic: a higher score never
// yields a less bullish label.
func Suggest(score float64, t Thresholds) string {
	switch {
	case score > t.StrongBuy:
		return SuggestionStrongBuy
	case score > t.Buy:
		return SuggestionBuy
	case score >= t.Hold:
		return SuggestionHold
	case score >= t.Sell:
		return SuggestionSell
	default:
		return SuggestionStrongSell
	}
}
