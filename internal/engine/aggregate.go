package engine

// WeightedMean reduces parallel score and weight slices to a single
// value. Empty input means no signal and returns 0.0. A zero weight
// sum cannot happen with the weights this package produces, but if a
// caller hands one in we fall back to the unweighted mean instead of
// dividing by zero.
func WeightedMean(scores, weights []float64) float64 {
	if len(scores) == 0 {
		return 0.0
	}

	var weightedSum, weightTotal float64
	for i, s := range scores {
		w := 1.0
		if i < len(weights) {
			w = weights[i]
		}
		weightedSum += s * w
		weightTotal += w
	}
	if weightTotal == 0 {
		var sum float64
		for _, s := range scores {
			sum += s
		}
		return sum / float64(len(scores))
	}
	return weightedSum / weightTotal
}
