package ta

import "math"

func SMA(closes []float64, n int) float64 {
	if len(closes) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(n)
}

func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 || period <= 0 {
		return math.NaN()
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100.0
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs))
}

// PercentChange is the percent move from the close n bars back to the
// latest close. NaN when the series is too short or the base is zero.
func PercentChange(closes []float64, n int) float64 {
	if n <= 0 || len(closes) < n+1 {
		return math.NaN()
	}
	base := closes[len(closes)-1-n]
	if base == 0 {
		return math.NaN()
	}
	return (closes[len(closes)-1] - base) / base * 100
}

// Snapshot is the small technical summary attached to stock info when
// daily history is available.
type Snapshot struct {
	SMA20 float64
	SMA50 float64
	RSI14 float64
}

// FromCloses computes the snapshot over daily closes, oldest first.
// Indicators whose window exceeds the available history come back NaN;
// callers decide how to render those.
func FromCloses(closes []float64) Snapshot {
	return Snapshot{
		SMA20: SMA(closes, 20),
		SMA50: SMA(closes, 50),
		RSI14: RSI(closes, 14),
	}
}
