package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// MovingAverage returns the simple trailing mean of closes over window bars,
// including the current bar. The first window-1 values are undefined.
func MovingAverage(closes []float64, window int) types.Series {
	out := types.UndefinedSeries(len(closes))
	if window <= 0 {
		return out
	}

	for i := window - 1; i < len(closes); i++ {
		out[i] = optional.Some(mean(closes[i-window+1 : i+1]))
	}

	return out
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}
