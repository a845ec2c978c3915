package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// RSI returns the relative strength index using simple rolling means of gains and
// losses over window close-to-close changes. The first window values are undefined.
// A window with no losses saturates to 100.
func RSI(closes []float64, window int) types.Series {
	out := types.UndefinedSeries(len(closes))
	if window <= 0 || len(closes) <= window {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))

	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	for i := window; i < len(closes); i++ {
		avgGain := mean(gains[i-window+1 : i+1])
		avgLoss := mean(losses[i-window+1 : i+1])

		if avgLoss == 0 {
			out[i] = optional.Some(100.0)

			continue
		}

		rs := avgGain / avgLoss
		out[i] = optional.Some(100 - (100 / (1 + rs)))
	}

	return out
}
