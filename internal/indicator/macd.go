package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// MACD returns the MACD line (fast EMA minus slow EMA) and its signal line
// (EMA of the MACD line over signalSpan). Both are defined from the first bar.
func MACD(closes []float64, fastSpan, slowSpan, signalSpan int) (types.Series, types.Series) {
	fast := EMAOfCloses(closes, fastSpan)
	slow := EMAOfCloses(closes, slowSpan)

	macd := types.UndefinedSeries(len(closes))

	for i := range closes {
		f, okFast := fast.At(i)
		s, okSlow := slow.At(i)

		if okFast && okSlow {
			macd[i] = optional.Some(f - s)
		}
	}

	return macd, EMA(macd, signalSpan)
}
