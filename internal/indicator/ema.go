package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// EMA returns the exponentially weighted moving average of values with
// alpha = 2/(span+1). It is seeded with the first defined value, so it is defined
// from that point on with no warm-up gap:
//
//	ema[0] = x[0]
//	ema[t] = alpha*x[t] + (1-alpha)*ema[t-1]
//
// An undefined input produces an undefined output and leaves the average unchanged.
func EMA(values types.Series, span int) types.Series {
	out := types.UndefinedSeries(len(values))
	if span <= 0 {
		return out
	}

	alpha := 2.0 / float64(span+1)
	seeded := false
	ema := 0.0

	for i, v := range values {
		if v.IsNone() {
			continue
		}

		x := v.Unwrap()
		if !seeded {
			ema = x
			seeded = true
		} else {
			ema = alpha*x + (1-alpha)*ema
		}

		out[i] = optional.Some(ema)
	}

	return out
}

// EMAOfCloses is EMA over a plain price sequence.
func EMAOfCloses(closes []float64, span int) types.Series {
	return EMA(closesToSeries(closes), span)
}

func closesToSeries(closes []float64) types.Series {
	out := make(types.Series, len(closes))
	for i, c := range closes {
		out[i] = optional.Some(c)
	}

	return out
}
