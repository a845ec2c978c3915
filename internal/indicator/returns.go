package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// DailyReturns returns (close[t]-close[t-1])/close[t-1]. The first bar is undefined.
// A bar is also undefined, and its index reported, when its own close or the previous
// close is not positive; such returns are excluded rather than poisoning cumulative
// products downstream.
func DailyReturns(closes []float64) (types.Series, []int) {
	out := types.UndefinedSeries(len(closes))

	var invalid []int

	for i := 1; i < len(closes); i++ {
		prev, cur := closes[i-1], closes[i]
		if prev <= 0 || cur <= 0 {
			invalid = append(invalid, i)

			continue
		}

		out[i] = optional.Some((cur - prev) / prev)
	}

	return out, invalid
}
