// Package indicator computes technical indicators over a closing-price sequence.
//
// Every function is pure and returns a new types.Series aligned index-for-index
// with its input. Values that cannot be computed yet (warm-up) or at all (invalid
// prices) are None. A window larger than the input yields an all-None series rather
// than an error so later stages can always run.
package indicator

import (
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// Params selects the windows used by Compute.
type Params struct {
	ShortWindow int `yaml:"short_window" json:"short_window" jsonschema:"title=Short MA Window,description=Window of the fast simple moving average,minimum=1,default=50" validate:"gt=0"`
	LongWindow  int `yaml:"long_window" json:"long_window" jsonschema:"title=Long MA Window,description=Window of the slow simple moving average,minimum=1,default=200" validate:"gt=0"`
	RSIWindow   int `yaml:"rsi_window" json:"rsi_window" jsonschema:"title=RSI Window,description=Number of price changes averaged by RSI,minimum=1,default=14" validate:"gt=0"`
	MACDFast    int `yaml:"macd_fast" json:"macd_fast" jsonschema:"title=MACD Fast Span,minimum=1,default=12" validate:"gt=0"`
	MACDSlow    int `yaml:"macd_slow" json:"macd_slow" jsonschema:"title=MACD Slow Span,minimum=1,default=26" validate:"gt=0"`
	MACDSignal  int `yaml:"macd_signal" json:"macd_signal" jsonschema:"title=MACD Signal Span,minimum=1,default=9" validate:"gt=0"`
}

// DefaultParams returns MA 50/200, RSI 14 and MACD 12/26/9.
func DefaultParams() Params {
	return Params{
		ShortWindow: 50,
		LongWindow:  200,
		RSIWindow:   14,
		MACDFast:    12,
		MACDSlow:    26,
		MACDSignal:  9,
	}
}

// Validate checks that every window is positive.
func (p Params) Validate() error {
	windows := []struct {
		name  string
		value int
	}{
		{"short_window", p.ShortWindow},
		{"long_window", p.LongWindow},
		{"rsi_window", p.RSIWindow},
		{"macd_fast", p.MACDFast},
		{"macd_slow", p.MACDSlow},
		{"macd_signal", p.MACDSignal},
	}

	for _, w := range windows {
		if w.value <= 0 {
			return errors.Newf(errors.ErrCodeInvalidWindow, "%s must be a positive integer, got %d", w.name, w.value)
		}
	}

	return nil
}

// Compute runs every indicator over the series.
func Compute(series types.PriceSeries, params Params) types.IndicatorSet {
	closes := series.Closes()
	macd, signalLine := MACD(closes, params.MACDFast, params.MACDSlow, params.MACDSignal)
	returns, invalid := DailyReturns(closes)

	return types.IndicatorSet{
		Times:       series.Times(),
		Close:       closes,
		MAShort:     MovingAverage(closes, params.ShortWindow),
		MALong:      MovingAverage(closes, params.LongWindow),
		RSI:         RSI(closes, params.RSIWindow),
		MACD:        macd,
		SignalLine:  signalLine,
		DailyReturn: returns,
		InvalidBars: invalid,
	}
}
