package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// Bar is one daily OHLCV observation.
type Bar struct {
	Time   time.Time `yaml:"time" json:"time" csv:"time" validate:"required"`
	Open   float64   `yaml:"open" json:"open" csv:"open" validate:"gte=0"`
	High   float64   `yaml:"high" json:"high" csv:"high" validate:"gte=0"`
	Low    float64   `yaml:"low" json:"low" csv:"low" validate:"gte=0"`
	Close  float64   `yaml:"close" json:"close" csv:"close" validate:"gte=0"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume" validate:"gte=0"`
}

// PriceSeries is an immutable, strictly time-ordered sequence of bars for one symbol.
// Build it with NewPriceSeries.
type PriceSeries struct {
	symbol string
	bars   []Bar
}

// NewPriceSeries validates bars and returns a series that owns a copy of them.
// Bars must carry a time, non-negative values and strictly increasing times.
// An empty slice is a valid (empty) series.
func NewPriceSeries(symbol string, bars []Bar) (PriceSeries, error) {
	validate := validator.New()

	for i := range bars {
		if err := validate.Struct(bars[i]); err != nil {
			return PriceSeries{}, errors.Wrapf(errors.ErrCodeInvalidBar, err, "invalid bar at index %d", i)
		}

		if i > 0 && !bars[i].Time.After(bars[i-1].Time) {
			return PriceSeries{}, errors.Newf(errors.ErrCodeInvalidPriceSeries,
				"bar %d (%s) is not after bar %d (%s)",
				i, bars[i].Time.Format(time.DateOnly), i-1, bars[i-1].Time.Format(time.DateOnly))
		}
	}

	owned := make([]Bar, len(bars))
	copy(owned, bars)

	return PriceSeries{symbol: symbol, bars: owned}, nil
}

func (p PriceSeries) Symbol() string {
	return p.symbol
}

func (p PriceSeries) Len() int {
	return len(p.bars)
}

func (p PriceSeries) IsEmpty() bool {
	return len(p.bars) == 0
}

// Bar returns the i-th bar.
func (p PriceSeries) Bar(i int) Bar {
	return p.bars[i]
}

// Bars returns a copy of the bars.
func (p PriceSeries) Bars() []Bar {
	out := make([]Bar, len(p.bars))
	copy(out, p.bars)

	return out
}

// Closes returns the closing prices in time order.
func (p PriceSeries) Closes() []float64 {
	closes := make([]float64, len(p.bars))
	for i, bar := range p.bars {
		closes[i] = bar.Close
	}

	return closes
}

// Times returns the bar times in order.
func (p PriceSeries) Times() []time.Time {
	times := make([]time.Time, len(p.bars))
	for i, bar := range p.bars {
		times[i] = bar.Time
	}

	return times
}

// Between returns the bars whose time lies inside the inclusive window.
// A None bound leaves that side open.
func (p PriceSeries) Between(start optional.Option[time.Time], end optional.Option[time.Time]) PriceSeries {
	filtered := make([]Bar, 0, len(p.bars))

	for _, bar := range p.bars {
		if start.IsSome() && bar.Time.Before(start.Unwrap()) {
			continue
		}

		if end.IsSome() && bar.Time.After(end.Unwrap()) {
			continue
		}

		filtered = append(filtered, bar)
	}

	return PriceSeries{symbol: p.symbol, bars: filtered}
}
