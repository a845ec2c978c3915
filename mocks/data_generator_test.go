package mocks

import (
	"reflect"
	"testing"
)

func TestDataGenerator_Generate(t *testing.T) {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Count = 100

	bars := gen.Generate(config)

	if len(bars) != 100 {
		t.Fatalf("expected 100 bars, got %d", len(bars))
	}

	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			t.Errorf("bars not in chronological order at index %d", i)
		}

		if got := bars[i].Time.Sub(bars[i-1].Time); got != config.Interval {
			t.Errorf("unexpected interval at index %d: expected %v, got %v", i, config.Interval, got)
		}
	}

	for i, b := range bars {
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			t.Errorf("invalid OHLC values at index %d: O=%f H=%f L=%f C=%f", i, b.Open, b.High, b.Low, b.Close)
		}

		if b.High < b.Low {
			t.Errorf("High < Low at index %d: H=%f L=%f", i, b.High, b.Low)
		}
	}
}

func TestDataGenerator_Reproducibility(t *testing.T) {
	config := DefaultConfig()
	config.Count = 50

	first := NewDataGenerator(7).Generate(config)
	second := NewDataGenerator(7).Generate(config)

	if !reflect.DeepEqual(first, second) {
		t.Error("same seed produced different bars")
	}

	other := NewDataGenerator(8).Generate(config)
	if reflect.DeepEqual(first, other) {
		t.Error("different seeds produced identical bars")
	}
}

func TestGenerateSeries(t *testing.T) {
	series := GenerateSeries("AAPL", 1, 30)

	if series.Len() != 30 {
		t.Fatalf("expected 30 bars, got %d", series.Len())
	}

	if series.Symbol() != "AAPL" {
		t.Errorf("expected symbol AAPL, got %s", series.Symbol())
	}

	if closes := GenerateCloses(1, 30); !reflect.DeepEqual(closes, series.Closes()) {
		t.Error("GenerateCloses does not match GenerateSeries")
	}
}

func TestSeriesFromCloses(t *testing.T) {
	series := SeriesFromCloses("X", 10, 11, 12)

	if !reflect.DeepEqual(series.Closes(), []float64{10, 11, 12}) {
		t.Errorf("unexpected closes %v", series.Closes())
	}

	if series.Bar(2).Time.Sub(series.Bar(0).Time).Hours() != 48 {
		t.Error("bars are not one day apart")
	}
}
