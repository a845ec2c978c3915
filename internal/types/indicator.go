package types

import (
	"time"

	"github.com/moznion/go-optional"
)

type IndicatorType string

const (
	IndicatorTypeMAShort     IndicatorType = "ma_short"
	IndicatorTypeMALong      IndicatorType = "ma_long"
	IndicatorTypeRSI         IndicatorType = "rsi"
	IndicatorTypeMACD        IndicatorType = "macd"
	IndicatorTypeSignalLine  IndicatorType = "signal_line"
	IndicatorTypeDailyReturn IndicatorType = "daily_return"
)

// IndicatorSet holds every indicator column for one price series, aligned by index
// with the series bars.
type IndicatorSet struct {
	Times       []time.Time
	Close       []float64
	MAShort     Series
	MALong      Series
	RSI         Series
	MACD        Series
	SignalLine  Series
	DailyReturn Series
	// InvalidBars lists bar indices whose daily return was dropped because the close
	// at that bar or the bar before was not positive.
	InvalidBars []int
}

// Len returns the number of aligned rows.
func (s IndicatorSet) Len() int {
	return len(s.Times)
}

// Column returns the series for the given indicator.
func (s IndicatorSet) Column(indicator IndicatorType) (Series, bool) {
	switch indicator {
	case IndicatorTypeMAShort:
		return s.MAShort, true
	case IndicatorTypeMALong:
		return s.MALong, true
	case IndicatorTypeRSI:
		return s.RSI, true
	case IndicatorTypeMACD:
		return s.MACD, true
	case IndicatorTypeSignalLine:
		return s.SignalLine, true
	case IndicatorTypeDailyReturn:
		return s.DailyReturn, true
	default:
		return nil, false
	}
}

// IndicatorRow is one date of an IndicatorSet.
type IndicatorRow struct {
	Time        time.Time
	Close       float64
	MAShort     optional.Option[float64]
	MALong      optional.Option[float64]
	RSI         optional.Option[float64]
	MACD        optional.Option[float64]
	SignalLine  optional.Option[float64]
	DailyReturn optional.Option[float64]
}

// Rows returns the set as per-date rows.
func (s IndicatorSet) Rows() []IndicatorRow {
	rows := make([]IndicatorRow, s.Len())
	for i := range rows {
		rows[i] = IndicatorRow{
			Time:        s.Times[i],
			Close:       s.Close[i],
			MAShort:     s.MAShort[i],
			MALong:      s.MALong[i],
			RSI:         s.RSI[i],
			MACD:        s.MACD[i],
			SignalLine:  s.SignalLine[i],
			DailyReturn: s.DailyReturn[i],
		}
	}

	return rows
}
