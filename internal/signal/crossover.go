// Package signal turns two moving averages into a long/flat position state and the
// ENTER/EXIT events between states.
package signal

import (
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// Positions returns Long where both averages are defined and short is strictly
// above long, Flat everywhere else. The result has the length of the shorter input.
func Positions(maShort, maLong types.Series) []types.PositionState {
	n := min(len(maShort), len(maLong))
	positions := make([]types.PositionState, n)

	for i := range n {
		s, okShort := maShort.At(i)
		l, okLong := maLong.At(i)

		if okShort && okLong && s > l {
			positions[i] = types.PositionLong
		}
	}

	return positions
}

// DefinedFrom is the first bar where both averages are defined, or the length of
// the shorter input when that never happens.
func DefinedFrom(maShort, maLong types.Series) int {
	return min(max(maShort.LeadingUndefined(), maLong.LeadingUndefined()), len(maShort), len(maLong))
}

// Events reports every bar whose position differs from the previous bar's:
// Flat to Long is ENTER and Long to Flat is EXIT. Only bars after definedFrom have a
// defined predecessor, so the first defined bar never produces an event even when
// it is already Long.
func Events(times []time.Time, positions []types.PositionState, definedFrom int) []types.PositionEvent {
	var events []types.PositionEvent

	for i := max(definedFrom+1, 1); i < len(positions) && i < len(times); i++ {
		switch positions[i] - positions[i-1] {
		case 1:
			events = append(events, types.PositionEvent{Index: i, Time: times[i], Kind: types.EventEnter})
		case -1:
			events = append(events, types.PositionEvent{Index: i, Time: times[i], Kind: types.EventExit})
		}
	}

	return events
}

// Generate computes positions and events from an IndicatorSet's moving averages.
func Generate(set types.IndicatorSet) ([]types.PositionState, []types.PositionEvent) {
	positions := Positions(set.MAShort, set.MALong)

	return positions, Events(set.Times, positions, DefinedFrom(set.MAShort, set.MALong))
}
