package types

import "github.com/moznion/go-optional"

// Series is a per-bar sequence of optional values. None marks an undefined value
// (warm-up or invalid input). NaN is never stored.
type Series []optional.Option[float64]

// UndefinedSeries returns n undefined values.
func UndefinedSeries(n int) Series {
	return make(Series, n)
}

// DefinedAt reports whether index i holds a value.
func (s Series) DefinedAt(i int) bool {
	return i >= 0 && i < len(s) && s[i].IsSome()
}

// At returns the value at i and whether it is defined.
func (s Series) At(i int) (float64, bool) {
	if !s.DefinedAt(i) {
		return 0, false
	}

	return s[i].Unwrap(), true
}

// DefinedValues returns the defined values in order.
func (s Series) DefinedValues() []float64 {
	values := make([]float64, 0, len(s))

	for _, v := range s {
		if v.IsSome() {
			values = append(values, v.Unwrap())
		}
	}

	return values
}

// LeadingUndefined counts undefined values before the first defined one.
func (s Series) LeadingUndefined() int {
	for i, v := range s {
		if v.IsSome() {
			return i
		}
	}

	return len(s)
}

// Since returns a copy with every value before index from undefined.
func (s Series) Since(from int) Series {
	out := UndefinedSeries(len(s))

	for i := max(from, 0); i < len(s); i++ {
		out[i] = s[i]
	}

	return out
}

// Last returns the last defined value.
func (s Series) Last() optional.Option[float64] {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].IsSome() {
			return s[i]
		}
	}

	return optional.None[float64]()
}
