package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-crossover/mocks"
	"github.com/stretchr/testify/suite"
)

type MATestSuite struct {
	suite.Suite
}

func TestMASuite(t *testing.T) {
	suite.Run(t, new(MATestSuite))
}

func (suite *MATestSuite) TestFiveBarScenario() {
	closes := []float64{10, 11, 12, 11, 10}

	short := MovingAverage(closes, 2)
	suite.Equal(1, short.LeadingUndefined())
	suite.Equal([]float64{10.5, 11.5, 11.5, 10.5}, short.DefinedValues())

	long := MovingAverage(closes, 3)
	suite.Equal(2, long.LeadingUndefined())

	values := long.DefinedValues()
	suite.Require().Len(values, 3)
	suite.InDelta(11.0, values[0], 1e-12)
	suite.InDelta(34.0/3.0, values[1], 1e-12)
	suite.InDelta(11.0, values[2], 1e-12)
}

func (suite *MATestSuite) TestWarmUpLengthForEveryWindow() {
	closes := mocks.GenerateCloses(42, 60)

	for window := 1; window <= 60; window++ {
		ma := MovingAverage(closes, window)
		suite.Len(ma, len(closes))
		suite.Equal(window-1, ma.LeadingUndefined(), "window %d", window)

		for i := window - 1; i < len(closes); i++ {
			v, ok := ma.At(i)
			suite.Require().True(ok)
			suite.InDelta(mean(closes[i-window+1:i+1]), v, 1e-9)
		}
	}
}

func (suite *MATestSuite) TestWindowLongerThanSeries() {
	ma := MovingAverage([]float64{1, 2, 3}, 4)
	suite.Len(ma, 3)
	suite.Equal(3, ma.LeadingUndefined())
}

func (suite *MATestSuite) TestInvalidWindow() {
	suite.Equal(2, MovingAverage([]float64{1, 2}, 0).LeadingUndefined())
	suite.Equal(2, MovingAverage([]float64{1, 2}, -3).LeadingUndefined())
}

func (suite *MATestSuite) TestEmptyInput() {
	suite.Empty(MovingAverage(nil, 5))
}

func (suite *MATestSuite) TestDoesNotMutateInput() {
	closes := []float64{3, 1, 2}
	MovingAverage(closes, 2)
	suite.Equal([]float64{3, 1, 2}, closes)
}

func (suite *MATestSuite) TestConstantSeriesGivesEqualAverages() {
	closes := make([]float64, 300)
	for i := range closes {
		closes[i] = 101.37
	}

	short := MovingAverage(closes, 50)
	long := MovingAverage(closes, 200)

	// every window sees the same values, so the means must match exactly for the
	// strict crossover comparison to stay flat
	for i := 199; i < len(closes); i++ {
		suite.Equal(short[i].Unwrap(), long[i].Unwrap(), "bar %d", i)
	}
}
