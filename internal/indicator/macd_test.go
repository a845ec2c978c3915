package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-crossover/mocks"
	"github.com/stretchr/testify/suite"
)

type MACDTestSuite struct {
	suite.Suite
}

func TestMACDSuite(t *testing.T) {
	suite.Run(t, new(MACDTestSuite))
}

func (suite *MACDTestSuite) TestKnownValues() {
	macd, signal := MACD([]float64{10, 11, 12}, 1, 3, 1)

	suite.InDelta(0.0, macd[0].Unwrap(), 1e-12)
	suite.InDelta(0.5, macd[1].Unwrap(), 1e-12)
	suite.InDelta(0.75, macd[2].Unwrap(), 1e-12)
	suite.Equal(macd, signal)
}

func (suite *MACDTestSuite) TestSignalLineIsEMAOfMACD() {
	closes := mocks.GenerateCloses(7, 80)
	macd, signal := MACD(closes, 12, 26, 9)

	suite.Equal(EMA(macd, 9), signal)
}

func (suite *MACDTestSuite) TestDefinedFromFirstBar() {
	for _, n := range []int{1, 2, 25, 100} {
		macd, signal := MACD(mocks.GenerateCloses(3, n), 12, 26, 9)

		suite.Len(macd, n)
		suite.Len(signal, n)
		suite.Equal(0, macd.LeadingUndefined(), "n=%d", n)
		suite.Equal(0, signal.LeadingUndefined(), "n=%d", n)
		suite.Len(macd.DefinedValues(), n)
	}
}

func (suite *MACDTestSuite) TestFirstBarIsZero() {
	macd, signal := MACD([]float64{123.45}, 12, 26, 9)
	suite.Equal(0.0, macd[0].Unwrap())
	suite.Equal(0.0, signal[0].Unwrap())
}

func (suite *MACDTestSuite) TestEmpty() {
	macd, signal := MACD(nil, 12, 26, 9)
	suite.Empty(macd)
	suite.Empty(signal)
}
