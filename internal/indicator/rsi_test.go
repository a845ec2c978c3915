package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-crossover/mocks"
	"github.com/stretchr/testify/suite"
)

// RSITestSuite is a test suite for the RSI indicator
type RSITestSuite struct {
	suite.Suite
}

func TestRSISuite(t *testing.T) {
	suite.Run(t, new(RSITestSuite))
}

func (suite *RSITestSuite) TestKnownValues() {
	rsi := RSI([]float64{10, 11, 10, 12, 11}, 2)

	suite.Equal(2, rsi.LeadingUndefined())
	suite.InDelta(50.0, rsi[2].Unwrap(), 1e-9)
	suite.InDelta(200.0/3.0, rsi[3].Unwrap(), 1e-9)
	suite.InDelta(200.0/3.0, rsi[4].Unwrap(), 1e-9)
}

func (suite *RSITestSuite) TestSaturatesWithoutLosses() {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = float64(100 + i)
	}

	rsi := RSI(closes, 14)
	suite.Equal(14, rsi.LeadingUndefined())

	for i := 14; i < len(closes); i++ {
		suite.Equal(100.0, rsi[i].Unwrap())
	}
}

func (suite *RSITestSuite) TestFlatPricesSaturate() {
	rsi := RSI([]float64{5, 5, 5, 5}, 2)
	suite.Equal(100.0, rsi[2].Unwrap())
	suite.Equal(100.0, rsi[3].Unwrap())
}

func (suite *RSITestSuite) TestOnlyLossesIsZero() {
	rsi := RSI([]float64{10, 9, 8, 7}, 2)
	suite.Equal(0.0, rsi[2].Unwrap())
	suite.Equal(0.0, rsi[3].Unwrap())
}

func (suite *RSITestSuite) TestAlwaysBounded() {
	for seed := int64(1); seed <= 10; seed++ {
		closes := mocks.GenerateCloses(seed, 300)

		rsi := RSI(closes, 14)
		suite.Equal(14, rsi.LeadingUndefined())

		for _, v := range rsi.DefinedValues() {
			suite.GreaterOrEqual(v, 0.0)
			suite.LessOrEqual(v, 100.0)
		}
	}
}

func (suite *RSITestSuite) TestInsufficientHistory() {
	rsi := RSI([]float64{1, 2, 3}, 14)
	suite.Len(rsi, 3)
	suite.Equal(3, rsi.LeadingUndefined())

	// window bars are not enough: RSI needs window changes
	rsi = RSI([]float64{1, 2, 3}, 3)
	suite.Equal(3, rsi.LeadingUndefined())
}
