package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ReturnsTestSuite struct {
	suite.Suite
}

func TestReturnsSuite(t *testing.T) {
	suite.Run(t, new(ReturnsTestSuite))
}

func (suite *ReturnsTestSuite) TestDailyReturns() {
	returns, invalid := DailyReturns([]float64{10, 11, 9.9})

	suite.Empty(invalid)
	suite.True(returns[0].IsNone())
	suite.InDelta(0.1, returns[1].Unwrap(), 1e-12)
	suite.InDelta(-0.1, returns[2].Unwrap(), 1e-12)
}

func (suite *ReturnsTestSuite) TestNonPositivePriceIsExcluded() {
	returns, invalid := DailyReturns([]float64{10, 0, 5, 6})

	// bar 1 closes at zero and bar 2 would divide by it
	suite.Equal([]int{1, 2}, invalid)
	suite.True(returns[1].IsNone())
	suite.True(returns[2].IsNone())
	suite.InDelta(0.2, returns[3].Unwrap(), 1e-12)
}

func (suite *ReturnsTestSuite) TestSingleBar() {
	returns, invalid := DailyReturns([]float64{10})
	suite.Len(returns, 1)
	suite.True(returns[0].IsNone())
	suite.Empty(invalid)
}

func (suite *ReturnsTestSuite) TestEmpty() {
	returns, invalid := DailyReturns(nil)
	suite.Empty(returns)
	suite.Empty(invalid)
}
