package types

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TradeTestSuite struct {
	suite.Suite
}

func TestTradeSuite(t *testing.T) {
	suite.Run(t, new(TradeTestSuite))
}

func (suite *TradeTestSuite) TestMarketValue() {
	state := PortfolioState{Cash: decimal.NewFromFloat(12.5), Shares: 3}
	suite.True(decimal.NewFromFloat(42.5).Equal(state.MarketValue(10)))
}

func (suite *TradeTestSuite) TestMarketValueFlat() {
	state := PortfolioState{Cash: decimal.NewFromInt(100)}
	suite.True(decimal.NewFromInt(100).Equal(state.MarketValue(55.5)))
}

func (suite *TradeTestSuite) TestPositionStateString() {
	suite.Equal("long", PositionLong.String())
	suite.Equal("flat", PositionFlat.String())
}

func (suite *TradeTestSuite) TestIndicatorSetColumnsAndRows() {
	none := optional.None[float64]()
	set := IndicatorSet{
		Times:       []time.Time{day(0), day(1)},
		Close:       []float64{10, 11},
		MAShort:     Series{none, optional.Some(10.5)},
		MALong:      Series{none, none},
		RSI:         Series{none, none},
		MACD:        Series{optional.Some(0.0), optional.Some(0.08)},
		SignalLine:  Series{optional.Some(0.0), optional.Some(0.016)},
		DailyReturn: Series{none, optional.Some(0.1)},
	}

	suite.Equal(2, set.Len())

	column, ok := set.Column(IndicatorTypeMAShort)
	suite.True(ok)
	suite.Equal(set.MAShort, column)

	_, ok = set.Column(IndicatorType("unknown"))
	suite.False(ok)

	rows := set.Rows()
	suite.Require().Len(rows, 2)
	suite.Equal(day(1), rows[1].Time)
	suite.Equal(11.0, rows[1].Close)
	suite.Equal(10.5, rows[1].MAShort.Unwrap())
	suite.True(rows[0].MAShort.IsNone())
	suite.Equal(0.1, rows[1].DailyReturn.Unwrap())
}
