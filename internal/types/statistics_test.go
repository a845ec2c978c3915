package types

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type StatisticsTestSuite struct {
	suite.Suite
	tempDir string
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func (suite *StatisticsTestSuite) SetupTest() {
	tempDir, err := os.MkdirTemp("", "statistics_test")
	suite.Require().NoError(err)
	suite.tempDir = tempDir
}

func (suite *StatisticsTestSuite) TearDownTest() {
	os.RemoveAll(suite.tempDir)
}

func (suite *StatisticsTestSuite) TestWriteRunStats() {
	volatility := 0.25
	stats := []RunStats{
		{
			ID:             "run-1",
			Timestamp:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Symbol:         "AAPL",
			NumberOfBars:   250,
			InitialBalance: 10000,
			FinalBalance:   12000,
			TotalReturn:    20,
			TradeResult: TradeResult{
				NumberOfTrades:        4,
				NumberOfRoundTrips:    2,
				NumberOfWinningTrades: 1,
				NumberOfLosingTrades:  1,
				WinRate:               0.5,
			},
			AnnualizedVolatility: &volatility,
		},
	}

	filePath := filepath.Join(suite.tempDir, "stats.yaml")
	suite.Require().NoError(WriteRunStats(filePath, stats))

	data, err := os.ReadFile(filePath)
	suite.Require().NoError(err)

	var raw []map[string]any
	suite.Require().NoError(yaml.Unmarshal(data, &raw))
	suite.Require().Len(raw, 1)
	suite.Equal("AAPL", raw[0]["symbol"])
	suite.Equal(0.25, raw[0]["annualized_volatility"])
	suite.Nil(raw[0]["market_cumulative_return"])

	loaded, err := ReadRunStats(filePath)
	suite.Require().NoError(err)
	suite.Require().Len(loaded, 1)
	suite.Equal(12000.0, loaded[0].FinalBalance)
	suite.Equal(2, loaded[0].TradeResult.NumberOfRoundTrips)
	suite.Require().NotNil(loaded[0].AnnualizedVolatility)
	suite.Equal(0.25, *loaded[0].AnnualizedVolatility)
	suite.Nil(loaded[0].StrategyCumulativeReturn)
}

func (suite *StatisticsTestSuite) TestWriteRunStatsInvalidPath() {
	err := WriteRunStats(filepath.Join(suite.tempDir, "missing", "stats.yaml"), nil)
	suite.Error(err)
	suite.Contains(err.Error(), "failed to write run stats")
}

func (suite *StatisticsTestSuite) TestReadRunStatsMissingFile() {
	_, err := ReadRunStats(filepath.Join(suite.tempDir, "nope.yaml"))
	suite.Error(err)
}
