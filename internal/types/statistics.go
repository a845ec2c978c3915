package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type TradeResult struct {
	// Count of BUY and SELL fills.
	NumberOfTrades int `yaml:"number_of_trades" json:"number_of_trades"`
	// Count of closed BUY/SELL pairs.
	NumberOfRoundTrips int `yaml:"number_of_round_trips" json:"number_of_round_trips"`
	// Round trips with positive pnl.
	NumberOfWinningTrades int `yaml:"number_of_winning_trades" json:"number_of_winning_trades"`
	// Round trips with negative pnl.
	NumberOfLosingTrades int `yaml:"number_of_losing_trades" json:"number_of_losing_trades"`
	// Winning round trips divided by round trips. Zero without round trips.
	WinRate float64 `yaml:"win_rate" json:"win_rate"`
	// Sum of SELL pnl.
	RealizedPnL float64 `yaml:"realized_pnl" json:"realized_pnl"`
	// Largest peak-to-trough loss of the equity curve as a fraction of the peak.
	MaxDrawdown float64 `yaml:"max_drawdown" json:"max_drawdown"`
}

// RunStats is the scalar report of one symbol's backtest.
// Undefined metrics are written as null.
type RunStats struct {
	// ID is the unique identifier of this run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when the run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// Version of argo-crossover that produced the stats.
	Version string `yaml:"version" json:"version"`
	Symbol  string `yaml:"symbol" json:"symbol"`

	FirstBarTime time.Time `yaml:"first_bar_time" json:"first_bar_time"`
	LastBarTime  time.Time `yaml:"last_bar_time" json:"last_bar_time"`
	NumberOfBars int       `yaml:"number_of_bars" json:"number_of_bars"`
	// Bars whose daily return was excluded because of a non-positive price.
	NumberOfInvalidBars int `yaml:"number_of_invalid_bars" json:"number_of_invalid_bars"`

	InitialBalance float64 `yaml:"initial_balance" json:"initial_balance"`
	FinalBalance   float64 `yaml:"final_balance" json:"final_balance"`
	// TotalReturn is in percent.
	TotalReturn              float64  `yaml:"total_return" json:"total_return"`
	AnnualizedVolatility     *float64 `yaml:"annualized_volatility" json:"annualized_volatility"`
	StrategyCumulativeReturn *float64 `yaml:"strategy_cumulative_return" json:"strategy_cumulative_return"`
	MarketCumulativeReturn   *float64 `yaml:"market_cumulative_return" json:"market_cumulative_return"`

	TradeResult TradeResult `yaml:"trade_result" json:"trade_result"`

	DataPath           string `yaml:"data_path" json:"data_path"`
	TradesFilePath     string `yaml:"trades_file_path" json:"trades_file_path"`
	IndicatorsFilePath string `yaml:"indicators_file_path" json:"indicators_file_path"`
	EquityFilePath     string `yaml:"equity_file_path" json:"equity_file_path"`
}

func WriteRunStats(path string, stats []RunStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal run stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run stats to file: %w", err)
	}

	return nil
}

// ReadRunStats loads stats written by WriteRunStats.
func ReadRunStats(path string) ([]RunStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run stats: %w", err)
	}

	var stats []RunStats
	if err := yaml.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run stats: %w", err)
	}

	return stats, nil
}
