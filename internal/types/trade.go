package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type TradeAction string

const (
	TradeActionBuy  TradeAction = "BUY"
	TradeActionSell TradeAction = "SELL"
)

// Trade is one fill of the simulated account.
type Trade struct {
	Action TradeAction `yaml:"action" json:"action" csv:"action"`
	Time   time.Time   `yaml:"time" json:"time" csv:"time"`
	Price  float64     `yaml:"price" json:"price" csv:"price"`
	Shares int64       `yaml:"shares" json:"shares" csv:"shares"`
	// PnL is the realized profit of a SELL against the last BUY price:
	// (sell price - last buy price) * shares. Always zero for a BUY.
	PnL float64 `yaml:"pnl" json:"pnl" csv:"pnl"`
}

// PortfolioState is the account of a single simulation run.
type PortfolioState struct {
	Cash         decimal.Decimal
	Shares       int64
	LastBuyPrice float64
}

// MarketValue marks the account to market at price.
func (p PortfolioState) MarketValue(price float64) decimal.Decimal {
	return p.Cash.Add(decimal.NewFromInt(p.Shares).Mul(decimal.NewFromFloat(price)))
}

// EquityPoint is the account marked to market at the close of one bar.
type EquityPoint struct {
	Time   time.Time `yaml:"time" json:"time"`
	Close  float64   `yaml:"close" json:"close"`
	Cash   float64   `yaml:"cash" json:"cash"`
	Shares int64     `yaml:"shares" json:"shares"`
	Equity float64   `yaml:"equity" json:"equity"`
}
