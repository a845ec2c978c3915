// Package simulator replays ENTER/EXIT events against a price series for a single
// long-only position and keeps the cash/shares account.
package simulator

import (
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/shopspring/decimal"
)

// DefaultInitialBalance is the starting cash when none is configured.
const DefaultInitialBalance = 10000.0

type State string

const (
	StateFlat State = "FLAT"
	StateLong State = "LONG"
)

// Result is the outcome of one simulation run.
type Result struct {
	// Trades in execution order.
	Trades []types.Trade
	// Equity has one point per bar.
	Equity []types.EquityPoint
	// Portfolio is the account after the last bar.
	Portfolio      types.PortfolioState
	InitialBalance float64
	// FinalBalance is cash plus open shares valued at the last close.
	FinalBalance float64
	// TotalReturn is (final - initial) / initial * 100.
	TotalReturn float64
}

// Simulator is the FLAT/LONG state machine. Use Run unless you need to drive it bar
// by bar.
type Simulator struct {
	state     State
	initial   decimal.Decimal
	portfolio types.PortfolioState
	trades    []types.Trade
}

// NewSimulator returns a FLAT simulator holding initialBalance in cash.
func NewSimulator(initialBalance float64) (*Simulator, error) {
	if initialBalance < 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "initial balance must not be negative, got %f", initialBalance)
	}

	initial := decimal.NewFromFloat(initialBalance)

	return &Simulator{
		state:     StateFlat,
		initial:   initial,
		portfolio: types.PortfolioState{Cash: initial, Shares: 0, LastBuyPrice: 0},
		trades:    nil,
	}, nil
}

func (s *Simulator) State() State {
	return s.state
}

func (s *Simulator) Portfolio() types.PortfolioState {
	return s.portfolio
}

// Trades returns a copy of the trade log.
func (s *Simulator) Trades() []types.Trade {
	out := make([]types.Trade, len(s.trades))
	copy(out, s.trades)

	return out
}

// Apply handles one event at bar's close. It returns the trade it recorded, if any.
//
// ENTER while FLAT with cash buys floor(cash/close) shares; when that is zero the
// simulator stays FLAT. EXIT while LONG sells every share. Any other combination is
// ignored.
func (s *Simulator) Apply(bar types.Bar, kind types.EventKind) (types.Trade, bool) {
	switch {
	case kind == types.EventEnter && s.state == StateFlat && s.portfolio.Cash.IsPositive():
		return s.buy(bar)
	case kind == types.EventExit && s.state == StateLong && s.portfolio.Shares > 0:
		return s.sell(bar), true
	default:
		return types.Trade{}, false
	}
}

func (s *Simulator) buy(bar types.Bar) (types.Trade, bool) {
	if bar.Close <= 0 {
		return types.Trade{}, false
	}

	price := decimal.NewFromFloat(bar.Close)
	shares := s.portfolio.Cash.Div(price).Floor().IntPart()

	// Div rounds to DivisionPrecision; step back if that rounded up past the cash.
	for shares > 0 && decimal.NewFromInt(shares).Mul(price).GreaterThan(s.portfolio.Cash) {
		shares--
	}

	if shares == 0 {
		return types.Trade{}, false
	}

	s.portfolio.Cash = s.portfolio.Cash.Sub(decimal.NewFromInt(shares).Mul(price))
	s.portfolio.Shares = shares
	s.portfolio.LastBuyPrice = bar.Close
	s.state = StateLong

	trade := types.Trade{
		Action: types.TradeActionBuy,
		Time:   bar.Time,
		Price:  bar.Close,
		Shares: shares,
		PnL:    0,
	}
	s.trades = append(s.trades, trade)

	return trade, true
}

func (s *Simulator) sell(bar types.Bar) types.Trade {
	price := decimal.NewFromFloat(bar.Close)
	shares := decimal.NewFromInt(s.portfolio.Shares)
	pnl, _ := price.Sub(decimal.NewFromFloat(s.portfolio.LastBuyPrice)).Mul(shares).Float64()

	trade := types.Trade{
		Action: types.TradeActionSell,
		Time:   bar.Time,
		Price:  bar.Close,
		Shares: s.portfolio.Shares,
		PnL:    pnl,
	}

	s.portfolio.Cash = s.portfolio.Cash.Add(shares.Mul(price))
	s.portfolio.Shares = 0
	s.state = StateFlat
	s.trades = append(s.trades, trade)

	return trade
}

// Mark values the account at bar's close and checks the account invariants.
func (s *Simulator) Mark(bar types.Bar) (types.EquityPoint, error) {
	equity := s.portfolio.MarketValue(bar.Close)

	if s.portfolio.Cash.IsNegative() || s.portfolio.Shares < 0 || equity.IsNegative() {
		return types.EquityPoint{}, errors.Newf(errors.ErrCodeSimulationInvariant,
			"account invariant violated at %s: cash=%s shares=%d", bar.Time.Format("2006-01-02"), s.portfolio.Cash, s.portfolio.Shares)
	}

	cash, _ := s.portfolio.Cash.Float64()
	value, _ := equity.Float64()

	return types.EquityPoint{
		Time:   bar.Time,
		Close:  bar.Close,
		Cash:   cash,
		Shares: s.portfolio.Shares,
		Equity: value,
	}, nil
}

// Run replays events over series in chronological order. Events must be sorted by
// Index and refer to bars of series.
func Run(series types.PriceSeries, events []types.PositionEvent, initialBalance float64) (Result, error) {
	sim, err := NewSimulator(initialBalance)
	if err != nil {
		return Result{}, err
	}

	byIndex := make(map[int]types.EventKind, len(events))
	last := -1

	for _, event := range events {
		if event.Index <= last || event.Index >= series.Len() {
			return Result{}, errors.Newf(errors.ErrCodeInvalidParameter,
				"event at index %d is out of order or outside the series of %d bars", event.Index, series.Len())
		}

		byIndex[event.Index] = event.Kind
		last = event.Index
	}

	equity := make([]types.EquityPoint, 0, series.Len())

	for i := 0; i < series.Len(); i++ {
		bar := series.Bar(i)

		if kind, ok := byIndex[i]; ok {
			sim.Apply(bar, kind)
		}

		point, err := sim.Mark(bar)
		if err != nil {
			return Result{}, err
		}

		equity = append(equity, point)
	}

	final := sim.portfolio.Cash
	if !series.IsEmpty() {
		final = sim.portfolio.MarketValue(series.Bar(series.Len() - 1).Close)
	}

	finalBalance, _ := final.Float64()

	return Result{
		Trades:         sim.Trades(),
		Equity:         equity,
		Portfolio:      sim.portfolio,
		InitialBalance: initialBalance,
		FinalBalance:   finalBalance,
		TotalReturn:    totalReturn(sim.initial, final),
	}, nil
}

func totalReturn(initial, final decimal.Decimal) float64 {
	if initial.IsZero() {
		return 0
	}

	pct, _ := final.Sub(initial).Div(initial).Mul(decimal.NewFromInt(100)).Float64()

	return pct
}
