package writers

import (
	"database/sql"
	"fmt"

	"github.com/rxtech-lab/argo-crossover/internal/performance"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// IndicatorsWriter writes one row per bar with every indicator, the position held,
// the position event (if any) and the strategy and market return columns.
// Undefined values are written as NULL.
type IndicatorsWriter struct {
	table *parquetTable
}

func NewIndicatorsWriter(outputPath string) *IndicatorsWriter {
	return &IndicatorsWriter{
		table: newParquetTable(outputPath, "indicators", `
			time TIMESTAMP,
			close DOUBLE,
			ma_short DOUBLE,
			ma_long DOUBLE,
			rsi DOUBLE,
			macd DOUBLE,
			signal_line DOUBLE,
			daily_return DOUBLE,
			position INTEGER,
			event TEXT,
			strategy_return DOUBLE,
			cumulative_strategy DOUBLE,
			cumulative_market DOUBLE
		`, "time",
			"time", "close", "ma_short", "ma_long", "rsi", "macd", "signal_line", "daily_return",
			"position", "event", "strategy_return", "cumulative_strategy", "cumulative_market"),
	}
}

func (w *IndicatorsWriter) Initialize() error {
	return w.table.initialize()
}

// Write persists the aligned columns and exports to parquet. positions and every
// report series must have one entry per row of set.
func (w *IndicatorsWriter) Write(
	set types.IndicatorSet,
	positions []types.PositionState,
	events []types.PositionEvent,
	report performance.Report,
) error {
	n := set.Len()
	for name, length := range map[string]int{
		"positions":           len(positions),
		"strategy_return":     len(report.StrategyReturns),
		"cumulative_strategy": len(report.CumulativeStrategy),
		"cumulative_market":   len(report.CumulativeMarket),
	} {
		if length != n {
			return fmt.Errorf("%s has %d rows, expected %d", name, length, n)
		}
	}

	eventAt := make(map[int]types.EventKind, len(events))
	for _, event := range events {
		eventAt[event.Index] = event.Kind
	}

	rows := make([][]any, n)
	for i, row := range set.Rows() {
		event := sql.NullString{}
		if kind, ok := eventAt[i]; ok {
			event = sql.NullString{String: string(kind), Valid: true}
		}

		rows[i] = []any{
			row.Time,
			row.Close,
			nullable(row.MAShort),
			nullable(row.MALong),
			nullable(row.RSI),
			nullable(row.MACD),
			nullable(row.SignalLine),
			nullable(row.DailyReturn),
			int32(positions[i]),
			event,
			nullable(report.StrategyReturns[i]),
			nullable(report.CumulativeStrategy[i]),
			nullable(report.CumulativeMarket[i]),
		}
	}

	return w.table.insert(rows)
}

func (w *IndicatorsWriter) Flush() error {
	return w.table.flush()
}

func (w *IndicatorsWriter) GetOutputPath() string {
	return w.table.outputPath
}

func (w *IndicatorsWriter) GetRowCount() (int, error) {
	return w.table.count()
}

func (w *IndicatorsWriter) Close() error {
	return w.table.close()
}
