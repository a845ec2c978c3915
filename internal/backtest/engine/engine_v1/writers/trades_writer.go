package writers

import "github.com/rxtech-lab/argo-crossover/internal/types"

// TradesWriter writes the simulated fills of one run to a parquet file.
type TradesWriter struct {
	table *parquetTable
}

// NewTradesWriter creates a new TradesWriter.
// outputPath is the full path to the parquet file.
func NewTradesWriter(outputPath string) *TradesWriter {
	return &TradesWriter{
		table: newParquetTable(outputPath, "trades", `
			action TEXT,
			time TIMESTAMP,
			price DOUBLE,
			shares BIGINT,
			pnl DOUBLE
		`, "time", "action", "time", "price", "shares", "pnl"),
	}
}

// Initialize sets up the trades writer with DuckDB.
func (w *TradesWriter) Initialize() error {
	return w.table.initialize()
}

// Write persists trades and exports to parquet.
func (w *TradesWriter) Write(trades []types.Trade) error {
	rows := make([][]any, len(trades))
	for i, trade := range trades {
		rows[i] = []any{string(trade.Action), trade.Time, trade.Price, trade.Shares, trade.PnL}
	}

	return w.table.insert(rows)
}

// Flush forces an export to parquet.
func (w *TradesWriter) Flush() error {
	return w.table.flush()
}

// GetOutputPath returns the parquet file path.
func (w *TradesWriter) GetOutputPath() string {
	return w.table.outputPath
}

// GetTradeCount returns the number of trades stored.
func (w *TradesWriter) GetTradeCount() (int, error) {
	return w.table.count()
}

// Close releases database resources.
func (w *TradesWriter) Close() error {
	return w.table.close()
}
