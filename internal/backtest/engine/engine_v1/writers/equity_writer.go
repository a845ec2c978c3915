package writers

import "github.com/rxtech-lab/argo-crossover/internal/types"

// EquityWriter writes the mark-to-market account curve of one run.
type EquityWriter struct {
	table *parquetTable
}

func NewEquityWriter(outputPath string) *EquityWriter {
	return &EquityWriter{
		table: newParquetTable(outputPath, "equity", `
			time TIMESTAMP,
			close DOUBLE,
			cash DOUBLE,
			shares BIGINT,
			equity DOUBLE
		`, "time", "time", "close", "cash", "shares", "equity"),
	}
}

func (w *EquityWriter) Initialize() error {
	return w.table.initialize()
}

// Write persists the equity points and exports to parquet.
func (w *EquityWriter) Write(points []types.EquityPoint) error {
	rows := make([][]any, len(points))
	for i, point := range points {
		rows[i] = []any{point.Time, point.Close, point.Cash, point.Shares, point.Equity}
	}

	return w.table.insert(rows)
}

func (w *EquityWriter) Flush() error {
	return w.table.flush()
}

func (w *EquityWriter) GetOutputPath() string {
	return w.table.outputPath
}

func (w *EquityWriter) GetPointCount() (int, error) {
	return w.table.count()
}

func (w *EquityWriter) Close() error {
	return w.table.close()
}
