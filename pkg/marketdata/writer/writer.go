// Package writer stores daily bars in the file layout read by the backtest data source.
package writer

import (
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// MarketDataWriter defines the interface for writing bars to a file.
type MarketDataWriter interface {
	// Initialize sets up the writer, potentially creating tables or files.
	Initialize() error
	// Write persists a single bar.
	Write(bar types.Bar) error
	// Finalize commits the staged bars and exports the file.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}
