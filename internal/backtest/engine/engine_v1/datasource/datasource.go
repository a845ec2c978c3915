package datasource

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// DataSource loads already-downloaded daily bars from disk.
type DataSource interface {
	// Load reads the bars stored at path whose time lies in the inclusive window and
	// returns them as a validated series. A window that selects nothing yields an
	// empty series.
	Load(path string, start optional.Option[time.Time], end optional.Option[time.Time]) (types.PriceSeries, error)
	// Count returns the number of bars Load would return.
	Count(path string, start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Close releases any resources held by the data source.
	Close() error
}
