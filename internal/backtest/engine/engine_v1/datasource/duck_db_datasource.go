package datasource

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"go.uber.org/zap"
)

const timeColumn = "CAST(time AS TIMESTAMP)"

// DuckDBDataSource reads parquet or CSV bar files through an in-process DuckDB.
// Files need time, open, high, low, close and volume columns. The symbol is taken from
// the file name up to the first underscore or dot (AAPL_2020.parquet is AAPL).
type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDataSource opens a DuckDB database at path; ":memory:" or "" keeps it in memory.
// Bars are queried straight from the files and never copied into the database.
func NewDataSource(path string, logger *logger.Logger) (DataSource, error) {
	if path == ":memory:" {
		path = ""
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open DuckDB", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to connect to DuckDB", err)
	}

	return &DuckDBDataSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Load implements DataSource.
func (d *DuckDBDataSource) Load(path string, start optional.Option[time.Time], end optional.Option[time.Time]) (types.PriceSeries, error) {
	source, err := tableFunction(path)
	if err != nil {
		return types.PriceSeries{}, err
	}

	query, args, err := d.window(d.sq.Select(
		timeColumn+" AS time",
		"CAST(open AS DOUBLE) AS open",
		"CAST(high AS DOUBLE) AS high",
		"CAST(low AS DOUBLE) AS low",
		"CAST(close AS DOUBLE) AS close",
		"CAST(volume AS DOUBLE) AS volume",
	).From(source), start, end).OrderBy("time ASC").ToSql()
	if err != nil {
		return types.PriceSeries{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	d.logger.Debug("Loading bars", zap.String("path", path), zap.String("query", query))

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read %s", path)
	}
	defer rows.Close()

	var bars []types.Bar

	for rows.Next() {
		var bar types.Bar
		if err := rows.Scan(&bar.Time, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to scan bar from %s", path)
		}

		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to iterate bars of %s", path)
	}

	series, err := types.NewPriceSeries(SymbolFromPath(path), bars)
	if err != nil {
		return types.PriceSeries{}, fmt.Errorf("invalid bars in %s: %w", path, err)
	}

	d.logger.Debug("Loaded bars",
		zap.String("path", path),
		zap.String("symbol", series.Symbol()),
		zap.Int("count", series.Len()),
	)

	return series, nil
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(path string, start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	source, err := tableFunction(path)
	if err != nil {
		return 0, err
	}

	query, args, err := d.window(d.sq.Select("COUNT(*)").From(source), start, end).ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to count bars of %s", path)
	}

	return count, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	if d == nil || d.db == nil {
		return nil
	}

	return d.db.Close()
}

func (d *DuckDBDataSource) window(query squirrel.SelectBuilder, start optional.Option[time.Time], end optional.Option[time.Time]) squirrel.SelectBuilder {
	if start.IsSome() {
		query = query.Where(squirrel.Expr(timeColumn+" >= ?", start.Unwrap()))
	}

	if end.IsSome() {
		query = query.Where(squirrel.Expr(timeColumn+" <= ?", end.Unwrap()))
	}

	return query
}

// tableFunction returns the DuckDB table function reading path, chosen by extension.
// Squirrel has no notion of table functions, so the path is quoted by hand.
func tableFunction(path string) (string, error) {
	quoted := "'" + strings.ReplaceAll(path, "'", "''") + "'"

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return "read_parquet(" + quoted + ")", nil
	case ".csv":
		return "read_csv_auto(" + quoted + ", header = true)", nil
	default:
		return "", errors.Newf(errors.ErrCodeBacktestDataPathError, "unsupported data file %s: expected .parquet or .csv", path)
	}
}

// SymbolFromPath derives the symbol from a data file name.
func SymbolFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if i := strings.IndexAny(base, "_."); i > 0 {
		base = base[:i]
	}

	return strings.ToUpper(base)
}
