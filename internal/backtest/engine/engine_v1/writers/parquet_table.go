// Package writers persists the per-run results of a backtest as parquet files.
// Each writer stages rows in an in-memory DuckDB table and exports it with COPY.
package writers

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
)

// parquetTable is the DuckDB staging table shared by the writers.
type parquetTable struct {
	db         *sql.DB
	outputPath string
	table      string
	schema     string
	columns    []string
	orderBy    string
	mu         sync.Mutex
}

func newParquetTable(outputPath, table, schema, orderBy string, columns ...string) *parquetTable {
	return &parquetTable{
		outputPath: outputPath,
		table:      table,
		schema:     schema,
		columns:    columns,
		orderBy:    orderBy,
	}
}

func (t *parquetTable) initialize() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(t.outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.table, t.schema)); err != nil {
		db.Close()

		return fmt.Errorf("failed to create %s table: %w", t.table, err)
	}

	t.db = db

	return nil
}

// insert appends rows in a single transaction and exports the table.
func (t *parquetTable) insert(rows [][]any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.db == nil {
		return fmt.Errorf("writer not initialized")
	}

	query, _, err := squirrel.Insert(t.table).
		Columns(t.columns...).
		Values(make([]any, len(t.columns))...).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	tx, err := t.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(query)
	if err != nil {
		_ = tx.Rollback()

		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(row...); err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("failed to insert into %s: %w", t.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", t.table, err)
	}

	return t.exportToParquet()
}

func (t *parquetTable) flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.db == nil {
		return fmt.Errorf("writer not initialized")
	}

	return t.exportToParquet()
}

func (t *parquetTable) count() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.db == nil {
		return 0, fmt.Errorf("writer not initialized")
	}

	var count int
	if err := t.db.QueryRow("SELECT COUNT(*) FROM " + t.table).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", t.table, err)
	}

	return count, nil
}

func (t *parquetTable) close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.db != nil {
		if err := t.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}

		t.db = nil
	}

	return nil
}

//nolint:funcorder // helper used by insert and flush
func (t *parquetTable) exportToParquet() error {
	_, err := t.db.Exec(fmt.Sprintf(`
		COPY (SELECT * FROM %s ORDER BY %s ASC)
		TO '%s' (FORMAT PARQUET)
	`, t.table, t.orderBy, strings.ReplaceAll(t.outputPath, "'", "''")))
	if err != nil {
		return fmt.Errorf("failed to export to parquet: %w", err)
	}

	return nil
}

// nullable maps an undefined value to SQL NULL.
func nullable(value optional.Option[float64]) sql.NullFloat64 {
	if value.IsNone() {
		return sql.NullFloat64{}
	}

	return sql.NullFloat64{Float64: value.Unwrap(), Valid: true}
}
