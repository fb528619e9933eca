// Package sink persists ingested tables into relational destinations.
package sink

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/nucleus/ingest-core/internal/table"
)

// Postgres writes tables into a PostgreSQL database.
type Postgres struct {
	DB *sql.DB
}

// NewPostgres opens a pooled connection from a libpq-style connection string.
func NewPostgres(connStr string) (*Postgres, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return &Postgres{DB: db}, nil
}

// Close releases database resources.
func (p *Postgres) Close() error {
	if p.DB != nil {
		return p.DB.Close()
	}
	return nil
}

// Ping tests connectivity with a short timeout.
func (p *Postgres) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.DB.PingContext(ctx)
}

// Write creates tableName if needed and inserts every row in one transaction.
// Returns the number of rows written.
func (p *Postgres) Write(ctx context.Context, tableName string, tbl *table.Table) (int64, error) {
	if tbl == nil || len(tbl.Columns) == 0 {
		return 0, fmt.Errorf("table with at least one column is required")
	}

	if _, err := p.DB.ExecContext(ctx, createTableSQL(tableName, tbl)); err != nil {
		return 0, fmt.Errorf("create table %s: %w", tableName, err)
	}

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSQL(tableName, tbl.Columns))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var rows int64
	for _, row := range tbl.Rows {
		args := make([]any, len(tbl.Columns))
		for i, col := range tbl.Columns {
			args[i] = row[col]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return rows, fmt.Errorf("insert into %s: %w", tableName, err)
		}
		rows++
	}
	if err := tx.Commit(); err != nil {
		return rows, err
	}
	return rows, nil
}

func createTableSQL(tableName string, tbl *table.Table) string {
	cols := make([]string, len(tbl.Columns))
	for i, col := range tbl.Columns {
		cols[i] = fmt.Sprintf("%s %s", pq.QuoteIdentifier(col), columnType(tbl, col))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", pq.QuoteIdentifier(tableName), strings.Join(cols, ", "))
}

func insertSQL(tableName string, columns []string) string {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = pq.QuoteIdentifier(col)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pq.QuoteIdentifier(tableName), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
}

// columnType infers a SQL type from the first non-nil cell in the column.
func columnType(tbl *table.Table, col string) string {
	for _, row := range tbl.Rows {
		switch row[col].(type) {
		case nil:
			continue
		case bool:
			return "BOOLEAN"
		case int, int32, int64:
			return "BIGINT"
		case float32, float64:
			return "DOUBLE PRECISION"
		default:
			return "TEXT"
		}
	}
	return "TEXT"
}
