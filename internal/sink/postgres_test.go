package sink

import (
	"context"
	"os"
	"testing"

	"github.com/nucleus/ingest-core/internal/table"
)

func houseTable() *table.Table {
	tbl := table.New("city", "price", "sold")
	tbl.Append(table.Record{"city": "ames", "price": 214000.5, "sold": true})
	tbl.Append(table.Record{"city": "boone", "price": 98750.25, "sold": false})
	return tbl
}

func TestCreateTableSQL_Unit_InferredTypes(t *testing.T) {
	got := createTableSQL("houses", houseTable())
	want := `CREATE TABLE IF NOT EXISTS "houses" ("city" TEXT, "price" DOUBLE PRECISION, "sold" BOOLEAN)`
	if got != want {
		t.Errorf("createTableSQL =\n%s\nwant\n%s", got, want)
	}
}

func TestInsertSQL_Unit_Placeholders(t *testing.T) {
	got := insertSQL("houses", []string{"city", "price"})
	want := `INSERT INTO "houses" ("city", "price") VALUES ($1, $2)`
	if got != want {
		t.Errorf("insertSQL = %s, want %s", got, want)
	}
}

func TestColumnType_Unit_NilCellsSkipped(t *testing.T) {
	tbl := table.New("mixed")
	tbl.Append(table.Record{"mixed": nil})
	tbl.Append(table.Record{"mixed": int64(4)})
	if got := columnType(tbl, "mixed"); got != "BIGINT" {
		t.Errorf("columnType = %s, want BIGINT", got)
	}
}

func skipIfNoDatabase(t *testing.T) string {
	t.Helper()
	connStr := os.Getenv("INGEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("INGEST_DATABASE_URL not set, skipping Postgres integration test")
	}
	return connStr
}

func TestPostgres_Integration_WriteRoundTrip(t *testing.T) {
	connStr := skipIfNoDatabase(t)
	ctx := context.Background()

	pg, err := NewPostgres(connStr)
	if err != nil {
		t.Fatalf("NewPostgres failed: %v", err)
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	tbl := houseTable()
	defer pg.DB.ExecContext(ctx, `DROP TABLE IF EXISTS "ingest_it_houses"`)
	rows, err := pg.Write(ctx, "ingest_it_houses", tbl)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if rows != 2 {
		t.Errorf("rows written = %d, want 2", rows)
	}

	var count int
	if err := pg.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM "ingest_it_houses"`).Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}
