// Package main implements the ingest CLI: load a tabular file (or an archive
// holding one) into memory, print the leading rows, and optionally publish the
// result to an object store or Postgres.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/nucleus/ingest-core/internal/config"
	"github.com/nucleus/ingest-core/internal/ingest"
	"github.com/nucleus/ingest-core/internal/sink"
	"github.com/nucleus/ingest-core/internal/store"
	"github.com/nucleus/ingest-core/internal/table"
)

func main() {
	var (
		configPath = flag.String("config", "", "optional YAML config file")
		inputPath  = flag.String("path", "", "file or archive to ingest (default data/archive.zip)")
		entry      = flag.String("entry", "", "archive entry to select when several are supported")
		objectKey  = flag.String("object", "", "ingest an object-store key instead of a local path")
		publish    = flag.String("publish", "", "dataset ID to publish the result under in the object store")
		pgTable    = flag.String("pg-table", "", "Postgres table to write the result into")
		head       = flag.Int("head", 5, "rows to print")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *inputPath != "" {
		cfg.InputPath = *inputPath
	}
	if *entry != "" {
		cfg.Entry = *entry
	}

	ctx := context.Background()

	var tbl *table.Table
	if *objectKey != "" {
		source, err := store.NewSource(store.ParseConfig(cfg.StoreParams()), nil)
		if err != nil {
			log.Fatalf("open object source: %v", err)
		}
		log.Printf("ingesting object %s", *objectKey)
		tbl, err = source.Ingest(ctx, *objectKey, cfg.Entry)
		if err != nil {
			log.Fatalf("ingest object %s: %v", *objectKey, err)
		}
	} else {
		log.Printf("ingesting %s", cfg.InputPath)
		tbl, err = ingest.LoadEntry(ctx, cfg.InputPath, cfg.Entry)
		if err != nil {
			log.Fatalf("ingest %s: %v", cfg.InputPath, err)
		}
	}
	log.Printf("ingested %d rows x %d columns", tbl.NumRows(), tbl.NumColumns())

	printHead(tbl, *head)

	if *publish != "" {
		objSink, err := store.NewSink(store.ParseConfig(cfg.StoreParams()), nil)
		if err != nil {
			log.Fatalf("open object sink: %v", err)
		}
		res, err := objSink.Publish(ctx, *publish, tbl)
		if err != nil {
			log.Fatalf("publish %s: %v", *publish, err)
		}
		log.Printf("published %d rows to %s", res.Rows, res.Object)
	}

	if *pgTable != "" {
		pg, err := sink.NewPostgres(cfg.Postgres.ConnString)
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		defer pg.Close()
		rows, err := pg.Write(ctx, *pgTable, tbl)
		if err != nil {
			log.Fatalf("write %s: %v", *pgTable, err)
		}
		log.Printf("wrote %d rows to postgres table %s", rows, *pgTable)
	}
}

func printHead(tbl *table.Table, n int) {
	fmt.Println(strings.Join(tbl.Columns, "\t"))
	for _, row := range tbl.Head(n).Rows {
		cells := make([]string, len(tbl.Columns))
		for i, col := range tbl.Columns {
			cells[i] = fmt.Sprint(row[col])
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
}
