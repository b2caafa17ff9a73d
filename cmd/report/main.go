// Package main generates a marketplace snapshot report from a ledger.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"assetra/internal/ledger"
	"assetra/internal/reporting"
	"assetra/internal/storage"
	"assetra/internal/storage/file"
	"assetra/internal/storage/memory"
	pgstore "assetra/internal/storage/postgres"
)

func main() {
	outputDir := flag.String("output-dir", "reports", "Output directory for generated files")
	dataDir := flag.String("data-dir", "", "Ledger directory of the file backend")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("ASSETRA_POSTGRES_DSN"), "PostgreSQL connection string")
	useMemory := flag.Bool("use-memory", false, "Report over a freshly seeded in-memory ledger")
	flag.Parse()

	ctx := context.Background()

	blobs, cleanup, err := openBlobs(ctx, *dataDir, *postgresDSN, *useMemory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	store, err := ledger.Open(ctx, blobs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		os.Exit(1)
	}

	if err := reporting.NewGenerator(store).WriteFiles(*outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Marketplace report generated:")
	fmt.Printf("  - %s/%s\n", *outputDir, reporting.FileMarkdown)
	fmt.Printf("  - %s/%s\n", *outputDir, reporting.FileTokenCSV)
	fmt.Printf("  - %s/%s\n", *outputDir, reporting.FileTradeCSV)
}

// openBlobs selects the ledger backend from flags.
func openBlobs(ctx context.Context, dataDir, postgresDSN string, useMemory bool) (storage.BlobStore, func(), error) {
	switch {
	case useMemory:
		return memory.NewBlobStore(), func() {}, nil
	case dataDir != "":
		fb, err := file.NewBlobStore(dataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}
		return fb, func() {}, nil
	case postgresDSN != "":
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		return pgstore.NewBlobStore(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("one of --use-memory, --data-dir or --postgres-dsn is required")
	}
}
