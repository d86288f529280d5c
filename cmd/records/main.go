package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mental-health-agent-be/internal/config"
	"mental-health-agent-be/internal/entity"
	"mental-health-agent-be/internal/repository/contract"
	"mental-health-agent-be/internal/repository/implementation"
	"mental-health-agent-be/internal/repository/specification"
	"mental-health-agent-be/pkg/database"

	"github.com/google/uuid"
)

type options struct {
	ID     uuid.UUID
	Limit  int
	Offset int
	Since  time.Duration
}

// records prints stored chat exchanges, newest first.
func main() {
	var opts options
	flag.IntVar(&opts.Limit, "limit", 20, "number of records to print, 0 for all")
	flag.IntVar(&opts.Offset, "offset", 0, "records to skip")
	flag.DurationVar(&opts.Since, "since", 0, "only records newer than this, e.g. 24h")
	id := flag.String("id", "", "print a single record by id")
	flag.Parse()

	if *id != "" {
		parsed, err := uuid.Parse(*id)
		if err != nil {
			log.Fatalf("Error: invalid -id: %v", err)
		}
		opts.ID = parsed
	}

	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo := implementation.NewQueryRecordRepository(db)
	if err := printRecords(ctx, os.Stdout, repo, opts, time.Now()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func printRecords(ctx context.Context, w io.Writer, repo contract.QueryRecordRepository, opts options, now time.Time) error {
	var filters []specification.Specification
	if opts.ID != uuid.Nil {
		filters = append(filters, specification.ByID{ID: opts.ID})
	}
	if opts.Since > 0 {
		filters = append(filters, specification.CreatedBetween{From: now.Add(-opts.Since)})
	}

	total, err := repo.Count(ctx, filters...)
	if err != nil {
		return fmt.Errorf("count records: %w", err)
	}

	var records []*entity.QueryRecord
	if len(filters) == 0 && opts.Offset == 0 {
		records, err = repo.FindLatest(ctx, opts.Limit)
	} else {
		specs := append(filters, specification.Newest{}, specification.Page{Limit: opts.Limit, Offset: opts.Offset})
		records, err = repo.FindAll(ctx, specs...)
	}
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	fmt.Fprintf(w, "%d of %d records\n", len(records), total)
	for _, r := range records {
		fmt.Fprintf(w, "\n%s  %s\n", r.CreatedAt.UTC().Format(time.RFC3339), r.Id)
		fmt.Fprintf(w, "  user: %s\n", oneLine(r.UserInput))
		fmt.Fprintf(w, "  ai:   %s\n", oneLine(r.AiResponse))
	}
	return nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
