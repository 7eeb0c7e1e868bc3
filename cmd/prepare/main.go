// Command prepare cleans a review dataset, bins its ratings and exports the
// result as a CSV sample and, optionally, a sqlite table.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/baditaflorin/review_sentiment/internal/adapters/dataset"
	"github.com/baditaflorin/review_sentiment/internal/adapters/logger"
	"github.com/baditaflorin/review_sentiment/internal/adapters/normalizer"
	"github.com/baditaflorin/review_sentiment/internal/adapters/store"
	"github.com/baditaflorin/review_sentiment/internal/adapters/stream"
	"github.com/baditaflorin/review_sentiment/internal/config"
	"github.com/baditaflorin/review_sentiment/internal/core/domain"
	"github.com/baditaflorin/review_sentiment/internal/core/prepare"
	"github.com/baditaflorin/review_sentiment/internal/core/sentiment"
	"github.com/baditaflorin/review_sentiment/internal/ports"
)

func main() {
	cfg, err := config.FromEnv(config.DefaultConfig(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(1)
	}

	source := flag.String("dataset", "amazon", "Dataset to prepare: 'amazon' or 'imdb'")
	policy := flag.String("policy", string(cfg.Policy), "Binning policy: 'three_class' or 'binary'")
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding the dataset files")
	flag.StringVar(&cfg.AmazonFile, "amazon-file", cfg.AmazonFile, "Amazon reviews file name")
	flag.StringVar(&cfg.IMDbFile, "imdb-file", cfg.IMDbFile, "IMDb reviews file name")
	flag.StringVar(&cfg.SampleFile, "sample-file", cfg.SampleFile, "Name of the exported sample")
	flag.IntVar(&cfg.SampleSize, "sample-size", cfg.SampleSize, "Rows in the exported sample (0 = all)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Optional sqlite database receiving every cleaned row")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Cleaning workers (0 = NumCPU)")
	flag.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "Texts per worker batch")
	verbose := flag.Bool("verbose", false, "Log progress to stderr")
	flag.Parse()

	p, err := sentiment.ParsePolicy(*policy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg.Policy = p
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewNopLogger()
	if *verbose {
		log, err = logger.NewCustomStdLogger(logger.DefaultConfig(os.Stderr, false))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
			os.Exit(1)
		}
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *source, log, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run loads the named dataset, prepares it and writes the outputs
func run(ctx context.Context, cfg config.Config, source string, log ports.Logger, stdout io.Writer) error {
	var (
		path   string
		schema dataset.Schema
	)
	switch source {
	case "amazon":
		path, schema = cfg.AmazonPath(), dataset.AmazonSchema
	case "imdb":
		path, schema = cfg.IMDbPath(), dataset.IMDbSchema
	default:
		return fmt.Errorf("unknown dataset %q", source)
	}

	ds, err := dataset.LoadCSV(path, schema)
	if err != nil {
		if errors.Is(err, dataset.ErrSourceNotFound) {
			return fmt.Errorf("%s file not found at %s", schema.Name, path)
		}
		return err
	}
	log.Info("Dataset loaded", "dataset", ds.Name, "rows", len(ds.Records))

	streamCfg := stream.DefaultConfig()
	streamCfg.Workers = cfg.Workers
	streamCfg.BatchSize = cfg.BatchSize
	processor, err := stream.NewProcessor(log, normalizer.NewOptimizedNormalizer(), streamCfg)
	if err != nil {
		return err
	}

	preparer := prepare.New(log, processor)
	var result prepare.Result
	if ds.HasLabels() {
		result, err = preparer.PrepareLabelled(ctx, ds)
	} else {
		result, err = preparer.Prepare(ctx, ds, cfg.Policy)
	}
	if err != nil {
		return err
	}

	if err := writeSample(ctx, cfg.SamplePath(), cfg.SampleSize, result.Records); err != nil {
		return err
	}

	if cfg.DBPath != "" {
		if err := writeDB(ctx, cfg.DBPath, ds.Name, log, result.Records); err != nil {
			return err
		}
	}

	return printSummary(stdout, ds.Name, cfg, result)
}

func writeSample(ctx context.Context, path string, size int, records []domain.CleanedRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sample: %w", err)
	}
	if err := store.NewCSVSink(f, size).Write(ctx, records); err != nil {
		f.Close()
		return fmt.Errorf("write sample: %w", err)
	}
	return f.Close()
}

func writeDB(ctx context.Context, path, name string, log ports.Logger, records []domain.CleanedRecord) error {
	db, err := store.OpenSQLite(path, name, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Write(ctx, records); err != nil {
		return err
	}
	count, err := db.Count(ctx)
	if err != nil {
		return err
	}
	log.Info("Records stored", "db", path, "dataset", name, "rows", count)
	return nil
}

func printSummary(w io.Writer, name string, cfg config.Config, result prepare.Result) error {
	fmt.Fprintf(w, "=== %s ===\n", name)
	fmt.Fprintf(w, "Policy: %s\n", result.Policy)
	fmt.Fprintf(w, "Records: %d\n", len(result.Records))
	fmt.Fprintf(w, "Dropped (missing values): %d\n", result.Dropped)
	fmt.Fprintf(w, "Neutral filtered: %d\n", result.NeutralFiltered)

	names := make([]string, 0, len(result.LabelCounts))
	for label := range result.LabelCounts {
		names = append(names, label)
	}
	sort.Strings(names)
	for _, label := range names {
		fmt.Fprintf(w, "  %s: %d\n", label, result.LabelCounts[label])
	}

	_, err := fmt.Fprintf(w, "Sample written to %s\n", cfg.SamplePath())
	return err
}
