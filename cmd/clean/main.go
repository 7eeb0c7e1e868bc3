// Command clean normalizes review text line by line, reading a file or stdin
// and writing one cleaned line per input line to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/baditaflorin/review_sentiment/internal/adapters/logger"
	"github.com/baditaflorin/review_sentiment/internal/adapters/normalizer"
	"github.com/baditaflorin/review_sentiment/internal/adapters/stream"
	"github.com/baditaflorin/review_sentiment/internal/ports"
)

func main() {
	input := flag.String("input", "", "Input file (empty = stdin)")
	workers := flag.Int("workers", 0, "Cleaning workers (0 = NumCPU)")
	batchSize := flag.Int("batch-size", stream.DefaultBatchSize, "Lines per worker batch")
	maxLine := flag.Int("max-line-size", stream.DefaultMaxLineSize, "Longest accepted line in bytes")
	normType := flag.String("normalizer", "optimized", "Normalizer: 'default' or 'optimized'")
	verbose := flag.Bool("verbose", false, "Log a summary to stderr")
	flag.Parse()

	log := logger.NewNopLogger()
	if *verbose {
		var err error
		log, err = logger.NewCustomStdLogger(logger.DefaultConfig(os.Stderr, false))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
			os.Exit(1)
		}
	}
	defer log.Close()

	var r io.Reader = os.Stdin
	if *input != "" {
		f, err := os.Open(*input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}

	cfg := stream.Config{Workers: *workers, BatchSize: *batchSize, MaxLineSize: *maxLine}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, normalizer.NormalizerType(*normType), log, r, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run streams r through the parallel normalizer into w
func run(ctx context.Context, cfg stream.Config, normType normalizer.NormalizerType, log ports.Logger, r io.Reader, w io.Writer) error {
	switch normType {
	case normalizer.DefaultNormalizerType, normalizer.OptimizedNormalizerType:
	default:
		return fmt.Errorf("unknown normalizer %q", normType)
	}

	norm := normalizer.NewNormalizerFactory().CreateNormalizer(normType)
	processor, err := stream.NewProcessor(log, norm, cfg)
	if err != nil {
		return err
	}

	summary, err := processor.ProcessLines(ctx, r, w)
	if err != nil {
		return err
	}
	log.Info("Cleaning completed",
		"lines", summary.Lines,
		"empty_outputs", summary.EmptyOutputs,
		"bytes_processed", summary.BytesProcessed,
		"duration", summary.ProcessingTime,
	)
	return nil
}
