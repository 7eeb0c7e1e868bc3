// Command checkdatasets prints a side by side diagnostic of the Amazon and
// IMDb review datasets.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/baditaflorin/review_sentiment/internal/adapters/dataset"
	"github.com/baditaflorin/review_sentiment/internal/config"
	"github.com/baditaflorin/review_sentiment/internal/core/eda"
)

func main() {
	cfg, err := config.FromEnv(config.DefaultConfig(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding the dataset files")
	flag.StringVar(&cfg.AmazonFile, "amazon-file", cfg.AmazonFile, "Amazon reviews file name")
	flag.StringVar(&cfg.IMDbFile, "imdb-file", cfg.IMDbFile, "IMDb reviews file name")
	flag.Parse()

	if err := run(cfg, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run inspects both datasets. A missing file is reported and skipped.
func run(cfg config.Config, w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Dataset Comparison:"); err != nil {
		return err
	}

	sources := []struct {
		label  string
		path   string
		schema dataset.Schema
	}{
		{"Amazon", cfg.AmazonPath(), dataset.AmazonSchema},
		{"IMDb", cfg.IMDbPath(), dataset.IMDbSchema},
	}

	for _, src := range sources {
		ds, err := dataset.LoadCSV(src.path, src.schema)
		if errors.Is(err, dataset.ErrSourceNotFound) {
			fmt.Fprintf(w, "%s file not found.\n", src.label)
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", src.label, err)
		}
		if err := eda.WriteReport(w, eda.Inspect(ds)); err != nil {
			return err
		}
	}
	return nil
}
