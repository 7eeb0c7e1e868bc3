package stream

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/baditaflorin/review_sentiment/internal/ports"
)

const (
	// DefaultBatchSize defines how many texts are handed to a worker at once
	DefaultBatchSize = 256

	// DefaultMaxLineSize bounds a single line in ProcessLines.
	// Review bodies regularly exceed bufio.Scanner's 64KB default token size.
	DefaultMaxLineSize = 16 * 1024 * 1024 // 16MB

	// initialScannerBuffer is the starting scanner buffer, grown up to MaxLineSize
	initialScannerBuffer = 64 * 1024
)

// Config controls the parallel processor.
type Config struct {
	// Workers is the number of worker goroutines. 0 means runtime.NumCPU().
	Workers     int
	BatchSize   int
	MaxLineSize int
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Workers:     0,
		BatchSize:   DefaultBatchSize,
		MaxLineSize: DefaultMaxLineSize,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	if c.BatchSize <= 0 {
		return errors.New("batch size must be greater than 0")
	}
	if c.MaxLineSize <= 0 {
		return errors.New("max line size must be greater than 0")
	}
	return nil
}

// Processor cleans texts on a pool of workers. Texts are split into
// fixed-size chunks, each chunk is normalized independently, and the results
// are reassembled in input order.
type Processor struct {
	logger     ports.Logger
	normalizer ports.Normalizer
	config     Config
}

var (
	_ ports.BatchNormalizer = (*Processor)(nil)
	_ ports.StreamProcessor = (*Processor)(nil)
)

// NewProcessor creates a new parallel processor.
func NewProcessor(logger ports.Logger, normalizer ports.Normalizer, config Config) (*Processor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if normalizer == nil {
		return nil, errors.New("normalizer is required")
	}
	return &Processor{
		logger:     logger,
		normalizer: normalizer,
		config:     config,
	}, nil
}

func (p *Processor) workerCount() int {
	if p.config.Workers > 0 {
		return p.config.Workers
	}
	return runtime.NumCPU()
}

// NormalizeAll cleans every text. The output has the same length and order as texts.
func (p *Processor) NormalizeAll(ctx context.Context, texts []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]string, len(texts))
	batchSize := p.config.BatchSize

	// Small inputs are not worth the goroutine handoff.
	if len(texts) <= batchSize || p.workerCount() == 1 {
		for i, text := range texts {
			out[i] = p.normalizer.Normalize(text)
		}
		return out, nil
	}

	startTime := time.Now()
	produce := func(ctx context.Context, submit func([]string) error) error {
		for start := 0; start < len(texts); start += batchSize {
			end := start + batchSize
			if end > len(texts) {
				end = len(texts)
			}
			if err := submit(texts[start:end]); err != nil {
				return err
			}
		}
		return nil
	}
	consume := func(res JobResult) error {
		copy(out[res.ChunkID*batchSize:], res.Items)
		return nil
	}

	if err := p.runParallel(ctx, produce, consume); err != nil {
		return nil, err
	}

	p.logger.Debug("Parallel normalization completed",
		"texts", len(texts),
		"workers", p.workerCount(),
		"duration", time.Since(startTime),
	)
	return out, nil
}

// ProcessLines reads one text per line and writes one cleaned line per input line, in order.
func (p *Processor) ProcessLines(ctx context.Context, reader io.Reader, writer io.Writer) (ports.StreamSummary, error) {
	startTime := time.Now()
	var summary ports.StreamSummary

	scanner := bufio.NewScanner(reader)
	bufSize := initialScannerBuffer
	if bufSize > p.config.MaxLineSize {
		bufSize = p.config.MaxLineSize
	}
	scanner.Buffer(make([]byte, 0, bufSize), p.config.MaxLineSize)

	out := bufio.NewWriter(writer)

	produce := func(ctx context.Context, submit func([]string) error) error {
		batch := make([]string, 0, p.config.BatchSize)
		for scanner.Scan() {
			line := scanner.Text()
			summary.BytesProcessed += int64(len(line)) + 1
			batch = append(batch, line)
			if len(batch) >= p.config.BatchSize {
				if err := submit(batch); err != nil {
					return err
				}
				batch = make([]string, 0, p.config.BatchSize)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read lines: %w", err)
		}
		if len(batch) > 0 {
			return submit(batch)
		}
		return nil
	}
	consume := func(res JobResult) error {
		for _, cleaned := range res.Items {
			summary.Lines++
			if cleaned == "" {
				summary.EmptyOutputs++
			}
			if _, err := out.WriteString(cleaned); err != nil {
				return fmt.Errorf("write line: %w", err)
			}
			if err := out.WriteByte('\n'); err != nil {
				return fmt.Errorf("write line: %w", err)
			}
		}
		return nil
	}

	if err := p.runParallel(ctx, produce, consume); err != nil {
		p.logger.Error("Line processing failed", "error", err, "lines", summary.Lines)
		return summary, err
	}
	if err := out.Flush(); err != nil {
		return summary, fmt.Errorf("flush output: %w", err)
	}

	summary.ProcessingTime = time.Since(startTime)
	p.logger.Debug("Line processing completed",
		"lines", summary.Lines,
		"empty_outputs", summary.EmptyOutputs,
		"bytes_processed", summary.BytesProcessed,
		"duration", summary.ProcessingTime,
	)
	return summary, nil
}
