package warmup

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/baditaflorin/review_sentiment/internal/ports"
)

// Config defines configuration for warming up the cleaning components
type Config struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Sample text size in bytes
	SampleTextSize int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultConfig returns the default warmup configuration
func DefaultConfig() Config {
	return Config{
		Concurrency:    runtime.NumCPU(),
		Iterations:     1000,
		SampleTextSize: 1000,
		Duration:       5 * time.Second,
		ForceGC:        true,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Concurrency <= 0 {
		return errors.New("concurrency must be greater than 0")
	}
	if c.Iterations < 0 {
		return errors.New("iterations must not be negative")
	}
	if c.SampleTextSize < 0 {
		return errors.New("sample text size must not be negative")
	}
	return nil
}

// Report summarizes a warmup run
type Report struct {
	NormalizeCalls int64
	BatchCalls     int64
	Duration       time.Duration
}

// Manager exercises normalizers before they serve traffic
type Manager struct {
	logger      ports.Logger
	normalizers []ports.Normalizer
	batches     []ports.BatchNormalizer
	config      Config

	mu     sync.Mutex
	report Report
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config Config) (*Manager, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Manager{
		logger: logger,
		config: config,
	}, nil
}

// RegisterNormalizer adds a normalizer to be warmed up
func (wm *Manager) RegisterNormalizer(norm ports.Normalizer) {
	wm.normalizers = append(wm.normalizers, norm)
}

// RegisterBatchNormalizer adds a batch normalizer to be warmed up
func (wm *Manager) RegisterBatchNormalizer(batch ports.BatchNormalizer) {
	wm.batches = append(wm.batches, batch)
}

// WarmUp runs the warmup process for all registered components
func (wm *Manager) WarmUp(ctx context.Context) Report {
	startTime := time.Now()
	wm.logger.Info("Starting warmup",
		"components", len(wm.normalizers)+len(wm.batches),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	warmupCtx := ctx
	if wm.config.Duration > 0 {
		var cancel context.CancelFunc
		warmupCtx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	}

	wm.mu.Lock()
	wm.report = Report{}
	wm.mu.Unlock()

	wm.warmUpNormalizers(warmupCtx)
	wm.warmUpBatches(warmupCtx)

	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.mu.Lock()
	wm.report.Duration = time.Since(startTime)
	report := wm.report
	wm.mu.Unlock()

	wm.logger.Info("Warmup completed",
		"normalize_calls", report.NormalizeCalls,
		"batch_calls", report.BatchCalls,
		"duration", report.Duration,
	)
	return report
}

func (wm *Manager) warmUpNormalizers(ctx context.Context) {
	if len(wm.normalizers) == 0 {
		return
	}

	sampleText := generateSampleReview(wm.config.SampleTextSize)

	var wg sync.WaitGroup
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			var calls int64
			for j := 0; j < wm.config.Iterations; j++ {
				if ctx.Err() != nil {
					break
				}
				for _, normalizer := range wm.normalizers {
					_ = normalizer.Normalize(sampleText)
					calls++
				}
			}

			wm.mu.Lock()
			wm.report.NormalizeCalls += calls
			wm.mu.Unlock()
		}()
	}

	wg.Wait()
}

func (wm *Manager) warmUpBatches(ctx context.Context) {
	if len(wm.batches) == 0 {
		return
	}

	texts := make([]string, 64)
	for i := range texts {
		texts[i] = generateSampleReview(wm.config.SampleTextSize / 4)
	}

	// Batch normalizers already fan out, so a single routine is enough.
	var calls int64
	for j := 0; j < wm.config.Iterations/10; j++ {
		if ctx.Err() != nil {
			break
		}
		for _, batch := range wm.batches {
			if _, err := batch.NormalizeAll(ctx, texts); err != nil {
				wm.logger.Debug("Batch warmup interrupted", "error", err)
				break
			}
			calls++
		}
	}

	wm.mu.Lock()
	wm.report.BatchCalls += calls
	wm.mu.Unlock()
}

// generateSampleReview creates review-like text of about size bytes, mixing
// markup, digits, punctuation and mixed case so every cleaning branch runs.
func generateSampleReview(size int) string {
	fragments := []string{
		"Great", "product!!", "<b>Loved</b>", "it", "100%", "WOULD", "buy", "again.",
		"Battery", "died", "after", "2", "days", ":(", "not", "worth", "$29.99",
		"Café", "naïve", "  ", "\tok\n",
	}

	var sb strings.Builder
	for i := 0; sb.Len() < size; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fragments[i%len(fragments)])
	}
	return sb.String()
}
