// Package preprocess is the public entry point for cleaning review text and
// turning star ratings into sentiment labels.
package preprocess

import (
	"context"
	"io"

	"github.com/baditaflorin/l"

	"github.com/baditaflorin/review_sentiment/internal/adapters/logger"
	"github.com/baditaflorin/review_sentiment/internal/adapters/normalizer"
	"github.com/baditaflorin/review_sentiment/internal/adapters/stream"
	"github.com/baditaflorin/review_sentiment/internal/core/sentiment"
	"github.com/baditaflorin/review_sentiment/internal/ports"
	"github.com/baditaflorin/review_sentiment/internal/warmup"
)

// Label is a three-class sentiment label.
type Label = sentiment.Label

// BinaryLabel is a two-class sentiment label.
type BinaryLabel = sentiment.BinaryLabel

// Label values.
const (
	Negative = sentiment.Negative
	Neutral  = sentiment.Neutral
	Positive = sentiment.Positive

	BinaryNegative = sentiment.BinaryNegative
	BinaryPositive = sentiment.BinaryPositive
)

// Summary describes a ProcessLines run.
type Summary = ports.StreamSummary

// Preprocessor cleans review text, alone or in parallel batches.
type Preprocessor struct {
	logger     ports.Logger
	normalizer ports.Normalizer
	processor  *stream.Processor
}

// Option defines a functional option for configuring a Preprocessor.
type Option func(*preprocessorConfig)

type preprocessorConfig struct {
	Logger       ports.Logger
	Normalizer   ports.Normalizer
	Stream       stream.Config
	WarmUp       bool
	WarmUpConfig warmup.Config
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) Option {
	return func(cfg *preprocessorConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithNormalizer sets a custom normalizer.
func WithNormalizer(n ports.Normalizer) Option {
	return func(cfg *preprocessorConfig) {
		cfg.Normalizer = n
	}
}

// WithOptimizedNormalizer uses the ASCII table normalizer.
func WithOptimizedNormalizer() Option {
	return func(cfg *preprocessorConfig) {
		cfg.Normalizer = normalizer.NewNormalizerFactory().CreateNormalizer(normalizer.OptimizedNormalizerType)
	}
}

// WithWorkers sets the number of batch workers. 0 means one per CPU.
func WithWorkers(n int) Option {
	return func(cfg *preprocessorConfig) {
		cfg.Stream.Workers = n
	}
}

// WithBatchSize sets how many texts each worker takes at once.
func WithBatchSize(n int) Option {
	return func(cfg *preprocessorConfig) {
		cfg.Stream.BatchSize = n
	}
}

// WithWarmUp enables warm-up on initialization.
func WithWarmUp(enable bool) Option {
	return func(cfg *preprocessorConfig) {
		cfg.WarmUp = enable
	}
}

// WithWarmUpConfig sets a custom warm-up configuration.
func WithWarmUpConfig(config warmup.Config) Option {
	return func(cfg *preprocessorConfig) {
		cfg.WarmUpConfig = config
		cfg.WarmUp = true
	}
}

// New creates a Preprocessor. Without options it logs nothing and uses the
// default normalizer.
func New(opts ...Option) (*Preprocessor, error) {
	config := &preprocessorConfig{
		Stream:       stream.DefaultConfig(),
		WarmUpConfig: warmup.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(config)
	}

	if config.Logger == nil {
		config.Logger = logger.NewNopLogger()
	}
	if config.Normalizer == nil {
		config.Normalizer = normalizer.NewDefaultNormalizer()
	}

	processor, err := stream.NewProcessor(config.Logger, config.Normalizer, config.Stream)
	if err != nil {
		return nil, err
	}

	p := &Preprocessor{
		logger:     config.Logger,
		normalizer: config.Normalizer,
		processor:  processor,
	}

	if config.WarmUp {
		if err := p.WarmUp(context.Background(), config.WarmUpConfig); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// WarmUp exercises the normalizer and the batch processor.
func (p *Preprocessor) WarmUp(ctx context.Context, config warmup.Config) error {
	manager, err := warmup.NewManager(p.logger, config)
	if err != nil {
		return err
	}
	manager.RegisterNormalizer(p.normalizer)
	manager.RegisterBatchNormalizer(p.processor)
	manager.WarmUp(ctx)
	return nil
}

// Clean normalizes a single text.
func (p *Preprocessor) Clean(text string) string {
	return p.normalizer.Normalize(text)
}

// CleanAll normalizes texts in parallel. The result has the same length and
// order as texts.
func (p *Preprocessor) CleanAll(ctx context.Context, texts []string) ([]string, error) {
	return p.processor.NormalizeAll(ctx, texts)
}

// ProcessLines cleans r line by line into w.
func (p *Preprocessor) ProcessLines(ctx context.Context, r io.Reader, w io.Writer) (Summary, error) {
	return p.processor.ProcessLines(ctx, r, w)
}

// BinThreeClass maps a 1-5 rating to negative, neutral or positive.
// It returns an error for NaN or ratings outside 1..5.
func BinThreeClass(rating float64) (Label, error) {
	if err := sentiment.ValidateRating(rating); err != nil {
		return 0, err
	}
	return sentiment.BinThreeClass(rating), nil
}

// BinBinary maps a 1-5 rating to negative or positive. Neutral ratings are
// rejected; drop them first with FilterNeutral.
func BinBinary(rating float64) (BinaryLabel, error) {
	if err := sentiment.ValidateRating(rating); err != nil {
		return 0, err
	}
	if sentiment.IsNeutral(rating) {
		return 0, sentiment.ErrNeutralRating
	}
	return sentiment.BinBinary(rating), nil
}

// FilterNeutral returns the ratings that are not neutral.
func FilterNeutral(ratings []float64) []float64 {
	return sentiment.FilterNeutral(ratings, func(r float64) float64 { return r })
}
