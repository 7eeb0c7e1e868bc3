package warmup

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/review_sentiment/internal/adapters/logger"
	"github.com/baditaflorin/review_sentiment/internal/adapters/normalizer"
)

type countingBatch struct {
	calls atomic.Int64
}

func (c *countingBatch) NormalizeAll(_ context.Context, texts []string) ([]string, error) {
	c.calls.Add(1)
	return texts, nil
}

func TestWarmUp(t *testing.T) {
	cfg := Config{Concurrency: 2, Iterations: 20, SampleTextSize: 200, ForceGC: false}
	m, err := NewManager(logger.NewNopLogger(), cfg)
	require.NoError(t, err)

	m.RegisterNormalizer(normalizer.NewDefaultNormalizer())
	m.RegisterNormalizer(normalizer.NewOptimizedNormalizer())
	batch := &countingBatch{}
	m.RegisterBatchNormalizer(batch)

	report := m.WarmUp(context.Background())
	assert.Equal(t, int64(2*20*2), report.NormalizeCalls)
	assert.Equal(t, int64(2), report.BatchCalls)
	assert.Equal(t, int64(2), batch.calls.Load())
}

func TestWarmUpStopsOnCancel(t *testing.T) {
	cfg := Config{Concurrency: 1, Iterations: 1000, SampleTextSize: 100, Duration: time.Second}
	m, err := NewManager(logger.NewNopLogger(), cfg)
	require.NoError(t, err)
	m.RegisterNormalizer(normalizer.NewDefaultNormalizer())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := m.WarmUp(ctx)
	assert.Zero(t, report.NormalizeCalls)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	_, err := NewManager(logger.NewNopLogger(), Config{Concurrency: 0})
	assert.Error(t, err)
}

func TestGenerateSampleReview(t *testing.T) {
	s := generateSampleReview(300)
	assert.GreaterOrEqual(t, len(s), 300)
	assert.Contains(t, s, "<b>Loved</b>")
}
