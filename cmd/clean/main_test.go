package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/review_sentiment/internal/adapters/logger"
	"github.com/baditaflorin/review_sentiment/internal/adapters/normalizer"
	"github.com/baditaflorin/review_sentiment/internal/adapters/stream"
)

func TestRun(t *testing.T) {
	input := "Great Product!! <b>Loved</b> it 100%\n\n  Café   OK \n"
	for _, nt := range []normalizer.NormalizerType{normalizer.DefaultNormalizerType, normalizer.OptimizedNormalizerType} {
		t.Run(string(nt), func(t *testing.T) {
			var out bytes.Buffer
			cfg := stream.DefaultConfig()
			cfg.BatchSize = 1
			require.NoError(t, run(context.Background(), cfg, nt, logger.NewNopLogger(), strings.NewReader(input), &out))
			assert.Equal(t, "great product blovedb it\n\ncaf ok\n", out.String())
		})
	}
}

func TestRunRejectsBadSettings(t *testing.T) {
	err := run(context.Background(), stream.DefaultConfig(), "fast", logger.NewNopLogger(), strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown normalizer")

	err = run(context.Background(), stream.Config{BatchSize: 0, MaxLineSize: 1}, normalizer.DefaultNormalizerType, logger.NewNopLogger(), strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)
}
