// Package reviewsentiment cleans product review text and bins star ratings
// into sentiment labels. It wraps pkg/preprocess with package level helpers
// backed by a shared default Preprocessor.
package reviewsentiment

import (
	"context"
	"sync"

	"github.com/baditaflorin/review_sentiment/pkg/preprocess"
)

var (
	defaultOnce sync.Once
	defaultPre  *preprocess.Preprocessor
	defaultErr  error
)

func defaultPreprocessor() (*preprocess.Preprocessor, error) {
	defaultOnce.Do(func() {
		defaultPre, defaultErr = preprocess.New(preprocess.WithOptimizedNormalizer())
	})
	return defaultPre, defaultErr
}

// CleanText lowercases text, keeps only ASCII letters and whitespace, and
// collapses whitespace runs to single spaces.
func CleanText(text string) string {
	p, err := defaultPreprocessor()
	if err != nil {
		return ""
	}
	return p.Clean(text)
}

// CleanTexts cleans texts in parallel, preserving order.
func CleanTexts(ctx context.Context, texts []string) ([]string, error) {
	p, err := defaultPreprocessor()
	if err != nil {
		return nil, err
	}
	return p.CleanAll(ctx, texts)
}

// BinSentiment maps a 1-5 rating to negative (0), neutral (1) or positive (2).
func BinSentiment(rating float64) (preprocess.Label, error) {
	return preprocess.BinThreeClass(rating)
}

// BinSentimentBinary maps a non-neutral 1-5 rating to negative (0) or positive (1).
func BinSentimentBinary(rating float64) (preprocess.BinaryLabel, error) {
	return preprocess.BinBinary(rating)
}
