package ports

import "context"

// Normalizer defines the interface for text normalization.
type Normalizer interface {
	Normalize(text string) string
}

// BatchNormalizer normalizes a sequence of texts, preserving length and order.
type BatchNormalizer interface {
	NormalizeAll(ctx context.Context, texts []string) ([]string, error)
}
