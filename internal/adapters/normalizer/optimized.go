package normalizer

import (
	"github.com/baditaflorin/review_sentiment/internal/pool"
	"github.com/baditaflorin/review_sentiment/internal/ports"
)

// Decision table actions for ASCII bytes.
const (
	actionDrop byte = iota
	actionKeep
	actionLower
	actionSpace
)

// OptimizedNormalizer implements the same cleaning as DefaultNormalizer with a
// precomputed ASCII decision table and pooled buffers. Input containing
// non-ASCII bytes is delegated to the default implementation.
type OptimizedNormalizer struct {
	// Pre-computed decision table for ASCII characters (0-127)
	asciiTable [128]byte

	bytePool *pool.BufferPool
	fallback *DefaultNormalizer
}

// NewOptimizedNormalizer creates a new optimized normalizer
func NewOptimizedNormalizer() ports.Normalizer {
	n := &OptimizedNormalizer{
		bytePool: pool.NewBufferPool(8192), // 8K bytes initial capacity
		fallback: newDefaultNormalizer(),
	}

	for i := 0; i < 128; i++ {
		r := rune(i)
		switch {
		case r >= 'a' && r <= 'z':
			n.asciiTable[i] = actionKeep
		case r >= 'A' && r <= 'Z':
			n.asciiTable[i] = actionLower
		case isSpace(r):
			n.asciiTable[i] = actionSpace
		default:
			n.asciiTable[i] = actionDrop
		}
	}

	return n
}

// Normalize cleans a single text value
func (n *OptimizedNormalizer) Normalize(text string) string {
	if len(text) == 0 {
		return ""
	}

	for i := 0; i < len(text); i++ {
		if text[i] >= 128 {
			return n.fallback.Normalize(text)
		}
	}

	buffer := n.bytePool.Get()
	defer n.bytePool.Put(buffer)

	if cap(*buffer) < len(text) {
		*buffer = make([]byte, 0, len(text))
	}
	*buffer = (*buffer)[:0]

	pendingSpace := false
	for i := 0; i < len(text); i++ {
		b := text[i]
		switch n.asciiTable[b] {
		case actionKeep, actionLower:
			if pendingSpace {
				*buffer = append(*buffer, ' ')
				pendingSpace = false
			}
			if n.asciiTable[b] == actionLower {
				b += 'a' - 'A'
			}
			*buffer = append(*buffer, b)
		case actionSpace:
			pendingSpace = len(*buffer) > 0
		}
	}

	return string(*buffer)
}

// NormalizerFactory creates the appropriate normalizer based on performance requirements
type NormalizerFactory struct{}

// NewNormalizerFactory creates a new normalizer factory
func NewNormalizerFactory() *NormalizerFactory {
	return &NormalizerFactory{}
}

// NormalizerType selects a normalizer implementation
type NormalizerType string

const (
	// DefaultNormalizerType uses the golang.org/x/text transform chain
	DefaultNormalizerType NormalizerType = "default"
	// OptimizedNormalizerType uses the ASCII decision table and buffer pooling
	OptimizedNormalizerType NormalizerType = "optimized"
)

// CreateNormalizer creates a normalizer of the specified type
func (f *NormalizerFactory) CreateNormalizer(normalizerType NormalizerType) ports.Normalizer {
	switch normalizerType {
	case OptimizedNormalizerType:
		return NewOptimizedNormalizer()
	default:
		return NewDefaultNormalizer()
	}
}
