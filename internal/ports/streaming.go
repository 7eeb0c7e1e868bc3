package ports

import (
	"context"
	"io"
	"time"
)

// StreamProcessor defines the interface for cleaning a text stream line by line
type StreamProcessor interface {
	// ProcessLines reads one text per line and writes one cleaned line per input line, in order
	ProcessLines(ctx context.Context, reader io.Reader, writer io.Writer) (StreamSummary, error)
}

// StreamSummary holds the outcome of a streaming run
type StreamSummary struct {
	Lines          int
	EmptyOutputs   int
	BytesProcessed int64
	ProcessingTime time.Duration
}
