package ports

import (
	"context"

	"github.com/baditaflorin/review_sentiment/internal/core/domain"
)

// RecordSink persists cleaned records.
type RecordSink interface {
	Write(ctx context.Context, records []domain.CleanedRecord) error
}
