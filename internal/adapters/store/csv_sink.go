package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/baditaflorin/review_sentiment/internal/core/domain"
	"github.com/baditaflorin/review_sentiment/internal/ports"
)

// csvHeader is the column layout of the exported sample.
var csvHeader = []string{"index", "cleaned_text", "rating", "sentiment", "sentiment_name", "brand", "categories"}

// CSVSink writes cleaned records as CSV. A positive limit keeps only the first limit records.
type CSVSink struct {
	w     io.Writer
	limit int
}

// NewCSVSink creates a sink writing to w.
func NewCSVSink(w io.Writer, limit int) ports.RecordSink {
	return &CSVSink{w: w, limit: limit}
}

// Write writes the header and the records.
func (s *CSVSink) Write(ctx context.Context, records []domain.CleanedRecord) error {
	if s.limit > 0 && len(records) > s.limit {
		records = records[:s.limit]
	}

	writer := csv.NewWriter(s.w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		row := []string{
			strconv.Itoa(r.Index),
			r.Text,
			strconv.FormatFloat(r.Rating, 'f', -1, 64),
			strconv.Itoa(r.Label),
			r.LabelName,
			r.Brand,
			r.Categories,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", r.Index, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
