// Package prepare turns raw review datasets into cleaned, labelled records.
package prepare

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/baditaflorin/review_sentiment/internal/core/domain"
	"github.com/baditaflorin/review_sentiment/internal/core/sentiment"
	"github.com/baditaflorin/review_sentiment/internal/ports"
)

// ErrUnknownLabel is returned when a pre-labelled dataset carries a label other than positive or negative.
var ErrUnknownLabel = errors.New("unknown sentiment label")

// Result is the output of a preparation run.
type Result struct {
	Policy  sentiment.Policy
	Records []domain.CleanedRecord
	// Dropped counts rows skipped for a missing text or rating.
	Dropped int
	// NeutralFiltered counts rows removed by neutral row filtering.
	NeutralFiltered int
	LabelCounts     map[string]int
}

// Preparer cleans text and bins ratings.
type Preparer struct {
	logger     ports.Logger
	normalizer ports.BatchNormalizer
}

// New creates a Preparer.
func New(logger ports.Logger, normalizer ports.BatchNormalizer) *Preparer {
	return &Preparer{logger: logger, normalizer: normalizer}
}

// candidate is a complete row waiting to be cleaned.
type candidate struct {
	index  int
	record domain.RawRecord
}

// Prepare runs the preparation variant named by policy.
func (p *Preparer) Prepare(ctx context.Context, ds domain.Dataset, policy sentiment.Policy) (Result, error) {
	switch policy {
	case sentiment.PolicyThreeClass:
		return p.PrepareThreeClass(ctx, ds)
	case sentiment.PolicyBinary:
		return p.PrepareBinary(ctx, ds)
	default:
		return Result{}, fmt.Errorf("%w: %q", sentiment.ErrUnknownPolicy, policy)
	}
}

// PrepareThreeClass keeps every complete row and labels it negative, neutral or positive.
func (p *Preparer) PrepareThreeClass(ctx context.Context, ds domain.Dataset) (Result, error) {
	candidates, dropped, err := completeRows(ds)
	if err != nil {
		return Result{}, err
	}

	result := Result{Policy: sentiment.PolicyThreeClass, Dropped: dropped}
	err = p.build(ctx, ds.Name, candidates, &result, func(_ int, c candidate) (int, string) {
		label := sentiment.BinThreeClass(c.record.Rating.Float64)
		return int(label), label.String()
	})
	return result, err
}

// PrepareBinary drops neutral rows, then labels the rest negative or positive.
func (p *Preparer) PrepareBinary(ctx context.Context, ds domain.Dataset) (Result, error) {
	candidates, dropped, err := completeRows(ds)
	if err != nil {
		return Result{}, err
	}

	kept := sentiment.FilterNeutral(candidates, func(c candidate) float64 {
		return c.record.Rating.Float64
	})

	result := Result{
		Policy:          sentiment.PolicyBinary,
		Dropped:         dropped,
		NeutralFiltered: len(candidates) - len(kept),
	}
	err = p.build(ctx, ds.Name, kept, &result, func(_ int, c candidate) (int, string) {
		label := sentiment.BinBinary(c.record.Rating.Float64)
		return int(label), label.String()
	})
	return result, err
}

// PrepareLabelled cleans a dataset that ships positive/negative labels instead of ratings.
// Rows with a missing text or label are dropped.
func (p *Preparer) PrepareLabelled(ctx context.Context, ds domain.Dataset) (Result, error) {
	if !ds.HasLabels() {
		return Result{}, fmt.Errorf("dataset %q has no label column", ds.Name)
	}

	result := Result{Policy: sentiment.PolicyBinary}
	var candidates []candidate
	var labels []sentiment.BinaryLabel
	for i, rec := range ds.Records {
		if !rec.Text.Valid || i >= len(ds.Labels) || !ds.Labels[i].Valid {
			result.Dropped++
			continue
		}
		var label sentiment.BinaryLabel
		switch strings.ToLower(ds.Labels[i].String) {
		case "positive":
			label = sentiment.BinaryPositive
		case "negative":
			label = sentiment.BinaryNegative
		default:
			return Result{}, fmt.Errorf("row %d: %w: %q", i, ErrUnknownLabel, ds.Labels[i].String)
		}
		candidates = append(candidates, candidate{index: i, record: rec})
		labels = append(labels, label)
	}

	err := p.build(ctx, ds.Name, candidates, &result, func(i int, _ candidate) (int, string) {
		label := labels[i]
		return int(label), label.String()
	})
	return result, err
}

// completeRows returns the rows with both text and rating, validating every rating.
func completeRows(ds domain.Dataset) ([]candidate, int, error) {
	candidates := make([]candidate, 0, len(ds.Records))
	dropped := 0
	for i, rec := range ds.Records {
		if !rec.Text.Valid || !rec.Rating.Valid {
			dropped++
			continue
		}
		if err := sentiment.ValidateRating(rec.Rating.Float64); err != nil {
			return nil, 0, fmt.Errorf("row %d: %w", i, err)
		}
		candidates = append(candidates, candidate{index: i, record: rec})
	}
	return candidates, dropped, nil
}

// build normalizes candidate texts and assembles the cleaned records in order.
func (p *Preparer) build(
	ctx context.Context,
	dataset string,
	candidates []candidate,
	result *Result,
	label func(i int, c candidate) (int, string),
) error {
	startTime := time.Now()

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.record.Text.String
	}

	cleaned, err := p.normalizer.NormalizeAll(ctx, texts)
	if err != nil {
		return fmt.Errorf("normalize %s: %w", dataset, err)
	}

	result.Records = make([]domain.CleanedRecord, len(candidates))
	result.LabelCounts = make(map[string]int)
	for i, c := range candidates {
		value, name := label(i, c)
		result.Records[i] = domain.CleanedRecord{
			Index:      c.index,
			Text:       cleaned[i],
			Rating:     c.record.Rating.Float64,
			Label:      value,
			LabelName:  name,
			Brand:      c.record.Brand,
			Categories: c.record.Categories,
		}
		result.LabelCounts[name]++
	}

	p.logger.Info("Prepared dataset",
		"dataset", dataset,
		"policy", string(result.Policy),
		"records", len(result.Records),
		"dropped", result.Dropped,
		"neutral_filtered", result.NeutralFiltered,
		"duration", time.Since(startTime),
	)
	return nil
}
