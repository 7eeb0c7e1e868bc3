package prepare

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/review_sentiment/internal/adapters/logger"
	"github.com/baditaflorin/review_sentiment/internal/adapters/normalizer"
	"github.com/baditaflorin/review_sentiment/internal/adapters/stream"
	"github.com/baditaflorin/review_sentiment/internal/core/domain"
	"github.com/baditaflorin/review_sentiment/internal/core/sentiment"
)

func newPreparer(t *testing.T) *Preparer {
	t.Helper()
	cfg := stream.DefaultConfig()
	cfg.Workers = 2
	cfg.BatchSize = 2
	proc, err := stream.NewProcessor(logger.NewNopLogger(), normalizer.NewDefaultNormalizer(), cfg)
	require.NoError(t, err)
	return New(logger.NewNopLogger(), proc)
}

func record(text string, rating float64) domain.RawRecord {
	return domain.RawRecord{
		Text:   sql.NullString{String: text, Valid: true},
		Rating: sql.NullFloat64{Float64: rating, Valid: true},
		Brand:  "Amazon",
	}
}

func sampleDataset() domain.Dataset {
	return domain.Dataset{
		Name: "Amazon Product Reviews",
		Records: []domain.RawRecord{
			record("Great Product!! <b>Loved</b> it 100%", 5),
			record("Meh. It's OK", 3),
			{Rating: sql.NullFloat64{Float64: 4, Valid: true}},
			record("Broke after 2 days :(", 1),
			{Text: sql.NullString{String: "no rating", Valid: true}},
			record("   Works   FINE   ", 4),
			record("Not great", 2),
		},
	}
}

func TestPrepareThreeClass(t *testing.T) {
	res, err := newPreparer(t).PrepareThreeClass(context.Background(), sampleDataset())
	require.NoError(t, err)

	assert.Equal(t, sentiment.PolicyThreeClass, res.Policy)
	assert.Equal(t, 2, res.Dropped)
	assert.Zero(t, res.NeutralFiltered)
	require.Len(t, res.Records, 5)

	assert.Equal(t, domain.CleanedRecord{
		Index: 0, Text: "great product blovedb it", Rating: 5, Label: 2, LabelName: "positive", Brand: "Amazon",
	}, res.Records[0])
	assert.Equal(t, "meh its ok", res.Records[1].Text)
	assert.Equal(t, int(sentiment.Neutral), res.Records[1].Label)
	assert.Equal(t, 3, res.Records[2].Index)
	assert.Equal(t, "broke after days", res.Records[2].Text)
	assert.Equal(t, int(sentiment.Negative), res.Records[2].Label)
	assert.Equal(t, "works fine", res.Records[3].Text)

	assert.Equal(t, map[string]int{"positive": 2, "neutral": 1, "negative": 2}, res.LabelCounts)
}

func TestPrepareBinary(t *testing.T) {
	res, err := newPreparer(t).PrepareBinary(context.Background(), sampleDataset())
	require.NoError(t, err)

	assert.Equal(t, sentiment.PolicyBinary, res.Policy)
	assert.Equal(t, 2, res.Dropped)
	assert.Equal(t, 1, res.NeutralFiltered)
	require.Len(t, res.Records, 4)

	indexes := make([]int, len(res.Records))
	for i, r := range res.Records {
		indexes[i] = r.Index
		assert.NotEqual(t, 3.0, r.Rating)
	}
	assert.Equal(t, []int{0, 3, 5, 6}, indexes)
	assert.Equal(t, int(sentiment.BinaryPositive), res.Records[0].Label)
	assert.Equal(t, int(sentiment.BinaryNegative), res.Records[1].Label)
	assert.Equal(t, map[string]int{"positive": 2, "negative": 2}, res.LabelCounts)
}

func TestPrepareDispatch(t *testing.T) {
	p := newPreparer(t)

	res, err := p.Prepare(context.Background(), sampleDataset(), sentiment.PolicyBinary)
	require.NoError(t, err)
	assert.Len(t, res.Records, 4)

	_, err = p.Prepare(context.Background(), sampleDataset(), sentiment.Policy("five_class"))
	assert.ErrorIs(t, err, sentiment.ErrUnknownPolicy)
}

func TestPrepareRejectsOutOfRangeRating(t *testing.T) {
	ds := domain.Dataset{Records: []domain.RawRecord{record("fine", 5), record("too many stars", 6)}}

	_, err := newPreparer(t).PrepareThreeClass(context.Background(), ds)
	require.ErrorIs(t, err, sentiment.ErrRatingOutOfRange)
	assert.Contains(t, err.Error(), "row 1")
}

func TestPrepareLabelled(t *testing.T) {
	ds := domain.Dataset{
		Name: "IMDb Movie Reviews",
		Records: []domain.RawRecord{
			{Text: sql.NullString{String: "A <br />wonderful film", Valid: true}},
			{Text: sql.NullString{String: "Dull.", Valid: true}},
			{},
		},
		Labels: []sql.NullString{
			{String: "positive", Valid: true},
			{String: "Negative", Valid: true},
			{String: "positive", Valid: true},
		},
	}

	res, err := newPreparer(t).PrepareLabelled(context.Background(), ds)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, "a br wonderful film", res.Records[0].Text)
	assert.Equal(t, int(sentiment.BinaryPositive), res.Records[0].Label)
	assert.Equal(t, "dull", res.Records[1].Text)
	assert.Equal(t, int(sentiment.BinaryNegative), res.Records[1].Label)
}

func TestPrepareLabelledUnknownLabel(t *testing.T) {
	ds := domain.Dataset{
		Records: []domain.RawRecord{{Text: sql.NullString{String: "x", Valid: true}}},
		Labels:  []sql.NullString{{String: "mixed", Valid: true}},
	}
	_, err := newPreparer(t).PrepareLabelled(context.Background(), ds)
	assert.ErrorIs(t, err, ErrUnknownLabel)

	_, err = newPreparer(t).PrepareLabelled(context.Background(), domain.Dataset{Name: "no labels"})
	assert.Error(t, err)
}

type failingNormalizer struct{}

func (failingNormalizer) NormalizeAll(context.Context, []string) ([]string, error) {
	return nil, errors.New("boom")
}

func TestPrepareNormalizerError(t *testing.T) {
	p := New(logger.NewNopLogger(), failingNormalizer{})
	_, err := p.PrepareThreeClass(context.Background(), sampleDataset())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
