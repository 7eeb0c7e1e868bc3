package eda

import (
	"bytes"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/review_sentiment/internal/core/domain"
)

func text(s string) sql.NullString    { return sql.NullString{String: s, Valid: true} }
func rating(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }

func TestInspectRatings(t *testing.T) {
	ds := domain.Dataset{
		Name: "Amazon Product Reviews",
		Records: []domain.RawRecord{
			{Text: text("Great <b>product</b>"), Rating: rating(5)},
			{Text: text("bad one here"), Rating: rating(1)},
			{Text: text("fine"), Rating: rating(5)},
			{Rating: rating(3)},
			{Text: text("no rating at all now")},
		},
	}

	stats := Inspect(ds)
	assert.Equal(t, "Amazon Product Reviews", stats.Dataset)
	assert.Equal(t, 5, stats.TotalRows)
	assert.Equal(t, 1, stats.TextMissing)
	assert.Equal(t, 1, stats.RatingMissing)
	assert.Equal(t, []string{"1", "3", "5"}, stats.UniqueRatings)
	assert.InDelta(t, 0.5, stats.RatingDistribution["5"], 1e-9)
	assert.InDelta(t, 0.25, stats.RatingDistribution["1"], 1e-9)
	assert.InDelta(t, 0.25, stats.RatingDistribution["3"], 1e-9)
	// word counts 2, 3, 1, 5
	assert.InDelta(t, 2.75, stats.AvgWordCount, 1e-9)
	assert.Equal(t, 1, stats.HasHTML)
}

func TestInspectLabels(t *testing.T) {
	ds := domain.Dataset{
		Name: "IMDb Movie Reviews",
		Records: []domain.RawRecord{
			{Text: text("a<br />b")},
			{Text: text("c")},
			{Text: text("d")},
		},
		Labels: []sql.NullString{
			{String: "positive", Valid: true},
			{String: "negative", Valid: true},
			{},
		},
	}

	stats := Inspect(ds)
	assert.Equal(t, 1, stats.RatingMissing)
	assert.Equal(t, []string{"negative", "positive"}, stats.UniqueRatings)
	assert.InDelta(t, 0.5, stats.RatingDistribution["positive"], 1e-9)
	assert.Equal(t, 1, stats.HasHTML)
}

func TestInspectEmpty(t *testing.T) {
	stats := Inspect(domain.Dataset{Name: "empty"})
	assert.Zero(t, stats.TotalRows)
	assert.Zero(t, stats.AvgWordCount)
	assert.Empty(t, stats.RatingDistribution)
}

func TestHTMLTagDoesNotSpanLines(t *testing.T) {
	stats := Inspect(domain.Dataset{Records: []domain.RawRecord{{Text: text("a < b\n c > d")}}})
	assert.Zero(t, stats.HasHTML)
}

func TestWriteReport(t *testing.T) {
	stats := domain.Stats{
		Dataset:            "IMDb Movie Reviews",
		TotalRows:          2,
		UniqueRatings:      []string{"negative", "positive"},
		RatingDistribution: map[string]float64{"negative": 0.5, "positive": 0.5},
		AvgWordCount:       3,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, stats))
	out := buf.String()
	assert.Contains(t, out, "IMDb Movie Reviews:")
	assert.Contains(t, out, "  Total Rows: 2\n")
	assert.Contains(t, out, "{negative: 0.5000, positive: 0.5000}")
	assert.Contains(t, out, "Avg Word Count: 3.00")
}
