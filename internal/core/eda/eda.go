// Package eda computes diagnostic statistics over raw review datasets.
package eda

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/baditaflorin/review_sentiment/internal/core/domain"
)

var htmlTag = regexp.MustCompile(`<.*?>`)

// Inspect summarizes a dataset. For datasets with a label column the label
// stands in for the rating in the missing count, unique values and distribution.
func Inspect(ds domain.Dataset) domain.Stats {
	stats := domain.Stats{
		Dataset:            ds.Name,
		TotalRows:          len(ds.Records),
		RatingDistribution: make(map[string]float64),
	}

	var wordCounts []float64
	for _, rec := range ds.Records {
		if !rec.Text.Valid {
			stats.TextMissing++
			continue
		}
		wordCounts = append(wordCounts, float64(len(strings.Fields(rec.Text.String))))
		if htmlTag.MatchString(rec.Text.String) {
			stats.HasHTML++
		}
	}
	if len(wordCounts) > 0 {
		stats.AvgWordCount = stat.Mean(wordCounts, nil)
	}

	counts := make(map[string]int)
	present := 0
	if ds.HasLabels() {
		for _, label := range ds.Labels {
			if !label.Valid {
				stats.RatingMissing++
				continue
			}
			counts[label.String]++
			present++
		}
		for value := range counts {
			stats.UniqueRatings = append(stats.UniqueRatings, value)
		}
		sort.Strings(stats.UniqueRatings)
	} else {
		numeric := make(map[float64]struct{})
		for _, rec := range ds.Records {
			if !rec.Rating.Valid {
				stats.RatingMissing++
				continue
			}
			numeric[rec.Rating.Float64] = struct{}{}
			counts[formatRating(rec.Rating.Float64)]++
			present++
		}
		values := make([]float64, 0, len(numeric))
		for v := range numeric {
			values = append(values, v)
		}
		sort.Float64s(values)
		for _, v := range values {
			stats.UniqueRatings = append(stats.UniqueRatings, formatRating(v))
		}
	}

	for value, n := range counts {
		stats.RatingDistribution[value] = float64(n) / float64(present)
	}
	return stats
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteReport prints stats in the dataset comparison layout.
func WriteReport(w io.Writer, stats domain.Stats) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s:\n", stats.Dataset)
	fmt.Fprintf(&sb, "  Total Rows: %d\n", stats.TotalRows)
	fmt.Fprintf(&sb, "  Text Missing: %d\n", stats.TextMissing)
	fmt.Fprintf(&sb, "  Rating Missing: %d\n", stats.RatingMissing)
	fmt.Fprintf(&sb, "  Unique Ratings: [%s]\n", strings.Join(stats.UniqueRatings, ", "))

	dist := make([]string, 0, len(stats.UniqueRatings))
	for _, value := range stats.UniqueRatings {
		dist = append(dist, fmt.Sprintf("%s: %.4f", value, stats.RatingDistribution[value]))
	}
	fmt.Fprintf(&sb, "  Rating Distribution: {%s}\n", strings.Join(dist, ", "))
	fmt.Fprintf(&sb, "  Avg Word Count: %.2f\n", stats.AvgWordCount)
	fmt.Fprintf(&sb, "  Has HTML: %d\n", stats.HasHTML)

	_, err := io.WriteString(w, sb.String())
	return err
}
