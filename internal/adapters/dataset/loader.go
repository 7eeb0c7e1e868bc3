// Package dataset loads review datasets from delimited files.
package dataset

import (
	"bufio"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/baditaflorin/review_sentiment/internal/core/domain"
)

var (
	// ErrSourceNotFound is returned when the dataset file does not exist.
	ErrSourceNotFound = errors.New("dataset file not found")
	// ErrMissingColumn is returned when a schema column is absent from the header.
	ErrMissingColumn = errors.New("missing column")
	// ErrMalformedRating is returned when a rating cell is not numeric.
	ErrMalformedRating = errors.New("malformed rating")
)

// Schema names the columns of a dataset file. Empty names are not read.
type Schema struct {
	Name             string
	TextColumn       string
	RatingColumn     string
	LabelColumn      string
	BrandColumn      string
	CategoriesColumn string
}

// AmazonSchema describes the Amazon product reviews export.
var AmazonSchema = Schema{
	Name:             "Amazon Product Reviews",
	TextColumn:       "reviews.text",
	RatingColumn:     "reviews.rating",
	BrandColumn:      "brand",
	CategoriesColumn: "categories",
}

// IMDbSchema describes the IMDb movie reviews file, which carries a
// positive/negative label instead of a star rating.
var IMDbSchema = Schema{
	Name:        "IMDb Movie Reviews",
	TextColumn:  "review",
	LabelColumn: "sentiment",
}

// Validate checks that the schema names the columns a loader needs.
func (s Schema) Validate() error {
	if s.TextColumn == "" {
		return errors.New("schema needs a text column")
	}
	if s.RatingColumn == "" && s.LabelColumn == "" {
		return errors.New("schema needs a rating or label column")
	}
	return nil
}

// missingMarkers are cell values read as missing, matching the usual CSV export conventions.
var missingMarkers = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func isMissing(cell string) bool {
	_, ok := missingMarkers[strings.TrimSpace(cell)]
	return ok
}

// LoadCSV reads the dataset at path using schema.
func LoadCSV(path string, schema Schema) (domain.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Dataset{}, fmt.Errorf("%w: %s (%s)", ErrSourceNotFound, path, schema.Name)
		}
		return domain.Dataset{}, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer file.Close()

	return Read(bufio.NewReaderSize(file, 1<<20), schema)
}

// Read parses a dataset with a header row from r.
func Read(r io.Reader, schema Schema) (domain.Dataset, error) {
	if err := schema.Validate(); err != nil {
		return domain.Dataset{}, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return domain.Dataset{}, fmt.Errorf("read header: empty file")
	}
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}

	column := func(name string, required bool) (int, error) {
		if name == "" {
			return -1, nil
		}
		i, ok := index[name]
		if !ok && required {
			return -1, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		if !ok {
			return -1, nil
		}
		return i, nil
	}

	textIdx, err := column(schema.TextColumn, true)
	if err != nil {
		return domain.Dataset{}, err
	}
	ratingIdx, err := column(schema.RatingColumn, true)
	if err != nil {
		return domain.Dataset{}, err
	}
	labelIdx, err := column(schema.LabelColumn, true)
	if err != nil {
		return domain.Dataset{}, err
	}
	brandIdx, _ := column(schema.BrandColumn, false)
	categoriesIdx, _ := column(schema.CategoriesColumn, false)

	ds := domain.Dataset{Name: schema.Name}
	row := 1 // header
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("read row %d: %w", row, err)
		}

		cell := func(i int) (string, bool) {
			if i < 0 || i >= len(record) || isMissing(record[i]) {
				return "", false
			}
			return record[i], true
		}

		var raw domain.RawRecord
		if text, ok := cell(textIdx); ok {
			raw.Text = sql.NullString{String: text, Valid: true}
		}
		if ratingIdx >= 0 {
			if v, ok := cell(ratingIdx); ok {
				rating, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
				if err != nil {
					return domain.Dataset{}, fmt.Errorf("row %d: %w: %q", row, ErrMalformedRating, v)
				}
				raw.Rating = sql.NullFloat64{Float64: rating, Valid: true}
			}
		}
		raw.Brand, _ = cell(brandIdx)
		raw.Categories, _ = cell(categoriesIdx)
		ds.Records = append(ds.Records, raw)

		if labelIdx >= 0 {
			label, ok := cell(labelIdx)
			ds.Labels = append(ds.Labels, sql.NullString{String: strings.TrimSpace(label), Valid: ok})
		}
	}

	return ds, nil
}
