package domain

import "database/sql"

// RawRecord is one review row as read from its source. Text and Rating may be missing.
type RawRecord struct {
	Text       sql.NullString
	Rating     sql.NullFloat64
	Brand      string
	Categories string
}

// CleanedRecord is a RawRecord after text normalization and sentiment binning.
type CleanedRecord struct {
	// Index is the position of the source row in its dataset.
	Index      int
	Text       string
	Rating     float64
	Label      int
	LabelName  string
	Brand      string
	Categories string
}

// Dataset is an ordered collection of raw records loaded from one source.
type Dataset struct {
	Name    string
	Records []RawRecord
	// Labels holds a pre-assigned sentiment column, for datasets that ship one
	// instead of a numeric rating. Same length as Records when present.
	Labels []sql.NullString
}

// HasLabels reports whether the dataset carries a pre-assigned label column.
func (d Dataset) HasLabels() bool {
	return len(d.Labels) > 0
}

// Stats holds the diagnostic summary of a dataset.
type Stats struct {
	Dataset            string
	TotalRows          int
	TextMissing        int
	RatingMissing      int
	UniqueRatings      []string
	RatingDistribution map[string]float64
	AvgWordCount       float64
	HasHTML            int
}
