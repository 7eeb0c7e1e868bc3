package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/review_sentiment/internal/config"
)

func TestRunReportsMissingFiles(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	var out bytes.Buffer
	require.NoError(t, run(cfg, &out))
	assert.Equal(t, "Dataset Comparison:\nAmazon file not found.\nIMDb file not found.\n", out.String())
}

func TestRunInspectsDatasets(t *testing.T) {
	dir := t.TempDir()
	amazon := "reviews.rating,reviews.text\n5,Great <b>value</b>\n1,Bad\n5,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "amazon_reviews.csv"), []byte(amazon), 0o644))

	cfg := config.DefaultConfig()
	cfg.DataDir = dir

	var out bytes.Buffer
	require.NoError(t, run(cfg, &out))

	report := out.String()
	assert.Contains(t, report, "Amazon Product Reviews:")
	assert.Contains(t, report, "Total Rows: 3")
	assert.Contains(t, report, "Text Missing: 1")
	assert.Contains(t, report, "Has HTML: 1")
	assert.Contains(t, report, "IMDb file not found.")
}

func TestRunMalformedDataset(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "amazon_reviews.csv"), []byte("reviews.text\nhello\n"), 0o644))

	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	assert.ErrorContains(t, run(cfg, &bytes.Buffer{}), "Amazon")
}
