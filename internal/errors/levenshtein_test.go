package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("count", "count"))
	assert.Equal(t, 1, levenshteinDistance("count", "counts"))
	assert.Equal(t, 1, levenshteinDistance("cont", "count"))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
	assert.Equal(t, 5, levenshteinDistance("", "count"))
}

func TestSimilarNamesFiltersByDistanceAndLength(t *testing.T) {
	candidates := []string{"count", "counter", "total", "x", "cnt"}
	got := SimilarNames("coutn", candidates)
	assert.Contains(t, got, "count")
	assert.NotContains(t, got, "total", "total is too far from coutn to be a useful suggestion")
	assert.NotContains(t, got, "x", "single-character candidates are excluded as too noisy")
}

func TestSimilarNamesEmptyWhenNothingClose(t *testing.T) {
	assert.Empty(t, SimilarNames("zzz", []string{"count", "total"}))
}
