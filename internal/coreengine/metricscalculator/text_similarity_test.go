package metricscalculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, TextSimilarity("", ""))
	assert.Equal(t, 1.0, TextSimilarity("same text", "same text"))
	assert.Equal(t, 0.0, TextSimilarity("something", ""))
	assert.Equal(t, 0.0, TextSimilarity("", "something"))

	// One substitution in a ten-rune string.
	assert.InDelta(t, 0.9, TextSimilarity("hello john", "hello joan"), 0.0001)

	// Unicode is compared per rune, not per byte.
	assert.Equal(t, 1.0, TextSimilarity("héllo", "héllo"))
	assert.InDelta(t, 0.8, TextSimilarity("héllo", "hallo"), 0.0001)

	// Completely different strings trend toward zero but never below it.
	low := TextSimilarity("abc", "xyzxyzxyz")
	assert.GreaterOrEqual(t, low, 0.0)
	assert.Less(t, low, 0.2)
}
