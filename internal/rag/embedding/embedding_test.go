package embedding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", CleanText("  a \n\n b\t\tc  "))

	long := strings.Repeat("x", 30005)
	cleaned := CleanText(long)
	assert.Equal(t, 30003, len(cleaned))
	assert.True(t, strings.HasSuffix(cleaned, "..."))

	exact := strings.Repeat("y", 30000)
	assert.Equal(t, exact, CleanText(exact))
}

func TestBatches(t *testing.T) {
	texts := make([]string, 250)
	batches := Batches(texts, 100)

	assert.Len(t, batches, 3)
	assert.Len(t, batches[0], 100)
	assert.Len(t, batches[2], 50)
	assert.Empty(t, Batches(nil, 100))
}
