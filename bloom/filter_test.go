package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/sitesearch/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndMaybeSeen(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.MaybeSeen("https://example.test/crawl/index.html"))

	f.Add("https://example.test/crawl/index.html")

	assert.True(t, f.MaybeSeen("https://example.test/crawl/index.html"))
	assert.False(t, f.MaybeSeen("https://example.test/crawl/about.html"))
}

func TestFilter_TestAndAdd(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.TestAndAdd("https://example.test/a"), "first add reports unseen")
	assert.True(t, f.TestAndAdd("https://example.test/a"), "second add reports seen")
	assert.True(t, f.MaybeSeen("https://example.test/a"))
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)
	for i := range numItems {
		f.Add(fmt.Sprintf("https://example.test/added/%d", i))
	}

	falsePositives := 0
	for i := range testProbes {
		if f.MaybeSeen(fmt.Sprintf("https://example.test/other/%d", i)) {
			falsePositives++
		}
	}

	// Allow up to 2% for statistical variance.
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}
