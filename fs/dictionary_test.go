package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/sitesearch"
	"github.com/fwojciec/sitesearch/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDictionary(t *testing.T) {
	t.Parallel()

	t.Run("loads a word list", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "words.txt")
		require.NoError(t, os.WriteFile(path, []byte("# words\ndog\nCat\n\ncat\n"), 0644))

		dict, err := fs.LoadDictionary(path)
		require.NoError(t, err)
		assert.Equal(t, 2, dict.Len())

		terms, err := dict.Terms(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, []string{"cat", "dog"}, terms)
	})

	t.Run("returns ENOTFOUND for a missing file", func(t *testing.T) {
		t.Parallel()

		_, err := fs.LoadDictionary(filepath.Join(t.TempDir(), "missing.txt"))

		require.Error(t, err)
		assert.Equal(t, sitesearch.ENOTFOUND, sitesearch.ErrorCode(err))
	})
}
