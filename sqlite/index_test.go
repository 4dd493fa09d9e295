package sqlite_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/sitesearch"
	"github.com/fwojciec/sitesearch/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addDocument(t *testing.T, svc *sqlite.IndexService, url, title, content string) *sitesearch.Document {
	t.Helper()
	doc := &sitesearch.Document{URL: url, Title: title, Content: content}
	require.NoError(t, svc.AddDocument(context.Background(), doc))
	return doc
}

func TestIndexService_AddDocument(t *testing.T) {
	t.Parallel()

	t.Run("assigns ID, hash and timestamp", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewIndexService(setupTestDB(t))
		doc := addDocument(t, svc, "https://example.test/a", "Go Guide", "go go fast")

		assert.NotZero(t, doc.ID)
		assert.Len(t, doc.ContentHash, 16)
		assert.False(t, doc.IndexedAt.IsZero())

		found, err := svc.FindDocumentByURL(context.Background(), doc.URL)
		require.NoError(t, err)
		assert.Equal(t, doc.ID, found.ID)
		assert.Equal(t, "Go Guide", found.Title)
		assert.Equal(t, "go go fast", found.Content)
		assert.Equal(t, doc.ContentHash, found.ContentHash)
	})

	t.Run("rejects document without title", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewIndexService(setupTestDB(t))
		err := svc.AddDocument(context.Background(), &sitesearch.Document{URL: "https://example.test/a"})

		require.Error(t, err)
		assert.Equal(t, sitesearch.EINVALID, sitesearch.ErrorCode(err))
	})

	t.Run("re-adding a URL keeps its ID and replaces postings", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewIndexService(setupTestDB(t))
		ctx := context.Background()
		first := addDocument(t, svc, "https://example.test/a", "Old", "stale words")
		second := addDocument(t, svc, "https://example.test/a", "New", "fresh words")

		assert.Equal(t, first.ID, second.ID)
		assert.NotEqual(t, first.ContentHash, second.ContentHash)

		n, err := svc.CountDocuments(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		vocab, err := svc.Vocabulary(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"fresh", "new", "words"}, vocab)
	})

	t.Run("identical re-add is a no-op", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewIndexService(setupTestDB(t))
		first := addDocument(t, svc, "https://example.test/a", "Same", "same body")
		second := addDocument(t, svc, "https://example.test/a", "Same", "same body")

		assert.Equal(t, first.ID, second.ID)
		assert.True(t, first.IndexedAt.Equal(second.IndexedAt))
	})

	t.Run("concurrent adds are all stored", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewIndexService(setupFileDB(t))
		ctx := context.Background()

		var wg sync.WaitGroup
		errs := make(chan error, 20)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- svc.AddDocument(ctx, &sitesearch.Document{
					URL:     fmt.Sprintf("https://example.test/%d", i),
					Title:   fmt.Sprintf("Page %d", i),
					Content: "shared content",
				})
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		n, err := svc.CountDocuments(ctx)
		require.NoError(t, err)
		assert.Equal(t, 20, n)
	})
}

func TestIndexService_FindDocumentByURL(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewIndexService(setupTestDB(t))
	_, err := svc.FindDocumentByURL(context.Background(), "https://example.test/missing")

	require.Error(t, err)
	assert.Equal(t, sitesearch.ENOTFOUND, sitesearch.ErrorCode(err))
}

func TestIndexService_Terms(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewIndexService(setupTestDB(t))
	addDocument(t, svc, "https://example.test/a", "Cat", "cats catalog dog")
	addDocument(t, svc, "https://example.test/b", "Car", "cart")

	tests := []struct {
		name   string
		prefix string
		want   []string
	}{
		{"all terms", "", []string{"car", "cart", "cat", "catalog", "cats", "dog"}},
		{"prefix", "cat", []string{"cat", "catalog", "cats"}},
		{"single letter", "d", []string{"dog"}},
		{"no match", "zebra", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := svc.Terms(context.Background(), tt.prefix)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndexService_View(t *testing.T) {
	t.Parallel()

	t.Run("exposes stats, postings and documents", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewIndexService(setupTestDB(t))
		doc := addDocument(t, svc, "https://example.test/a", "Go Guide", "go go fast")
		addDocument(t, svc, "https://example.test/b", "Rust", "fast code")

		err := svc.View(context.Background(), func(r sitesearch.IndexReader) error {
			ctx := context.Background()

			stats, err := r.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, stats.Documents)
			assert.InDelta(t, 1.5, stats.AvgLength[sitesearch.FieldTitle], 1e-9)
			assert.InDelta(t, 2.5, stats.AvgLength[sitesearch.FieldContent], 1e-9)

			postings, err := r.Postings(ctx, "go")
			require.NoError(t, err)
			assert.Equal(t, []sitesearch.Posting{
				{DocID: doc.ID, Field: sitesearch.FieldContent, Frequency: 2, Length: 3},
				{DocID: doc.ID, Field: sitesearch.FieldTitle, Frequency: 1, Length: 2},
			}, postings)

			found, err := r.FindDocumentByID(ctx, doc.ID)
			require.NoError(t, err)
			assert.Equal(t, doc.URL, found.URL)

			_, err = r.FindDocumentByID(ctx, 9999)
			assert.Equal(t, sitesearch.ENOTFOUND, sitesearch.ErrorCode(err))

			terms, err := r.Terms(ctx, "f")
			require.NoError(t, err)
			assert.Equal(t, []string{"fast"}, terms)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("empty index has zero stats", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewIndexService(setupTestDB(t))
		err := svc.View(context.Background(), func(r sitesearch.IndexReader) error {
			stats, err := r.Stats(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 0, stats.Documents)
			assert.Zero(t, stats.AvgLength[sitesearch.FieldContent])
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("returns the callback error", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewIndexService(setupTestDB(t))
		want := sitesearch.Errorf(sitesearch.EINTERNAL, "boom")
		err := svc.View(context.Background(), func(sitesearch.IndexReader) error { return want })
		assert.Equal(t, want, err)
	})

	t.Run("reads a stable snapshot during writes", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewIndexService(setupFileDB(t))
		addDocument(t, svc, "https://example.test/a", "First", "one")

		err := svc.View(context.Background(), func(r sitesearch.IndexReader) error {
			ctx := context.Background()
			before, err := r.Stats(ctx)
			require.NoError(t, err)

			addDocument(t, svc, "https://example.test/b", "Second", "two")

			after, err := r.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, before.Documents, after.Documents)

			postings, err := r.Postings(ctx, "second")
			require.NoError(t, err)
			assert.Empty(t, postings)
			return nil
		})
		require.NoError(t, err)

		n, err := svc.CountDocuments(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}
