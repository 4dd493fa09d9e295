package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitesearch"
)

// Compile-time interface verification.
var (
	_ sitesearch.IndexService = (*IndexService)(nil)
	_ sitesearch.IndexReader  = (*indexReader)(nil)
)

// IndexService implements sitesearch.IndexService using SQLite.
type IndexService struct {
	db *DB
}

// NewIndexService creates a new IndexService.
func NewIndexService(db *DB) *IndexService {
	return &IndexService{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// hashContent computes the xxHash of a document's title and content as hex.
func hashContent(title, content string) string {
	d := xxhash.New()
	_, _ = d.WriteString(title)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(content)
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, d.Sum64())
	return hex.EncodeToString(b)
}

// termCounts counts term occurrences in a token list.
func termCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

// AddDocument validates doc, then upserts it keyed by URL and replaces its
// postings in a single transaction. The internal ID of an existing URL is
// kept. Re-adding unchanged title and content only refreshes doc from the
// stored record.
func (s *IndexService) AddDocument(ctx context.Context, doc *sitesearch.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	titleTokens := sitesearch.Tokenize(doc.Title)
	contentTokens := sitesearch.Tokenize(doc.Content)
	hash := hashContent(doc.Title, doc.Content)

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var existingID int64
	var existingHash, existingIndexedAt string
	err = tx.QueryRowContext(ctx,
		"SELECT id, content_hash, indexed_at FROM documents WHERE url = ?", doc.URL,
	).Scan(&existingID, &existingHash, &existingIndexedAt)
	switch {
	case err == nil && existingHash == hash:
		indexedAt, err := parseRFC3339(existingIndexedAt, "indexed_at")
		if err != nil {
			return err
		}
		doc.ID, doc.ContentHash, doc.IndexedAt = existingID, hash, indexedAt
		return nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return err
	}

	indexedAt := time.Now().UTC()
	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO documents (url, title, content, content_hash, title_length, content_length, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			content_hash = excluded.content_hash,
			title_length = excluded.title_length,
			content_length = excluded.content_length,
			indexed_at = excluded.indexed_at
		RETURNING id
	`, doc.URL, doc.Title, doc.Content, hash, len(titleTokens), len(contentTokens), formatTime(indexedAt),
	).Scan(&id)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM postings WHERE doc_id = ?", id); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO postings (term, field, doc_id, frequency) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	fields := []struct {
		field  sitesearch.Field
		tokens []string
	}{
		{sitesearch.FieldTitle, titleTokens},
		{sitesearch.FieldContent, contentTokens},
	}
	for _, f := range fields {
		for term, freq := range termCounts(f.tokens) {
			if _, err := stmt.ExecContext(ctx, term, string(f.field), id, freq); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	doc.ID, doc.ContentHash, doc.IndexedAt = id, hash, indexedAt
	return nil
}

// FindDocumentByURL retrieves a document by URL.
func (s *IndexService) FindDocumentByURL(ctx context.Context, url string) (*sitesearch.Document, error) {
	return findDocument(ctx, s.db.db, "url = ?", url)
}

// CountDocuments returns the number of indexed documents.
func (s *IndexService) CountDocuments(ctx context.Context) (int, error) {
	var n int
	err := s.db.reader.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n)
	return n, err
}

// Vocabulary returns every distinct indexed term in sorted order.
func (s *IndexService) Vocabulary(ctx context.Context) ([]string, error) {
	return findTerms(ctx, s.db.reader, "")
}

// Terms returns the distinct indexed terms starting with prefix, sorted.
func (s *IndexService) Terms(ctx context.Context, prefix string) ([]string, error) {
	return findTerms(ctx, s.db.reader, prefix)
}

// View runs fn against a read-only snapshot of the index. Documents added
// while fn runs are not visible to it.
func (s *IndexService) View(ctx context.Context, fn func(r sitesearch.IndexReader) error) error {
	tx, err := s.db.BeginReadTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	return fn(&indexReader{tx: tx})
}

// indexReader reads the index through one read transaction.
type indexReader struct {
	tx *sql.Tx
}

func (r *indexReader) Terms(ctx context.Context, prefix string) ([]string, error) {
	return findTerms(ctx, r.tx, prefix)
}

func (r *indexReader) Stats(ctx context.Context) (*sitesearch.IndexStats, error) {
	var n int
	var avgTitle, avgContent float64
	err := r.tx.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(AVG(title_length), 0), COALESCE(AVG(content_length), 0)
		FROM documents
	`).Scan(&n, &avgTitle, &avgContent)
	if err != nil {
		return nil, err
	}
	return &sitesearch.IndexStats{
		Documents: n,
		AvgLength: map[sitesearch.Field]float64{
			sitesearch.FieldTitle:   avgTitle,
			sitesearch.FieldContent: avgContent,
		},
	}, nil
}

func (r *indexReader) Postings(ctx context.Context, term string) ([]sitesearch.Posting, error) {
	rows, err := r.tx.QueryContext(ctx, `
		SELECT p.doc_id, p.field, p.frequency,
			CASE p.field WHEN 'title' THEN d.title_length ELSE d.content_length END
		FROM postings p
		JOIN documents d ON d.id = p.doc_id
		WHERE p.term = ?
		ORDER BY p.doc_id, p.field
	`, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var postings []sitesearch.Posting
	for rows.Next() {
		var p sitesearch.Posting
		var field string
		if err := rows.Scan(&p.DocID, &field, &p.Frequency, &p.Length); err != nil {
			return nil, err
		}
		p.Field = sitesearch.Field(field)
		postings = append(postings, p)
	}
	return postings, rows.Err()
}

func (r *indexReader) FindDocumentByID(ctx context.Context, id int64) (*sitesearch.Document, error) {
	return findDocument(ctx, r.tx, "id = ?", id)
}

// findTerms lists distinct terms with the given prefix using an index range scan.
func findTerms(ctx context.Context, q querier, prefix string) ([]string, error) {
	query := "SELECT DISTINCT term FROM postings"
	var args []any
	if prefix != "" {
		query += " WHERE term >= ?"
		args = append(args, prefix)
		if upper := prefixUpperBound(prefix); upper != "" {
			query += " AND term < ?"
			args = append(args, upper)
		}
	}
	query += " ORDER BY term"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	terms := []string{}
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

func findDocument(ctx context.Context, q querier, where string, arg any) (*sitesearch.Document, error) {
	var doc sitesearch.Document
	var indexedAt string

	err := q.QueryRowContext(ctx, `
		SELECT id, url, title, content, content_hash, indexed_at
		FROM documents
		WHERE `+where, arg,
	).Scan(&doc.ID, &doc.URL, &doc.Title, &doc.Content, &doc.ContentHash, &indexedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sitesearch.Errorf(sitesearch.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, err
	}

	doc.IndexedAt, err = parseRFC3339(indexedAt, "indexed_at")
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
