package sitesearch

import (
	"context"
	"time"
)

// Field names a tokenized, searchable part of a document.
type Field string

// Indexed fields. The URL is stored verbatim and never tokenized.
const (
	FieldTitle   Field = "title"
	FieldContent Field = "content"
)

// SearchFields lists the tokenized fields in scoring order.
var SearchFields = []Field{FieldTitle, FieldContent}

// Document is the record stored for every indexed page.
// The URL is its unique key; re-adding a URL replaces the previous record.
type Document struct {
	ID          int64     `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHash string    `json:"contentHash"`
	IndexedAt   time.Time `json:"indexedAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.URL == "" {
		return Errorf(EINVALID, "document URL required")
	}
	if d.Title == "" {
		return Errorf(EINVALID, "document title required")
	}
	return nil
}

// Posting records how often a term occurs in one field of one document.
type Posting struct {
	DocID     int64
	Field     Field
	Frequency int

	// Length is the token count of the field in that document.
	Length int
}

// IndexStats holds the collection statistics used for relevance scoring.
type IndexStats struct {
	Documents int
	AvgLength map[Field]float64
}

// TermSource lists known terms starting with a prefix.
// An empty prefix lists every term.
type TermSource interface {
	Terms(ctx context.Context, prefix string) ([]string, error)
}

// IndexReader is a consistent read-only view of the index.
// Everything read through one reader reflects the same committed state.
type IndexReader interface {
	TermSource

	// Stats returns document count and average field lengths.
	Stats(ctx context.Context) (*IndexStats, error)

	// Postings returns every posting for term across all fields.
	Postings(ctx context.Context, term string) ([]Posting, error)

	// FindDocumentByID retrieves a document by internal ID.
	// Returns ENOTFOUND if the document does not exist.
	FindDocumentByID(ctx context.Context, id int64) (*Document, error)
}

// IndexService represents the persistent full-text index.
type IndexService interface {
	TermSource

	// AddDocument stores the document and its postings atomically.
	// Adding a URL again overwrites the previous record and postings.
	AddDocument(ctx context.Context, doc *Document) error

	// FindDocumentByURL retrieves a document by URL.
	// Returns ENOTFOUND if the document does not exist.
	FindDocumentByURL(ctx context.Context, url string) (*Document, error)

	// CountDocuments returns the number of indexed documents.
	CountDocuments(ctx context.Context) (int, error)

	// Vocabulary returns every distinct term of the tokenized fields.
	Vocabulary(ctx context.Context) ([]string, error)

	// View calls fn with a reader over a consistent snapshot of the index.
	View(ctx context.Context, fn func(r IndexReader) error) error
}
