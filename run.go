package sitesearch

import (
	"context"
	"time"
)

// Run records the history of one crawl.
type Run struct {
	ID         string     `json:"id"`
	SeedURL    string     `json:"seedUrl"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	Indexed    int        `json:"indexed"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.SeedURL == "" {
		return Errorf(EINVALID, "run seed URL required")
	}
	return nil
}

// RunService represents a service for recording crawl runs.
type RunService interface {
	// CreateRun records the start of a crawl.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun stores final counts and the finish time.
	// Returns ENOTFOUND if run does not exist.
	FinishRun(ctx context.Context, id string, upd RunUpdate) (*Run, error)

	// FindRuns retrieves runs, most recent first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}

// RunUpdate holds the final counts of a crawl.
type RunUpdate struct {
	Indexed int
	Skipped int
	Failed  int
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID *string `json:"id"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
