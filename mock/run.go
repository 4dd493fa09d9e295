package mock

import (
	"context"

	"github.com/fwojciec/sitesearch"
)

var _ sitesearch.RunService = (*RunService)(nil)

// RunService is a mock implementation of sitesearch.RunService.
type RunService struct {
	CreateRunFn func(ctx context.Context, run *sitesearch.Run) error
	FinishRunFn func(ctx context.Context, id string, upd sitesearch.RunUpdate) (*sitesearch.Run, error)
	FindRunsFn  func(ctx context.Context, filter sitesearch.RunFilter) ([]*sitesearch.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *sitesearch.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FinishRun(ctx context.Context, id string, upd sitesearch.RunUpdate) (*sitesearch.Run, error) {
	return s.FinishRunFn(ctx, id, upd)
}

func (s *RunService) FindRuns(ctx context.Context, filter sitesearch.RunFilter) ([]*sitesearch.Run, error) {
	return s.FindRunsFn(ctx, filter)
}
