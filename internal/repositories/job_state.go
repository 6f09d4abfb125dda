package repositories

import (
	"context"

	"github.com/desertthunder/mixster/internal/models"
)

// JobStateAdapter exposes a [JobRepository] as the stop signal and progress reporter of a running export.
type JobStateAdapter struct {
	repo *JobRepository
}

// NewJobStateAdapter creates a new JobStateAdapter with the given repository
func NewJobStateAdapter(repo *JobRepository) *JobStateAdapter {
	return &JobStateAdapter{repo: repo}
}

func (a *JobStateAdapter) IsStopRequested(ctx context.Context, jobID string) (bool, error) {
	return a.repo.IsStopRequested(ctx, jobID)
}

func (a *JobStateAdapter) Report(ctx context.Context, p models.ExportProgress) error {
	return a.repo.UpdateProgress(ctx, p)
}
