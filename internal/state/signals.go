package state

import (
	"context"
	"errors"

	"github.com/desertthunder/mixster/internal/models"
	"github.com/desertthunder/mixster/internal/shared"
)

var (
	StopKey     = NewKey[bool]("stop")
	ProgressKey = NewKey[models.ExportProgress]("progress")
)

// Signals exposes a job's stop flag and progress through a [Store].
//
// It satisfies both the cancellation signal and the progress reporter expected by the export job.
type Signals struct {
	store *Store
}

func NewSignals(store *Store) *Signals {
	if store == nil {
		store = NewStore()
	}
	return &Signals{store: store}
}

// RequestStop raises the stop flag for jobID.
func (s *Signals) RequestStop(jobID string) {
	Set(s.store, jobID, StopKey, true)
}

// IsStopRequested reports whether the stop flag for jobID is set. An absent flag means no.
func (s *Signals) IsStopRequested(_ context.Context, jobID string) (bool, error) {
	stop, err := Get(s.store, jobID, StopKey)
	if errors.Is(err, shared.ErrKeyNotFound) {
		return false, nil
	}
	return stop, err
}

// Report records p as the latest snapshot for its job.
func (s *Signals) Report(_ context.Context, p models.ExportProgress) error {
	Set(s.store, p.JobID, ProgressKey, p)
	return nil
}

// Progress returns the latest snapshot reported for jobID.
func (s *Signals) Progress(jobID string) (models.ExportProgress, error) {
	return Get(s.store, jobID, ProgressKey)
}

// Forget clears everything recorded for jobID.
func (s *Signals) Forget(jobID string) {
	s.store.Clear(jobID)
}
