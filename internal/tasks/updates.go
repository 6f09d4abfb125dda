package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/mixster/internal/layout"
	"github.com/desertthunder/mixster/internal/models"
)

// ChannelReporter forwards snapshots to a channel without blocking.
//
// When the channel is full the snapshot is dropped; consumers only ever need the latest one.
type ChannelReporter struct {
	ch chan<- models.ExportProgress
}

func NewChannelReporter(ch chan<- models.ExportProgress) *ChannelReporter {
	return &ChannelReporter{ch: ch}
}

func (r *ChannelReporter) Report(_ context.Context, p models.ExportProgress) error {
	sendProgress(r.ch, p)
	return nil
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- models.ExportProgress, update models.ExportProgress) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// MultiReporter reports to every wrapped reporter, in order, and joins their errors.
type MultiReporter []ProgressReporter

func (m MultiReporter) Report(ctx context.Context, p models.ExportProgress) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Report(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MultiSignal requests a stop when any wrapped signal does.
//
// Read errors are joined and returned only when no signal asked to stop.
type MultiSignal []CancellationSignal

func (m MultiSignal) IsStopRequested(ctx context.Context, jobID string) (bool, error) {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		stop, err := s.IsStopRequested(ctx, jobID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if stop {
			return true, nil
		}
	}
	return false, errors.Join(errs...)
}

// tracker computes the page counter, completed fraction and ETA.
type tracker struct {
	jobID     string
	total     int
	done      int
	elapsed   time.Duration
	pageStart time.Time
	now       func() time.Time
}

func newTracker(jobID string, total int, now func() time.Time) *tracker {
	return &tracker{jobID: jobID, total: total, now: now, pageStart: now()}
}

// pageDone records the end of a page and starts timing the next.
func (t *tracker) pageDone() {
	end := t.now()
	t.elapsed += end.Sub(t.pageStart)
	t.pageStart = end
	t.done++
}

// eta is the mean page duration so far times the remaining pages.
func (t *tracker) eta() time.Duration {
	if t.done == 0 || t.done >= t.total {
		return 0
	}
	mean := t.elapsed / time.Duration(t.done)
	return mean * time.Duration(t.total-t.done)
}

func (t *tracker) fraction() float64 {
	if t.total == 0 {
		return 0
	}
	return 100 * float64(t.done) / float64(t.total)
}

func (t *tracker) snapshot(state models.JobState) models.ExportProgress {
	return models.ExportProgress{
		JobID:            t.jobID,
		State:            state,
		FractionComplete: t.fraction(),
		PagesDone:        t.done,
		PagesTotal:       t.total,
		ETA:              t.eta(),
	}
}

func pageDescription(kind layout.Kind, chunk, chunks int) string {
	switch kind {
	case layout.LabelPage:
		return fmt.Sprintf("Rendering labels for sheet %d/%d", chunk, chunks)
	case layout.CodePage:
		return fmt.Sprintf("Encoding codes for sheet %d/%d", chunk, chunks)
	default:
		return ""
	}
}
