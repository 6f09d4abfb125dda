package tasks

import (
	"context"
	"image"

	"github.com/desertthunder/mixster/internal/models"
)

// LabelRenderer draws the label card for one track.
type LabelRenderer interface {
	Render(track models.Track) (image.Image, error)
}

// CodeEncoder draws the scannable code card for a URL.
type CodeEncoder interface {
	Encode(url string) (image.Image, error)
}

// CancellationSignal answers whether a stop was requested for a job.
type CancellationSignal interface {
	IsStopRequested(ctx context.Context, jobID string) (bool, error)
}

// ProgressReporter receives progress snapshots.
type ProgressReporter interface {
	Report(ctx context.Context, p models.ExportProgress) error
}

// Result is the outcome of [ExportJob.Run].
type Result struct {
	JobID      string          `json:"job_id"`
	State      models.JobState `json:"state"`
	OutputPath string          `json:"output_path,omitempty"` // Set when completed
	Reason     string          `json:"reason,omitempty"`      // Set when failed
	Pages      int             `json:"pages"`
	Tracks     int             `json:"tracks"`
}

// Message is a one line human readable summary of the outcome.
func (r Result) Message() string {
	switch r.State {
	case models.JobCompleted:
		return "Export completed: " + r.OutputPath
	case models.JobCancelled:
		return "Export cancelled"
	case models.JobFailed:
		return "Export failed: " + r.Reason
	default:
		return "Export " + r.State.String()
	}
}
