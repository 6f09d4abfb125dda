package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/mixster/internal/shared"
)

// JobState is the lifecycle state of an export job.
type JobState string

const (
	JobPending   JobState = "pending"
	JobRunning   JobState = "running"
	JobCompleted JobState = "completed"
	JobCancelled JobState = "cancelled"
	JobFailed    JobState = "failed"
)

// IsTerminal reports whether no further transitions are possible.
func (s JobState) IsTerminal() bool {
	switch s {
	case JobCompleted, JobCancelled, JobFailed:
		return true
	default:
		return false
	}
}

// Valid reports whether s is a known state.
func (s JobState) Valid() bool {
	switch s {
	case JobPending, JobRunning, JobCompleted, JobCancelled, JobFailed:
		return true
	default:
		return false
	}
}

func (s JobState) String() string { return string(s) }

// ExportProgress is the progress snapshot published after every page.
type ExportProgress struct {
	JobID              string        `json:"job_id"`
	State              JobState      `json:"state"`
	FractionComplete   float64       `json:"fraction_complete"` // 0-100
	PagesDone          int           `json:"pages_done"`
	PagesTotal         int           `json:"pages_total"`
	ETA                time.Duration `json:"eta"`
	CurrentTrackTitle  string        `json:"current_track_title,omitempty"`
	CurrentTrackArtist string        `json:"current_track_artist,omitempty"`
	TaskDescription    string        `json:"task_description,omitempty"`
}

// PagesLabel renders the page counter as "(done/total)".
func (p ExportProgress) PagesLabel() string {
	return fmt.Sprintf("(%d/%d)", p.PagesDone, p.PagesTotal)
}

// ETAString formats the remaining time as H:MM:SS.
func (p ExportProgress) ETAString() string {
	return FormatClock(p.ETA)
}

// FormatClock formats d rounded to the second as H:MM:SS.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

// ExportJob is the persisted record of one print export.
type ExportJob struct {
	id            string
	playlistName  string
	style         string
	outputPath    string
	trackCount    int
	state         JobState
	stopRequested bool
	errMsg        string
	progress      ExportProgress
	createdAt     time.Time
	updatedAt     time.Time
}

var _ Model = (*ExportJob)(nil)

// NewExportJob creates a pending job record. The ID is assigned by the repository when empty.
func NewExportJob(id, playlistName, style, outputPath string, trackCount int) *ExportJob {
	now := time.Now().UTC()
	return &ExportJob{
		id:           id,
		playlistName: playlistName,
		style:        style,
		outputPath:   outputPath,
		trackCount:   trackCount,
		state:        JobPending,
		createdAt:    now,
		updatedAt:    now,
	}
}

// RestoreExportJob rebuilds a record loaded from storage.
func RestoreExportJob(
	id, playlistName, style, outputPath string,
	trackCount int,
	state JobState,
	stopRequested bool,
	errMsg string,
	progress ExportProgress,
	createdAt, updatedAt time.Time,
) *ExportJob {
	return &ExportJob{
		id:            id,
		playlistName:  playlistName,
		style:         style,
		outputPath:    outputPath,
		trackCount:    trackCount,
		state:         state,
		stopRequested: stopRequested,
		errMsg:        errMsg,
		progress:      progress,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (j *ExportJob) ID() string               { return j.id }
func (j *ExportJob) PlaylistName() string     { return j.playlistName }
func (j *ExportJob) Style() string            { return j.style }
func (j *ExportJob) OutputPath() string       { return j.outputPath }
func (j *ExportJob) TrackCount() int          { return j.trackCount }
func (j *ExportJob) State() JobState          { return j.state }
func (j *ExportJob) StopRequested() bool      { return j.stopRequested }
func (j *ExportJob) Error() string            { return j.errMsg }
func (j *ExportJob) Progress() ExportProgress { return j.progress }
func (j *ExportJob) CreatedAt() time.Time     { return j.createdAt }
func (j *ExportJob) UpdatedAt() time.Time     { return j.updatedAt }
func (j *ExportJob) SetID(id string)          { j.id = id }
func (j *ExportJob) SetUpdatedAt(t time.Time) { j.updatedAt = t }
func (j *ExportJob) SetStopRequested(b bool)  { j.stopRequested = b }
func (j *ExportJob) SetError(msg string)      { j.errMsg = msg }

// SetProgress records a progress snapshot and adopts its state.
func (j *ExportJob) SetProgress(p ExportProgress) {
	j.progress = p
	if p.State != "" {
		j.state = p.State
	}
}

// Validate checks required fields and the state value.
func (j *ExportJob) Validate() error {
	if j.id == "" {
		return fmt.Errorf("%w: job id is required", shared.ErrInvalidInput)
	}
	if j.style == "" {
		return fmt.Errorf("%w: job style is required", shared.ErrInvalidInput)
	}
	if j.outputPath == "" {
		return fmt.Errorf("%w: job output path is required", shared.ErrInvalidInput)
	}
	if !j.state.Valid() {
		return fmt.Errorf("%w: unknown job state %q", shared.ErrInvalidInput, j.state)
	}
	return nil
}
