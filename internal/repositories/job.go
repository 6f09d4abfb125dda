package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/mixster/internal/models"
	"github.com/desertthunder/mixster/internal/shared"
)

const jobColumns = `
	id, playlist_name, style, output_path, track_count, state, stop_requested, error,
	fraction_complete, pages_done, pages_total, eta_seconds, current_title, current_artist, task_description,
	created_at, updated_at
`

// JobRepository implements [models.Repository] for [models.ExportJob] persistence.
type JobRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.ExportJob] = (*JobRepository)(nil)

// NewJobRepository creates a new [JobRepository] with the given database connection
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job, generating an ID when the job has none.
func (r *JobRepository) Create(job *models.ExportJob) error {
	if job.ID() == "" {
		job.SetID(shared.GenerateID())
	}
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	p := job.Progress()
	query := `INSERT INTO export_jobs (` + jobColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.Exec(query,
		job.ID(), job.PlaylistName(), job.Style(), job.OutputPath(), job.TrackCount(), job.State(),
		job.StopRequested(), job.Error(),
		p.FractionComplete, p.PagesDone, p.PagesTotal, int64(p.ETA/time.Second),
		p.CurrentTrackTitle, p.CurrentTrackArtist, p.TaskDescription,
		job.CreatedAt(), job.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// Get retrieves a job by ID.
func (r *JobRepository) Get(id string) (*models.ExportJob, error) {
	row := r.db.QueryRow(`SELECT `+jobColumns+` FROM export_jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrJobNotFound, id)
	}
	return job, err
}

// Update rewrites the job's descriptive fields, state and error message.
func (r *JobRepository) Update(job *models.ExportJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	job.SetUpdatedAt(now)

	query := `
		UPDATE export_jobs
		SET playlist_name = ?, style = ?, output_path = ?, track_count = ?, state = ?, stop_requested = ?, error = ?,
			updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.Exec(query,
		job.PlaylistName(), job.Style(), job.OutputPath(), job.TrackCount(), job.State(), job.StopRequested(),
		job.Error(), now, job.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	return r.expectOne(result, job.ID())
}

// Delete removes a job by ID.
func (r *JobRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM export_jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return r.expectOne(result, id)
}

// List retrieves jobs newest first.
//
// Supported criteria: "state" (string or [models.JobState]) and "limit" (int).
func (r *JobRepository) List(criteria map[string]any) ([]*models.ExportJob, error) {
	query := `SELECT ` + jobColumns + ` FROM export_jobs WHERE 1 = 1`
	args := []any{}

	switch state := criteria["state"].(type) {
	case string:
		if state != "" {
			query += " AND state = ?"
			args = append(args, state)
		}
	case models.JobState:
		if state != "" {
			query += " AND state = ?"
			args = append(args, string(state))
		}
	}

	query += " ORDER BY created_at DESC, id"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.ExportJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return jobs, nil
}

// UpdateProgress stores a progress snapshot and the state it carries.
func (r *JobRepository) UpdateProgress(ctx context.Context, p models.ExportProgress) error {
	if !p.State.Valid() {
		return fmt.Errorf("%w: unknown job state %q", shared.ErrInvalidInput, p.State)
	}

	query := `
		UPDATE export_jobs
		SET state = ?, fraction_complete = ?, pages_done = ?, pages_total = ?, eta_seconds = ?,
			current_title = ?, current_artist = ?, task_description = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		p.State, p.FractionComplete, p.PagesDone, p.PagesTotal, int64(p.ETA/time.Second),
		p.CurrentTrackTitle, p.CurrentTrackArtist, p.TaskDescription, time.Now().UTC(), p.JobID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job progress: %w", err)
	}
	return r.expectOne(result, p.JobID)
}

// RequestStop raises the stop flag of a job that has not finished yet.
func (r *JobRepository) RequestStop(ctx context.Context, id string) error {
	job, err := r.Get(id)
	if err != nil {
		return err
	}
	if job.State().IsTerminal() {
		return fmt.Errorf("%w: job %s is %s", shared.ErrJobFinished, id, job.State())
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE export_jobs SET stop_requested = 1, updated_at = ? WHERE id = ?`, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to request stop: %w", err)
	}
	return r.expectOne(result, id)
}

// IsStopRequested reads the stop flag.
func (r *JobRepository) IsStopRequested(ctx context.Context, id string) (bool, error) {
	var stop bool
	err := r.db.QueryRowContext(ctx, `SELECT stop_requested FROM export_jobs WHERE id = ?`, id).Scan(&stop)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("%w: %s", shared.ErrJobNotFound, id)
	}
	if err != nil {
		return false, fmt.Errorf("failed to read stop flag: %w", err)
	}
	return stop, nil
}

// SetOutcome records the terminal state and, for failures, the reason.
func (r *JobRepository) SetOutcome(ctx context.Context, id string, state models.JobState, reason string) error {
	if !state.IsTerminal() {
		return fmt.Errorf("%w: %q is not a terminal state", shared.ErrInvalidInput, state)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE export_jobs SET state = ?, error = ?, eta_seconds = 0, updated_at = ? WHERE id = ?`,
		state, reason, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to record job outcome: %w", err)
	}
	return r.expectOne(result, id)
}

func (r *JobRepository) expectOne(result sql.Result, id string) error {
	rows, err := affected(result)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrJobNotFound, id)
	}
	return nil
}

// scanJob scans a single export_jobs row selected with jobColumns.
func scanJob(s scanner) (*models.ExportJob, error) {
	var (
		id, playlistName, style, outputPath string
		trackCount                          int
		state                               string
		stopRequested                       bool
		errMsg                              string
		fraction                            float64
		pagesDone, pagesTotal               int
		etaSeconds                          int64
		title, artist, description          string
		createdAt, updatedAt                time.Time
	)

	err := s.Scan(
		&id, &playlistName, &style, &outputPath, &trackCount, &state, &stopRequested, &errMsg,
		&fraction, &pagesDone, &pagesTotal, &etaSeconds, &title, &artist, &description,
		&createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}

	progress := models.ExportProgress{
		JobID:              id,
		State:              models.JobState(state),
		FractionComplete:   fraction,
		PagesDone:          pagesDone,
		PagesTotal:         pagesTotal,
		ETA:                time.Duration(etaSeconds) * time.Second,
		CurrentTrackTitle:  title,
		CurrentTrackArtist: artist,
		TaskDescription:    description,
	}

	return models.RestoreExportJob(
		id, playlistName, style, outputPath, trackCount,
		models.JobState(state), stopRequested, errMsg, progress, createdAt, updatedAt,
	), nil
}
