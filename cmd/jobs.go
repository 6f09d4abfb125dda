package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/mixster/internal/formatter"
	"github.com/desertthunder/mixster/internal/layout"
	"github.com/desertthunder/mixster/internal/models"
	"github.com/desertthunder/mixster/internal/shared"
	"github.com/desertthunder/mixster/internal/ui"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

// jobView is the JSON shape of a job record.
type jobView struct {
	ID            string                `json:"id"`
	Playlist      string                `json:"playlist"`
	Style         string                `json:"style"`
	OutputPath    string                `json:"output_path"`
	Tracks        int                   `json:"tracks"`
	State         models.JobState       `json:"state"`
	StopRequested bool                  `json:"stop_requested"`
	Error         string                `json:"error,omitempty"`
	Progress      models.ExportProgress `json:"progress"`
	CreatedAt     string                `json:"created_at"`
}

func newJobView(job *models.ExportJob) jobView {
	return jobView{
		ID:            job.ID(),
		Playlist:      job.PlaylistName(),
		Style:         job.Style(),
		OutputPath:    job.OutputPath(),
		Tracks:        job.TrackCount(),
		State:         job.State(),
		StopRequested: job.StopRequested(),
		Error:         job.Error(),
		Progress:      job.Progress(),
		CreatedAt:     job.CreatedAt().Format("2006-01-02 15:04:05"),
	}
}

func jobIDArg(cmd *cli.Command) (string, error) {
	id := cmd.StringArg("job-id")
	if id == "" {
		return "", fmt.Errorf("%w: JOB_ID is required", shared.ErrMissingArgument)
	}
	return id, nil
}

// Stop raises the stop flag of a job. The running export notices it before its next track.
func (r *Runner) Stop(ctx context.Context, cmd *cli.Command) error {
	id, err := jobIDArg(cmd)
	if err != nil {
		return err
	}

	repo, err := r.jobStore()
	if err != nil {
		return err
	}

	if err := repo.RequestStop(ctx, id); err != nil {
		if errors.Is(err, shared.ErrJobFinished) {
			r.logger.Warn("job already finished", "job_id", id)
			return r.writePlain("Job %s has already finished\n", id)
		}
		return fmt.Errorf("failed to stop job: %w", err)
	}

	r.logger.Info("stop requested", "job_id", id)
	return r.writePlain("Stop requested for job %s\n", id)
}

// Status prints the latest progress of a job.
//
// With --watch it polls the job store at the configured interval until the job reaches a
// terminal state, printing each new snapshot.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	id, err := jobIDArg(cmd)
	if err != nil {
		return err
	}
	asJSON := cmd.Bool("json")

	repo, err := r.jobStore()
	if err != nil {
		return err
	}

	job, err := repo.Get(id)
	if err != nil {
		return err
	}
	if err := r.printStatus(job, asJSON); err != nil {
		return err
	}

	if !cmd.Bool("watch") {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := rate.NewLimiter(rate.Every(r.config.Status.PollInterval()), 1)
	last := job.Progress()
	for !job.State().IsTerminal() {
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("rate limiter error: %w", err)
		}

		if job, err = repo.Get(id); err != nil {
			return err
		}
		if p := job.Progress(); p != last || job.State().IsTerminal() {
			last = p
			if err := r.printStatus(job, asJSON); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Runner) printStatus(job *models.ExportJob, asJSON bool) error {
	p := job.Progress()
	if asJSON {
		return formatter.WriteProgressJSON(r.output, p)
	}

	r.writePlain("%s %s %3.0f%% %s ETA %s\n", job.ID(), ui.StateLabel(string(job.State())), p.FractionComplete, p.PagesLabel(), p.ETAString())
	if p.TaskDescription != "" {
		r.writePlain("  %s\n", p.TaskDescription)
	}
	if p.CurrentTrackTitle != "" {
		r.writePlain("  \"%s\" by %s\n", p.CurrentTrackTitle, p.CurrentTrackArtist)
	}
	if job.StopRequested() && !job.State().IsTerminal() {
		r.writePlain("  stop requested\n")
	}
	if msg := job.Error(); msg != "" {
		return r.writePlain("  error: %s\n", msg)
	}
	return nil
}

// Jobs lists recent exports, newest first.
func (r *Runner) Jobs(ctx context.Context, cmd *cli.Command) error {
	criteria := map[string]any{"limit": int(cmd.Int("limit"))}
	if s := cmd.String("state"); s != "" {
		state := models.JobState(s)
		if !state.Valid() {
			return fmt.Errorf("%w: unknown state %q", shared.ErrInvalidArgument, s)
		}
		criteria["state"] = state
	}

	repo, err := r.jobStore()
	if err != nil {
		return err
	}

	jobs, err := repo.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		views := make([]jobView, len(jobs))
		for i, job := range jobs {
			views[i] = newJobView(job)
		}
		return r.writeJSON(views, true)
	}

	if len(jobs) == 0 {
		return r.writePlain("No export jobs found\n")
	}

	r.writePlainHeader(fmt.Sprintf("Export jobs (%d)", len(jobs)))
	for _, job := range jobs {
		p := job.Progress()
		r.writePlain("%s  %-9s  %3.0f%%  %-20s  %s\n",
			job.ID(), ui.StateLabel(string(job.State())), p.FractionComplete, job.PlaylistName(), job.OutputPath(),
		)
	}
	return nil
}

// Styles lists the layout presets.
func (r *Runner) Styles(ctx context.Context, cmd *cli.Command) error {
	styles := layout.Presets()
	if cmd.Bool("json") {
		return r.writeJSON(styles, true)
	}

	r.writePlainHeader("Layout styles")
	for _, s := range styles {
		r.writePlain("%-8s %d×%d cards of %.0f×%.0fmm, %d per page\n",
			s.Name, s.CardsPerRow, s.CardsPerColumn, s.CardWidth, s.CardHeight, s.Capacity(),
		)
	}
	return nil
}
