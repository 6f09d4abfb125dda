package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/desertthunder/mixster/internal/formatter"
	"github.com/desertthunder/mixster/internal/layout"
	"github.com/desertthunder/mixster/internal/models"
	"github.com/desertthunder/mixster/internal/render"
	"github.com/desertthunder/mixster/internal/repositories"
	"github.com/desertthunder/mixster/internal/shared"
	"github.com/desertthunder/mixster/internal/tasks"
	"github.com/desertthunder/mixster/internal/ui"
	"github.com/urfave/cli/v3"
)

// exportPlan is an export request with flags resolved against the config.
type exportPlan struct {
	jobID   string
	export  *models.PlaylistExport
	style   string
	pages   int
	output  string
	font    string
	workers int
}

// reporterFunc adapts a function to [tasks.ProgressReporter].
type reporterFunc func(ctx context.Context, p models.ExportProgress) error

func (f reporterFunc) Report(ctx context.Context, p models.ExportProgress) error { return f(ctx, p) }

// Export renders a track list into a PDF, recording the job in the job store.
//
// The outcome is printed as one of three messages; a failed export also returns an error.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	plan, err := r.planExport(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("dry-run") {
		r.writePlainHeader(plan.export.Playlist.Name)
		r.writePlain("%s", formatter.ExportToText(plan.export, plan.style, plan.pages))
		return r.writePlain("Output: %s\n", plan.output)
	}

	repo, err := r.jobStore()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	run := r.exportRunner(repo, plan)

	var result *tasks.Result
	if cmd.Bool("tui") {
		result, err = r.exportTUI(ctx, plan, run)
	} else {
		var res tasks.Result
		res, err = run(ctx, r.progressPrinter(cmd.Bool("json")))
		result = &res
	}
	if err != nil {
		return err
	}
	if result == nil {
		r.logger.Info("export not started", "job_id", plan.jobID)
		return nil
	}

	return r.finishExport(ctx, repo, plan, *result, time.Since(started))
}

// planExport reads the track list and fills unset flags from the config.
func (r *Runner) planExport(cmd *cli.Command) (exportPlan, error) {
	path := cmd.String("tracks")
	if path == "" {
		return exportPlan{}, fmt.Errorf("%w: --tracks is required", shared.ErrMissingArgument)
	}

	export, err := formatter.ReadTracks(path)
	if err != nil {
		return exportPlan{}, fmt.Errorf("failed to read tracks: %w", err)
	}

	plan := exportPlan{
		jobID:   cmd.String("job-id"),
		export:  export,
		style:   cmd.String("style"),
		output:  cmd.String("output"),
		font:    cmd.String("font"),
		workers: int(cmd.Int("workers")),
	}
	if plan.jobID == "" {
		plan.jobID = shared.GenerateID()
	}
	if plan.style == "" {
		plan.style = r.config.Export.Style
	}
	if plan.font == "" {
		plan.font = r.config.Export.FontPath
	}
	if plan.workers <= 0 {
		plan.workers = r.config.Export.Workers
	}
	if plan.output == "" {
		name := shared.Slugify(export.Playlist.Name)
		if name == "" {
			name = "playlist"
		}
		plan.output = filepath.Join(r.config.Export.OutputDir, name+".pdf")
	}

	// An unknown style is reported by the job itself so that it is recorded as a failure.
	if style, err := layout.Lookup(plan.style); err == nil {
		plan.pages = layout.TotalPages(len(export.Tracks), style)
	}

	r.logger.Debug("export planned",
		"job_id", plan.jobID, "tracks", len(export.Tracks), "style", plan.style, "pages", plan.pages, "output", plan.output,
	)
	return plan, nil
}

// exportRunner returns a [ui.RunFunc] that records the job and runs it.
//
// Stop requests are honoured from the job store (`mixster stop`) and from the in-process signals (TUI).
func (r *Runner) exportRunner(repo *repositories.JobRepository, plan exportPlan) ui.RunFunc {
	return func(ctx context.Context, reporter tasks.ProgressReporter) (tasks.Result, error) {
		record := models.NewExportJob(plan.jobID, plan.export.Playlist.Name, plan.style, plan.output, len(plan.export.Tracks))
		if err := repo.Create(record); err != nil {
			return tasks.Result{}, fmt.Errorf("failed to record export job: %w", err)
		}

		adapter := repositories.NewJobStateAdapter(repo)
		job := tasks.NewExportJob(tasks.ExportOpts{
			JobID:      record.ID(),
			Style:      plan.style,
			FontPath:   plan.font,
			Label:      labelOptions(r.config.Label),
			OutputPath: plan.output,
			Workers:    plan.workers,
			Signal:     tasks.MultiSignal{adapter, r.signals},
			Reporter:   tasks.MultiReporter{adapter, r.signals, reporter},
			Logger:     r.logger,
		})

		r.logger.Info("export started", "job_id", job.ID(), "tracks", len(plan.export.Tracks))
		return job.Run(ctx, plan.export.Tracks)
	}
}

// finishExport records the outcome, writes the summary and prints the outcome message.
func (r *Runner) finishExport(
	ctx context.Context, repo *repositories.JobRepository, plan exportPlan, result tasks.Result, took time.Duration,
) error {
	ctx = context.WithoutCancel(ctx)
	defer r.signals.Forget(result.JobID)

	if err := repo.SetOutcome(ctx, result.JobID, result.State, result.Reason); err != nil {
		r.logger.Warn("failed to record export outcome", "job_id", result.JobID, "error", err)
	}

	summary := formatter.Summary{
		JobID:      result.JobID,
		Playlist:   plan.export.Playlist.Name,
		Style:      plan.style,
		State:      result.State,
		OutputPath: result.OutputPath,
		Reason:     result.Reason,
		Tracks:     result.Tracks,
		Pages:      result.Pages,
		Duration:   models.FormatClock(took),
		FinishedAt: time.Now().UTC(),
	}
	summaryPath := formatter.SummaryPath(plan.output)
	if err := formatter.WriteSummary(summary, summaryPath); err != nil {
		r.logger.Warn("failed to write export summary", "path", summaryPath, "error", err)
	}

	r.writePlainln("%s", result.Message())
	if result.State == models.JobFailed {
		return fmt.Errorf("export %s failed: %s", result.JobID, result.Reason)
	}
	return nil
}

// progressPrinter prints every snapshot as a status line, or as a JSON line when asJSON is set.
func (r *Runner) progressPrinter(asJSON bool) tasks.ProgressReporter {
	return reporterFunc(func(_ context.Context, p models.ExportProgress) error {
		if asJSON {
			return formatter.WriteProgressJSON(r.output, p)
		}
		return r.writePlain("%s %3.0f%% %s ETA %s  %s\n",
			ui.StateLabel(string(p.State)), p.FractionComplete, p.PagesLabel(), p.ETAString(), p.TaskDescription,
		)
	})
}

// labelOptions applies the configured label geometry over the defaults.
func labelOptions(c shared.LabelConfig) render.LabelOptions {
	opts := render.DefaultLabelOptions()
	if c.Size > 0 {
		opts.Size = c.Size
	}
	if c.Margin > 0 {
		opts.Margin = c.Margin
	}
	if c.YearSize > 0 {
		opts.YearSize = c.YearSize
	}
	if c.TitleSize > 0 {
		opts.TitleSize = c.TitleSize
	}
	if c.MinSize > 0 {
		opts.MinSize = c.MinSize
	}
	return opts
}
