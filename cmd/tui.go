package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixster/internal/shared"
	"github.com/desertthunder/mixster/internal/tasks"
	"github.com/desertthunder/mixster/internal/ui"
)

const tuiLogPath = "./tmp/mixster-tui.log"

// exportTUI runs the export behind the interactive progress view.
//
// The returned result is nil when the user quits before confirming the export.
func (r *Runner) exportTUI(ctx context.Context, plan exportPlan, run ui.RunFunc) (*tasks.Result, error) {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(tuiLogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	stop := func() error {
		r.signals.RequestStop(plan.jobID)
		r.logger.Info("stop requested from TUI", "job_id", plan.jobID)
		return nil
	}

	model := ui.NewModel(ctx, ui.Plan{
		Export: plan.export,
		Style:  plan.style,
		Pages:  plan.pages,
		Output: plan.output,
	}, run, stop)

	if _, err := tea.NewProgram(model).Run(); err != nil {
		return nil, fmt.Errorf("error running TUI: %w", err)
	}
	return model.Result()
}
