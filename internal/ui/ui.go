package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixster/internal/models"
	"github.com/desertthunder/mixster/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	TrackListView ViewState = iota
	ConfirmView
	ExportView
	ResultView
)

// RunFunc starts the export, publishing snapshots to reporter, and blocks until it ends.
type RunFunc func(ctx context.Context, reporter tasks.ProgressReporter) (tasks.Result, error)

// Plan describes the export the TUI is about to run.
type Plan struct {
	Export *models.PlaylistExport
	Style  string
	Pages  int
	Output string
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	plan         Plan
	run          RunFunc
	stop         func() error
	width        int
	height       int
	trackList    list.Model
	bar          progress.Model
	progressChan chan models.ExportProgress
	outcome      *exportOutcome // Written by the export goroutine before progressChan closes
	progress     models.ExportProgress
	stopping     bool
	stopErr      error
	result       *tasks.Result
	err          error
	help         help.Model
	keys         keyMap
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

var _ list.Item = trackItem{}

func (i trackItem) FilterValue() string { return i.track.Title }
func (i trackItem) Title() string       { return i.track.Title }
func (i trackItem) Description() string {
	return fmt.Sprintf("%s • %s", i.track.Artist, i.track.Year())
}

// NewModel creates a new TUI model. stop is invoked when the user asks to stop a running export.
func NewModel(ctx context.Context, plan Plan, run RunFunc, stop func() error) *Model {
	items := make([]list.Item, len(plan.Export.Tracks))
	for i, track := range plan.Export.Tracks {
		items[i] = trackItem{track: track}
	}
	tracks := list.New(items, list.NewDefaultDelegate(), 0, 0)
	tracks.Title = fmt.Sprintf("Tracks in '%s'", plan.Export.Playlist.Name)

	return &Model{
		ctx:       ctx,
		view:      TrackListView,
		plan:      plan,
		run:       run,
		stop:      stop,
		trackList: tracks,
		bar:       progress.New(progress.WithDefaultGradient()),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Result returns the export outcome once the export has finished.
func (m *Model) Result() (*tasks.Result, error) {
	return m.result, m.err
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.trackList.SetSize(msg.Width-4, msg.Height-8)
		m.bar.Width = max(msg.Width-8, 10)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ExportView:
			return m.handleExportKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.progress = msg.data.(models.ExportProgress)
			return m, m.waitForProgress()
		case MsgExportComplete:
			outcome := msg.data.(exportOutcome)
			m.result = &outcome.result
			m.err = outcome.err
			m.view = ResultView
			m.progressChan, m.outcome = nil, nil
			return m, nil
		}
	}

	if m.view == TrackListView {
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case TrackListView:
		return m.renderTrackList()
	case ConfirmView:
		return m.renderConfirm()
	case ExportView:
		return m.renderExport()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit), key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
		m.view = TrackListView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.view = ExportView
		return m, m.startExport()
	}
	return m, nil
}

// handleExportKeys only requests a stop; the view changes when the export reports its outcome.
func (m *Model) handleExportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.stop) || key.Matches(msg, m.keys.quit) {
		if !m.stopping && m.stop != nil {
			m.stopping = true
			m.stopErr = m.stop()
		}
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) || key.Matches(msg, m.keys.enter) {
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) startExport() tea.Cmd {
	ch := make(chan models.ExportProgress, 50)
	outcome := &exportOutcome{}
	m.progressChan, m.outcome = ch, outcome

	go func() {
		outcome.result, outcome.err = m.run(m.ctx, tasks.NewChannelReporter(ch))
		close(ch)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	ch, outcome := m.progressChan, m.outcome
	return func() tea.Msg {
		if ch == nil {
			return exportCompleteMsg(tasks.Result{}, nil)
		}

		update, ok := <-ch
		if !ok {
			return exportCompleteMsg(outcome.result, outcome.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderTrackList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Print '%s'?", m.plan.Export.Playlist.Name))
	info := fmt.Sprintf(
		"\nTracks: %d\nLayout: %s\nPages: %d\nOutput: %s\n",
		len(m.plan.Export.Tracks), m.plan.Style, m.plan.Pages, m.plan.Output,
	)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	return fmt.Sprintf("%s\n%s\n%s", title, info, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderExport() string {
	title := styles.title.Render(fmt.Sprintf("Exporting '%s'", m.plan.Export.Playlist.Name))
	p := m.progress

	status := fmt.Sprintf("%s  ETA %s", p.PagesLabel(), p.ETAString())
	if p.CurrentTrackTitle != "" {
		status += fmt.Sprintf("\n%s - %s", p.CurrentTrackArtist, p.CurrentTrackTitle)
	}
	if p.TaskDescription != "" {
		status += "\n" + styles.help.Render(p.TaskDescription)
	}
	if m.stopping {
		status += "\n" + styles.warn.Render("Stopping...")
	}
	if m.stopErr != nil {
		status += "\n" + styles.err.Render(fmt.Sprintf("Stop failed: %v", m.stopErr))
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.stop})
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, m.bar.ViewAs(p.FractionComplete/100), status, helpView)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})

	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Export error: %v", m.err)) + "\n\n" + helpView
	}
	if m.result == nil {
		return styles.err.Render("No result available") + "\n\n" + helpView
	}

	var headline string
	switch m.result.State {
	case models.JobCompleted:
		headline = styles.ok.Render("✓ " + m.result.Message())
	case models.JobCancelled:
		headline = styles.warn.Render(m.result.Message())
	default:
		headline = styles.err.Render(m.result.Message())
	}

	info := fmt.Sprintf("\nJob: %s\nState: %s\nPages: %d\nTracks: %d",
		m.result.JobID, styles.State(m.result.State.String()), m.result.Pages, m.result.Tracks)
	return fmt.Sprintf("%s\n%s\n\n%s", headline, info, helpView)
}
