package tasks

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixster/internal/document"
	"github.com/desertthunder/mixster/internal/layout"
	"github.com/desertthunder/mixster/internal/models"
	"github.com/desertthunder/mixster/internal/render"
	"github.com/desertthunder/mixster/internal/shared"
	"github.com/desertthunder/mixster/internal/typeset"
	"golang.org/x/sync/errgroup"
)

// errStopped ends a run early when the cancellation signal fires.
var errStopped = errors.New("stop requested")

// MaxWorkers caps concurrent renders per page.
const MaxWorkers = 16

// ExportOpts configures an [ExportJob].
type ExportOpts struct {
	JobID      string
	Style      string              // Layout preset name, empty selects the default
	Layout     *layout.Style       // Explicit grid, overrides Style when set
	Font       *typeset.Font       // Parsed label font; loaded from FontPath when nil
	FontPath   string              // TrueType/OpenType file used when Font is nil
	Label      render.LabelOptions // Zero value selects render.DefaultLabelOptions
	OutputPath string              // Destination PDF
	Workers    int                 // Concurrent renders per page, 1 renders sequentially

	Signal   CancellationSignal // Optional
	Reporter ProgressReporter   // Optional
	Logger   *log.Logger        // Optional, discards when nil

	Labels LabelRenderer    // Overrides the font based renderer
	Codes  CodeEncoder      // Overrides the QR encoder
	Now    func() time.Time // Clock used for ETA, defaults to time.Now
}

// ExportJob renders a track list into a printable PDF. A job runs at most once.
type ExportJob struct {
	opts   ExportOpts
	logger *log.Logger

	mu      sync.Mutex
	state   models.JobState
	started bool
	last    models.ExportProgress // Most recent published snapshot
}

// NewExportJob creates a pending job. A job ID is generated when opts.JobID is empty.
func NewExportJob(opts ExportOpts) *ExportJob {
	if opts.JobID == "" {
		opts.JobID = shared.GenerateID()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Label == (render.LabelOptions{}) {
		opts.Label = render.DefaultLabelOptions()
	}
	opts.Workers = min(max(opts.Workers, 1), MaxWorkers)

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	return &ExportJob{
		opts:   opts,
		logger: shared.WithLogger(logger, "job_id", opts.JobID),
		state:  models.JobPending,
	}
}

func (j *ExportJob) ID() string { return j.opts.JobID }

// State returns the current lifecycle state.
func (j *ExportJob) State() models.JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

func (j *ExportJob) setState(s models.JobState) {
	j.mu.Lock()
	j.state = s
	j.mu.Unlock()
	j.logger.Info("job state changed", "state", s)
}

// Run renders tracks and writes the PDF. The returned error is non-nil only when the job already ran.
func (j *ExportJob) Run(ctx context.Context, tracks []models.Track) (Result, error) {
	j.mu.Lock()
	if j.started {
		j.mu.Unlock()
		return Result{}, fmt.Errorf("%w: %s", shared.ErrJobFinished, j.opts.JobID)
	}
	j.started = true
	j.mu.Unlock()

	result := Result{JobID: j.opts.JobID, Tracks: len(tracks)}

	style, labels, codes, err := j.prepare(tracks)
	if err != nil {
		j.logger.Error("export validation failed", "error", err)
		j.setState(models.JobFailed)
		j.report(ctx, models.ExportProgress{JobID: j.opts.JobID, State: models.JobFailed, TaskDescription: err.Error()})
		result.State, result.Reason = models.JobFailed, err.Error()
		return result, nil
	}

	total := layout.TotalPages(len(tracks), style)
	chunks := layout.Chunks(tracks, style.Capacity())
	progress := newTracker(j.opts.JobID, total, j.opts.Now)
	doc := document.New()
	result.Pages = total

	j.setState(models.JobRunning)
	j.report(ctx, progress.snapshot(models.JobRunning))

	var final models.ExportProgress
	for n, chunk := range chunks {
		for _, kind := range []layout.Kind{layout.LabelPage, layout.CodePage} {
			images, err := j.renderChunk(ctx, kind, chunk, labels, codes)
			if err == nil {
				err = addPage(doc, kind, images, style)
			}
			if errors.Is(err, errStopped) {
				return j.cancel(ctx, result), nil
			}
			if err != nil {
				return j.fail(ctx, result, err), nil
			}

			progress.pageDone()
			snap := progress.snapshot(models.JobRunning)
			snap.TaskDescription = pageDescription(kind, n+1, len(chunks))
			if len(chunk) > 0 {
				last := chunk[len(chunk)-1]
				snap.CurrentTrackTitle, snap.CurrentTrackArtist = last.Title, last.Artist
			}
			j.logger.Debug("page done", "kind", kind, "pages", snap.PagesLabel(), "eta", snap.ETAString())

			if progress.done < total {
				j.report(ctx, snap)
			} else {
				final = snap
			}
		}
	}

	if err := doc.Save(j.opts.OutputPath); err != nil {
		return j.fail(ctx, result, err), nil
	}

	j.setState(models.JobCompleted)
	final.State = models.JobCompleted
	final.TaskDescription = "Export complete"
	j.report(ctx, final)

	result.State, result.OutputPath = models.JobCompleted, j.opts.OutputPath
	return result, nil
}

// prepare resolves the style, renderers and output path before the job enters the running state.
func (j *ExportJob) prepare(tracks []models.Track) (layout.Style, LabelRenderer, CodeEncoder, error) {
	style, err := j.style()
	if err != nil {
		return layout.Style{}, nil, nil, err
	}

	if j.opts.OutputPath == "" {
		return layout.Style{}, nil, nil, fmt.Errorf("%w: output path is required", shared.ErrInvalidConfig)
	}

	labels := j.opts.Labels
	if labels == nil {
		f := j.opts.Font
		if f == nil {
			if j.opts.FontPath == "" {
				return layout.Style{}, nil, nil, fmt.Errorf("%w: no font configured", shared.ErrMissingFont)
			}
			if f, err = typeset.LoadFont(j.opts.FontPath); err != nil {
				return layout.Style{}, nil, nil, err
			}
		}
		if labels, err = render.NewLabelRenderer(f, j.opts.Label); err != nil {
			return layout.Style{}, nil, nil, err
		}
	}

	codes := j.opts.Codes
	if codes == nil {
		codes = render.NewCodeEncoder(j.opts.Label.Size)
	}

	for i, t := range tracks {
		if err := t.Validate(); err != nil {
			return layout.Style{}, nil, nil, fmt.Errorf("track %d: %w", i+1, err)
		}
	}
	return style, labels, codes, nil
}

// style returns the explicit grid when one is set, otherwise the named preset.
func (j *ExportJob) style() (layout.Style, error) {
	if j.opts.Layout == nil {
		return layout.Lookup(j.opts.Style)
	}

	style := *j.opts.Layout
	if style.Name == "" {
		style.Name = "custom"
	}
	if err := style.Validate(); err != nil {
		return layout.Style{}, err
	}
	return style, nil
}

// renderChunk draws one card per track, checking the stop signal before each. Images keep the chunk's order.
func (j *ExportJob) renderChunk(
	ctx context.Context,
	kind layout.Kind,
	chunk []models.Track,
	labels LabelRenderer,
	codes CodeEncoder,
) ([]image.Image, error) {
	images := make([]image.Image, len(chunk))
	draw := func(ctx context.Context, i int) error {
		if j.stopRequested(ctx) {
			return errStopped
		}

		var err error
		if kind == layout.LabelPage {
			images[i], err = labels.Render(chunk[i])
		} else {
			images[i], err = codes.Encode(chunk[i].URL)
		}
		if err != nil {
			return fmt.Errorf("track %q by %q: %w", chunk[i].Title, chunk[i].Artist, err)
		}
		return nil
	}

	if j.opts.Workers <= 1 {
		for i := range chunk {
			if err := draw(ctx, i); err != nil {
				return nil, err
			}
		}
		return images, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.opts.Workers)
	for i := range chunk {
		g.Go(func() error { return draw(gctx, i) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, errStopped
	}
	return images, nil
}

// stopRequested treats a cancelled context as a stop and a failing signal as "keep going".
func (j *ExportJob) stopRequested(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	if j.opts.Signal == nil {
		return false
	}

	stop, err := j.opts.Signal.IsStopRequested(ctx, j.opts.JobID)
	if err != nil {
		j.logger.Warn("failed to read stop signal", "error", err)
		return false
	}
	return stop
}

func (j *ExportJob) report(ctx context.Context, p models.ExportProgress) {
	j.mu.Lock()
	j.last = p
	j.mu.Unlock()

	if j.opts.Reporter == nil {
		return
	}
	if err := j.opts.Reporter.Report(context.WithoutCancel(ctx), p); err != nil {
		j.logger.Warn("failed to report progress", "error", err, "pages", p.PagesLabel())
	}
}

// Progress returns the most recent snapshot the job published.
func (j *ExportJob) Progress() models.ExportProgress {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.last
}

// cancel and fail republish the last snapshot with the terminal state, so the fraction never moves past what was
// already reported.
func (j *ExportJob) cancel(ctx context.Context, result Result) Result {
	j.setState(models.JobCancelled)
	snap := j.Progress()
	snap.State, snap.ETA = models.JobCancelled, 0
	snap.TaskDescription = "Export cancelled"
	j.report(ctx, snap)

	result.State = models.JobCancelled
	return result
}

func (j *ExportJob) fail(ctx context.Context, result Result, err error) Result {
	j.logger.Error("export failed", "error", err)
	j.setState(models.JobFailed)
	snap := j.Progress()
	snap.State, snap.ETA = models.JobFailed, 0
	snap.TaskDescription = err.Error()
	j.report(ctx, snap)

	result.State, result.Reason = models.JobFailed, err.Error()
	return result
}

func addPage(doc *document.Document, kind layout.Kind, images []image.Image, style layout.Style) error {
	var page layout.Page
	var err error
	if kind == layout.LabelPage {
		page, err = layout.PlaceLabels(images, style)
	} else {
		page, err = layout.PlaceCodes(images, style)
	}
	if err != nil {
		return err
	}
	return doc.AddPage(page)
}
