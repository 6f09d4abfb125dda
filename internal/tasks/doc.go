// Package tasks runs print exports with real-time progress reporting.
//
// # Export Job
//
// [ExportJob] turns an ordered track list into a printable PDF:
//
//  1. Validation : layout style, label font and output path are checked before anything is drawn
//  2. Pagination : tracks are split into chunks of one page's capacity
//  3. Rendering  : each chunk yields a label page followed by a code page with mirrored columns
//  4. Flush      : the finished document is written atomically to the output path
//
// A job runs once. It ends [models.JobCompleted], [models.JobCancelled] or [models.JobFailed]; the outcome is
// returned as a [Result], never as an error.
//
// # Cancellation
//
// Before every track in both passes the job consults its [CancellationSignal]. A raised stop flag or a cancelled
// context ends the job as cancelled and nothing is written. Signal read errors are logged and treated as "keep
// going".
//
// # Progress Reporting
//
// A [ProgressReporter] receives a zero snapshot when the job starts and one after every page, carrying the completed
// fraction, the page counter and an ETA computed from the mean page duration. The final page's snapshot is published
// only after the document is on disk, so 100% always comes with the completed state. Reporter errors are logged and
// otherwise ignored.
//
// [ChannelReporter] forwards snapshots over a channel without blocking, for CLI and TUI consumers, and
// [MultiReporter] fans out to several reporters.
package tasks
