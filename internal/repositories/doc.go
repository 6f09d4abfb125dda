// Package repositories implements SQLite persistence for export jobs.
//
// [JobRepository] implements [models.Repository] for [models.ExportJob] and adds the operations used while a job
// runs: progress snapshots, the stop flag and the final outcome. Because the database is shared between processes,
// `mixster stop` and `mixster status` work against an export running in another terminal.
//
// [JobStateAdapter] adapts a JobRepository to the cancellation signal and progress reporter interfaces consumed by
// tasks.ExportJob.
package repositories
