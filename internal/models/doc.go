// Package models defines the domain entities of the mixster print export pipeline.
//
// The package contains two categories of types:
//
// 1. Input records: resolved catalog data handed to an export
//   - [Track] : one resolved track (title, artist display string, release year, code URL)
//   - [PlaylistExport] : a playlist with its ordered track listing
//
// 2. Job records: state published while an export runs
//   - [JobState] : Pending → Running → Completed | Cancelled | Failed
//   - [ExportProgress] : progress snapshot reported after every page
//   - [ExportJob] : persisted job row with stop flag, latest progress and failure reason
//
// [ExportJob] implements the [Model] interface; the job store implements [Repository].
package models
