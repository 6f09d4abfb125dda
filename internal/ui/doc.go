// Package ui implements an interactive terminal interface for print exports using bubbletea's Elm architecture.
//
// The TUI walks through one export:
//  1. [TrackListView] : Preview the playlist's tracks
//  2. [ConfirmView] : Confirm the layout and page count
//  3. [ExportView] : Monitor the progress bar, page counter and ETA, with s to request a stop
//  4. [ResultView] : Show the outcome
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress snapshots flow through a channel fed by a tasks.ChannelReporter, so the export never blocks on the UI.
package ui
