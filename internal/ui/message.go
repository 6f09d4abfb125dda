package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixster/internal/models"
	"github.com/desertthunder/mixster/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgExportComplete
)

type exportOutcome struct {
	result tasks.Result
	err    error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update models.ExportProgress) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// exportCompleteMsg is the constructor for [MsgExportComplete]
func exportCompleteMsg(result tasks.Result, err error) Msg {
	return Msg{kind: MsgExportComplete, data: exportOutcome{result: result, err: err}}
}
