package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tunes/internal/tasks"
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
	MsgReplayComplete
)

type replayResult struct {
	result *tasks.RunResult
	err    error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// replayCompleteMsg is the constructor for [MsgReplayComplete]
func replayCompleteMsg(result *tasks.RunResult, err error) Msg {
	return Msg{kind: MsgReplayComplete, data: replayResult{result: result, err: err}}
}
