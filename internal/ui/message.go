package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/steamx/internal/tasks"
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
	MsgEvent MsgKind = iota
	MsgFrame
	MsgError
)

// eventMsg is the constructor for [MsgEvent]
func eventMsg(ev tasks.Event) Msg {
	return Msg{kind: MsgEvent, data: ev}
}

// frameMsg is the constructor for [MsgFrame]
func frameMsg(t time.Time) Msg {
	return Msg{kind: MsgFrame, data: t}
}

// errorMsg is the constructor for [MsgError]
func errorMsg(err error) Msg {
	return Msg{kind: MsgError, data: err}
}
