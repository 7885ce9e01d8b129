package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/festify/internal/workflow"
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
	MsgSnapshot MsgKind = iota
	MsgOperationDone
	MsgSubscriptionClosed
)

type operationResult struct {
	op  string
	err error
}

// snapshotMsg is the constructor for [MsgSnapshot]
func snapshotMsg(snap workflow.Snapshot) Msg {
	return Msg{kind: MsgSnapshot, data: snap}
}

// operationDoneMsg is the constructor for [MsgOperationDone]
func operationDoneMsg(op string, err error) Msg {
	return Msg{kind: MsgOperationDone, data: operationResult{op: op, err: err}}
}

// subscriptionClosedMsg is the constructor for [MsgSubscriptionClosed]
func subscriptionClosedMsg() Msg {
	return Msg{kind: MsgSubscriptionClosed}
}
