// Package persist implements the two persistence strategies behind the timer
// tracker: a local store written in full on every change, and a remote store
// written only at user checkpoints.
package persist

import (
	"context"

	"github.com/existflow/weektrack/internal/model"
)

// Scope identifies where a strategy keeps its data
type Scope string

const (
	ScopeLocal  Scope = "local"
	ScopeRemote Scope = "remote"
)

// ChangeKind identifies the action that produced a change
type ChangeKind int

const (
	ChangeAdd ChangeKind = iota
	ChangeUpdate
	ChangeDelete
	ChangeToggle
	ChangeDeduct
	ChangeArchive
	ChangeTick
	// ChangeFinish checkpoints a goal that stopped itself on reaching zero
	ChangeFinish
)

// String returns the action name
func (k ChangeKind) String() string {
	switch k {
	case ChangeAdd:
		return "add"
	case ChangeUpdate:
		return "update"
	case ChangeDelete:
		return "delete"
	case ChangeToggle:
		return "toggle"
	case ChangeDeduct:
		return "deduct"
	case ChangeArchive:
		return "archive"
	case ChangeTick:
		return "tick"
	case ChangeFinish:
		return "finish"
	default:
		return "unknown"
	}
}

// Change describes one committed mutation of the tracker state
type Change struct {
	Kind     ChangeKind
	TimerID  string
	Fields   []model.Field       // Update, Toggle, Deduct, Finish: fields to write
	Timer    model.Timer         // Affected timer after the mutation
	Archived *model.WeekHistory  // Archive: the new record
	Timers   []model.Timer       // Full timer list after the mutation
	History  []model.WeekHistory // Full history after the mutation
}

// Snapshot is the persisted state read at startup
type Snapshot struct {
	Timers  []model.Timer
	History []model.WeekHistory
}

// Strategy persists tracker changes. The tracker calls the same hooks
// whichever implementation is active.
type Strategy interface {
	Scope() Scope
	Load(ctx context.Context) (Snapshot, error)
	Commit(ctx context.Context, c Change) error
}
