package editor

import "github.com/google/uuid"

// Effect is a one-shot notification for the client driving an editor: show
// a toast, navigate away, focus a field. Effects queue up on the editor and
// are consumed exactly once via Effects().
type Effect interface {
	effect()
}

type SaveStarted struct{}

type PatientSaved struct {
	ID uuid.UUID
}

type VisitSaved struct {
	ID uuid.UUID
}

type HistorySaved struct{}

type ValidationFailed struct {
	Message string
}

type SaveFailed struct {
	Message string
}

func (SaveStarted) effect()      {}
func (PatientSaved) effect()     {}
func (VisitSaved) effect()       {}
func (HistorySaved) effect()     {}
func (ValidationFailed) effect() {}
func (SaveFailed) effect()       {}

// effectQueue collects pending effects; embedded by every editor.
type effectQueue struct {
	pending []Effect
}

func (q *effectQueue) emit(e Effect) {
	q.pending = append(q.pending, e)
}

// Effects drains and returns the pending effects.
func (q *effectQueue) Effects() []Effect {
	out := q.pending
	q.pending = nil
	return out
}
