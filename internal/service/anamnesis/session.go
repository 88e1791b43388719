package anamnesis

import (
	"context"
	"errors"
	"fmt"

	"github.com/odontoapp/clinic-api/internal/model"
)

// SessionState is the edit-session lifecycle. Transitions:
// Idle → Editing → AwaitingContext → Submitting, with AwaitingContext
// returning to Idle on cancel and staying put on validation or
// persistence failure.
type SessionState string

const (
	StateIdle            SessionState = "idle"
	StateEditing         SessionState = "editing"
	StateAwaitingContext SessionState = "awaiting_context"
	StateSubmitting      SessionState = "submitting"
)

var (
	ErrNoPendingChanges = errors.New("no pending changes")
	ErrInvalidState     = errors.New("operation not allowed in current session state")
)

// Submission is the payload handed to the persistence collaborator on a
// confirmed outside-consultation edit.
type Submission struct {
	Record       *model.Anamnesis
	Changes      model.ChangeSet
	AuditSummary string
	EditContext  model.EditContext
}

// Saver is the external persistence collaborator. It must persist the
// updated record and the audit payload atomically.
type Saver interface {
	SaveOutsideConsultationEdit(ctx context.Context, sub *Submission) error
}

// EditSession drives one outside-consultation edit over a private
// working copy. It is not safe for concurrent use; each session belongs
// to a single editor.
type EditSession struct {
	state   SessionState
	rctx    model.RecordContext
	initial *model.Anamnesis
	working *model.Anamnesis
	changes model.ChangeSet
	summary Summary
	saver   Saver
}

func NewEditSession(initial *model.Anamnesis, rctx model.RecordContext, saver Saver) *EditSession {
	return &EditSession{
		state:   StateIdle,
		rctx:    rctx,
		initial: initial,
		working: initial.Clone(),
		saver:   saver,
	}
}

func (s *EditSession) State() SessionState { return s.state }

// Working exposes the mutable copy the form layer edits.
func (s *EditSession) Working() *model.Anamnesis {
	if s.state == StateIdle {
		s.state = StateEditing
	}
	return s.working
}

// Stage replaces the working copy wholesale, for callers that rebuild
// the record from submitted form values.
func (s *EditSession) Stage(updated *model.Anamnesis) {
	s.working = updated
	s.state = StateEditing
}

// RequestSubmit computes the diff. With no changes the session returns
// to Idle and the edit context is never collected; otherwise it moves to
// AwaitingContext and reports the summary for display.
func (s *EditSession) RequestSubmit() (Summary, error) {
	if s.state != StateEditing && s.state != StateAwaitingContext {
		return Summary{}, ErrInvalidState
	}

	s.changes = Diff(s.initial, s.working, s.rctx)
	s.summary = Aggregate(s.changes)
	if !s.summary.HasChanges {
		s.state = StateIdle
		return s.summary, ErrNoPendingChanges
	}

	s.state = StateAwaitingContext
	return s.summary, nil
}

// Confirm validates the edit context and, when valid, hands off to the
// persistence collaborator. On persistence failure the session stays in
// AwaitingContext with the change set and context untouched, so the
// caller can retry without re-entering anything.
func (s *EditSession) Confirm(ctx context.Context, ec model.EditContext) (model.ValidationResult, error) {
	if s.state != StateAwaitingContext {
		return model.ValidationResult{}, ErrInvalidState
	}

	res := ValidateContext(ec, s.changes)
	if !res.IsValid {
		return res, nil
	}

	s.state = StateSubmitting
	sub := &Submission{
		Record:       s.working,
		Changes:      s.changes,
		AuditSummary: FormatSummary(s.changes),
		EditContext:  ec,
	}
	if err := s.saver.SaveOutsideConsultationEdit(ctx, sub); err != nil {
		s.state = StateAwaitingContext
		return res, fmt.Errorf("failed to persist edit: %w", err)
	}

	s.initial = s.working.Clone()
	s.state = StateIdle
	return res, nil
}

// Cancel discards the pending change set and returns to Idle. The
// working copy is reset to the initial snapshot.
func (s *EditSession) Cancel() {
	s.working = s.initial.Clone()
	s.changes = nil
	s.summary = Summary{}
	s.state = StateIdle
}

// Changes returns the change set computed by the last RequestSubmit.
func (s *EditSession) Changes() model.ChangeSet { return s.changes }
