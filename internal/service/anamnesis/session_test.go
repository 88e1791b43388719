package anamnesis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odontoapp/clinic-api/internal/model"
)

type fakeSaver struct {
	calls int
	last  *Submission
	err   error
}

func (f *fakeSaver) SaveOutsideConsultationEdit(_ context.Context, sub *Submission) error {
	f.calls++
	f.last = sub
	return f.err
}

func validContext() model.EditContext {
	return model.EditContext{
		Reason:            "patient reported a new allergy by phone",
		InformationSource: model.SourcePhone,
	}
}

func TestEditSessionHappyPath(t *testing.T) {
	saver := &fakeSaver{}
	initial := &model.Anamnesis{MotivoConsulta: "control"}
	session := NewEditSession(initial, model.RecordContext{}, saver)
	assert.Equal(t, StateIdle, session.State())

	working := session.Working()
	assert.Equal(t, StateEditing, session.State())
	working.TieneAlergias = true

	summary, err := session.RequestSubmit()
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingContext, session.State())
	assert.True(t, summary.HasCriticalChanges)

	res, err := session.Confirm(context.Background(), validContext())
	require.NoError(t, err)
	assert.True(t, res.IsValid)
	assert.Equal(t, StateIdle, session.State())

	require.Equal(t, 1, saver.calls)
	assert.True(t, saver.last.Record.TieneAlergias)
	require.Len(t, saver.last.Changes, 1)
	assert.Equal(t, "tieneAlergias", saver.last.Changes[0].FieldPath)
	assert.Equal(t, "[allergies] tieneAlergias: modified (critical)", saver.last.AuditSummary)
}

func TestEditSessionWorkingCopyDoesNotAliasInitial(t *testing.T) {
	initial := &model.Anamnesis{MotivoConsulta: "control"}
	session := NewEditSession(initial, model.RecordContext{}, &fakeSaver{})

	session.Working().MotivoConsulta = "urgencia"
	assert.Equal(t, "control", initial.MotivoConsulta)
}

func TestEditSessionNoChangesShortCircuits(t *testing.T) {
	saver := &fakeSaver{}
	initial := &model.Anamnesis{MotivoConsulta: "control"}
	session := NewEditSession(initial, model.RecordContext{}, saver)

	session.Working() // enter editing, change nothing

	summary, err := session.RequestSubmit()
	assert.ErrorIs(t, err, ErrNoPendingChanges)
	assert.False(t, summary.HasChanges)
	assert.Equal(t, StateIdle, session.State())
	assert.Zero(t, saver.calls)

	// Context collection never starts after a no-op submit.
	_, err = session.Confirm(context.Background(), validContext())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestEditSessionConfirmRequiresRequestSubmit(t *testing.T) {
	session := NewEditSession(&model.Anamnesis{}, model.RecordContext{}, &fakeSaver{})

	_, err := session.Confirm(context.Background(), validContext())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestEditSessionRequestSubmitFromIdleFails(t *testing.T) {
	session := NewEditSession(&model.Anamnesis{}, model.RecordContext{}, &fakeSaver{})

	_, err := session.RequestSubmit()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestEditSessionInvalidContextKeepsAwaitingState(t *testing.T) {
	saver := &fakeSaver{}
	session := NewEditSession(&model.Anamnesis{}, model.RecordContext{}, saver)
	session.Working().TieneAlergias = true

	_, err := session.RequestSubmit()
	require.NoError(t, err)

	res, err := session.Confirm(context.Background(), model.EditContext{})
	require.NoError(t, err)
	assert.False(t, res.IsValid)
	assert.Equal(t, StateAwaitingContext, session.State())
	assert.Zero(t, saver.calls)

	// Retry with a complete context succeeds without re-diffing.
	res, err = session.Confirm(context.Background(), validContext())
	require.NoError(t, err)
	assert.True(t, res.IsValid)
	assert.Equal(t, 1, saver.calls)
}

func TestEditSessionPersistenceFailurePreservesState(t *testing.T) {
	saver := &fakeSaver{err: errors.New("connection reset")}
	session := NewEditSession(&model.Anamnesis{}, model.RecordContext{}, saver)
	session.Working().Fuma = true

	_, err := session.RequestSubmit()
	require.NoError(t, err)
	changesBefore := session.Changes()

	ec := model.EditContext{InformationSource: model.SourceEmail}
	_, err = session.Confirm(context.Background(), ec)
	require.Error(t, err)
	assert.Equal(t, StateAwaitingContext, session.State())
	assert.Equal(t, changesBefore, session.Changes())

	// Same context retried once the backend recovers.
	saver.err = nil
	res, err := session.Confirm(context.Background(), ec)
	require.NoError(t, err)
	assert.True(t, res.IsValid)
	assert.Equal(t, StateIdle, session.State())
	assert.Equal(t, 2, saver.calls)
}

func TestEditSessionCancelDiscardsPendingChanges(t *testing.T) {
	saver := &fakeSaver{}
	initial := &model.Anamnesis{MotivoConsulta: "control"}
	session := NewEditSession(initial, model.RecordContext{}, saver)

	session.Working().MotivoConsulta = "urgencia"
	_, err := session.RequestSubmit()
	require.NoError(t, err)

	session.Cancel()
	assert.Equal(t, StateIdle, session.State())
	assert.Empty(t, session.Changes())
	assert.Equal(t, "control", session.Working().MotivoConsulta)
	assert.Zero(t, saver.calls)
}

func TestEditSessionStageReplacesWorkingCopy(t *testing.T) {
	saver := &fakeSaver{}
	session := NewEditSession(&model.Anamnesis{MotivoConsulta: "control"}, model.RecordContext{}, saver)

	session.Stage(&model.Anamnesis{MotivoConsulta: "urgencia"})
	assert.Equal(t, StateEditing, session.State())

	summary, err := session.RequestSubmit()
	require.NoError(t, err)
	assert.True(t, summary.HasChanges)
}
