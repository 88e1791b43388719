package anamnesis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odontoapp/clinic-api/internal/model"
	"github.com/odontoapp/clinic-api/internal/service/audit"
)

type fakePatientRepo struct {
	patient *model.Patient
}

func (f *fakePatientRepo) Create(context.Context, *model.Patient) error { return nil }
func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	if f.patient == nil {
		return nil, errors.New("patient not found")
	}
	return f.patient, nil
}
func (f *fakePatientRepo) Update(context.Context, *model.Patient) error { return nil }
func (f *fakePatientRepo) Delete(context.Context, uuid.UUID) error      { return nil }
func (f *fakePatientRepo) List(context.Context, *model.PatientFilters) ([]*model.Patient, error) {
	return nil, nil
}

type fakeAnamnesisRepo struct {
	stored      *model.Anamnesis
	savedLog    *model.AuditLog
	updateCalls int
	updateErr   error
	upsertCalls int
}

func (f *fakeAnamnesisRepo) GetByPatient(context.Context, uuid.UUID) (*model.Anamnesis, error) {
	return f.stored, nil
}
func (f *fakeAnamnesisRepo) Upsert(_ context.Context, record *model.Anamnesis) error {
	f.upsertCalls++
	f.stored = record
	return nil
}
func (f *fakeAnamnesisRepo) UpdateWithAudit(_ context.Context, record *model.Anamnesis, log *model.AuditLog) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	f.stored = record
	f.savedLog = log
	return nil
}

type fakeEncounterRepo struct {
	flaggedPatient uuid.UUID
	flaggedNote    string
	flagCalls      int
}

func (f *fakeEncounterRepo) Create(context.Context, *model.Encounter) error { return nil }
func (f *fakeEncounterRepo) Get(context.Context, uuid.UUID) (*model.Encounter, error) {
	return nil, nil
}
func (f *fakeEncounterRepo) ListByPatient(context.Context, uuid.UUID) ([]*model.Encounter, error) {
	return nil, nil
}
func (f *fakeEncounterRepo) FlagNextForReview(_ context.Context, patientID uuid.UUID, note string) error {
	f.flagCalls++
	f.flaggedPatient = patientID
	f.flaggedNote = note
	return nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*model.AuditLog
}

func (f *fakeAuditRepo) Create(_ context.Context, log *model.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, log)
	return nil
}
func (f *fakeAuditRepo) List(context.Context, *model.AuditFilters) ([]*model.AuditLog, error) {
	return nil, nil
}
func (f *fakeAuditRepo) DeleteBefore(context.Context, time.Time) (int64, error) { return 0, nil }

type fakeBroker struct {
	mu        sync.Mutex
	published []string
	payloads  []interface{}
}

func (f *fakeBroker) Publish(_ context.Context, channel string, message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, channel)
	f.payloads = append(f.payloads, message)
	return nil
}
func (f *fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) { return nil, nil }
func (f *fakeBroker) Close() error { return nil }

type serviceFixture struct {
	svc        *Service
	repo       *fakeAnamnesisRepo
	encounters *fakeEncounterRepo
	broker     *fakeBroker
	patientID  uuid.UUID
	actor      uuid.UUID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	patientID := uuid.New()
	patient := &model.Patient{
		Gender:      model.GenderMale,
		DateOfBirth: time.Date(1985, 3, 12, 0, 0, 0, 0, time.UTC),
	}
	patient.ID = patientID

	repo := &fakeAnamnesisRepo{}
	encounters := &fakeEncounterRepo{}
	broker := &fakeBroker{}
	auditor := audit.NewLogger(audit.NewService(&fakeAuditRepo{}))

	return &serviceFixture{
		svc:        NewService(repo, &fakePatientRepo{patient: patient}, encounters, auditor, broker),
		repo:       repo,
		encounters: encounters,
		broker:     broker,
		patientID:  patientID,
		actor:      uuid.New(),
	}
}

func TestServiceGetReturnsEmptyRecordWhenMissing(t *testing.T) {
	f := newServiceFixture(t)

	record, err := f.svc.Get(context.Background(), f.actor, f.patientID)
	require.NoError(t, err)
	assert.Equal(t, f.patientID, record.PatientID)
	assert.False(t, record.TieneAlergias)
}

func TestServicePreviewDoesNotPersist(t *testing.T) {
	f := newServiceFixture(t)
	proposed := &model.Anamnesis{TieneAlergias: true}

	result, err := f.svc.Preview(context.Background(), f.patientID, proposed, model.EditContext{})
	require.NoError(t, err)

	require.Len(t, result.Changes, 1)
	assert.True(t, result.Summary.HasCriticalChanges)
	assert.False(t, result.Validation.IsValid)
	assert.Zero(t, f.repo.updateCalls)
	assert.Zero(t, f.repo.upsertCalls)
}

func TestServiceSubmitPersistsRecordAndAuditTogether(t *testing.T) {
	f := newServiceFixture(t)
	proposed := &model.Anamnesis{
		TieneAlergias: true,
		Allergies:     []model.AllergyEntry{{CatalogID: 1, Nombre: "Penicilina"}},
	}
	ec := model.EditContext{
		Reason:              "patient called about a reaction",
		InformationSource:   model.SourcePhone,
		VerifiedWithPatient: true,
	}

	result, err := f.svc.SubmitOutsideConsultation(context.Background(), f.actor, f.patientID, proposed, ec)
	require.NoError(t, err)

	assert.False(t, result.NoChanges)
	assert.True(t, result.Validation.IsValid)
	assert.NotEmpty(t, result.AuditSummary)

	require.Equal(t, 1, f.repo.updateCalls)
	require.NotNil(t, f.repo.savedLog)
	assert.Equal(t, model.AuditActionOutsideConsultEdit, f.repo.savedLog.Action)
	assert.Equal(t, f.actor, f.repo.savedLog.UserID)
	assert.Equal(t, result.AuditSummary, f.repo.savedLog.Summary)
	assert.Equal(t, 2, f.repo.savedLog.CriticalCount)
	assert.Equal(t, f.patientID, f.repo.stored.PatientID)
	assert.Equal(t, f.actor, f.repo.stored.UpdatedBy)

	// Verified with the patient, so no review flag and no event.
	assert.Zero(t, f.encounters.flagCalls)
	assert.Empty(t, f.broker.published)
}

func TestServiceSubmitUnverifiedCriticalFlagsReview(t *testing.T) {
	f := newServiceFixture(t)
	proposed := &model.Anamnesis{TieneMedicacionActual: true}
	ec := model.EditContext{
		Reason:            "pharmacy sent an updated prescription list",
		InformationSource: model.SourceDocument,
	}

	result, err := f.svc.SubmitOutsideConsultation(context.Background(), f.actor, f.patientID, proposed, ec)
	require.NoError(t, err)
	require.True(t, result.Validation.IsValid)
	assert.Contains(t, result.Validation.Warnings, MsgFlaggedForReview)

	assert.Equal(t, 1, f.encounters.flagCalls)
	assert.Equal(t, f.patientID, f.encounters.flaggedPatient)
	assert.Equal(t, result.AuditSummary, f.encounters.flaggedNote)
	require.Len(t, f.broker.published, 1)
	assert.Equal(t, TopicReviewRequired, f.broker.published[0])
}

func TestServiceSubmitUnverifiedLowSeverityNotFlagged(t *testing.T) {
	f := newServiceFixture(t)
	proposed := &model.Anamnesis{Fuma: true}
	ec := model.EditContext{InformationSource: model.SourceEmail}

	result, err := f.svc.SubmitOutsideConsultation(context.Background(), f.actor, f.patientID, proposed, ec)
	require.NoError(t, err)
	require.True(t, result.Validation.IsValid)

	assert.Equal(t, 1, f.repo.updateCalls)
	assert.Zero(t, f.encounters.flagCalls)
	assert.Empty(t, f.broker.published)
}

func TestServiceSubmitInvalidContextDoesNotPersist(t *testing.T) {
	f := newServiceFixture(t)
	proposed := &model.Anamnesis{TieneAlergias: true}

	result, err := f.svc.SubmitOutsideConsultation(context.Background(), f.actor, f.patientID, proposed, model.EditContext{})
	require.NoError(t, err)

	assert.False(t, result.Validation.IsValid)
	assert.Contains(t, result.Validation.Errors, MsgReasonRequired)
	assert.Contains(t, result.Validation.Errors, MsgSourceRequired)
	assert.Zero(t, f.repo.updateCalls)
	assert.Zero(t, f.encounters.flagCalls)
}

func TestServiceSubmitNoChangesShortCircuits(t *testing.T) {
	f := newServiceFixture(t)
	existing := &model.Anamnesis{PatientID: f.patientID, MotivoConsulta: "control"}
	require.NoError(t, existing.MarshalCollections())
	f.repo.stored = existing

	proposed := &model.Anamnesis{PatientID: f.patientID, MotivoConsulta: "control"}

	result, err := f.svc.SubmitOutsideConsultation(context.Background(), f.actor, f.patientID, proposed, model.EditContext{})
	require.NoError(t, err)

	assert.True(t, result.NoChanges)
	assert.False(t, result.Summary.HasChanges)
	assert.Zero(t, f.repo.updateCalls)
}

func TestServiceSubmitPersistenceFailureReturnsError(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.updateErr = errors.New("connection reset")
	proposed := &model.Anamnesis{Fuma: true}
	ec := model.EditContext{InformationSource: model.SourcePhone}

	_, err := f.svc.SubmitOutsideConsultation(context.Background(), f.actor, f.patientID, proposed, ec)
	require.Error(t, err)
	assert.Zero(t, f.encounters.flagCalls)
	assert.Empty(t, f.broker.published)
}

func TestServiceSubmitPediatricPatientDiffsPediatricFields(t *testing.T) {
	f := newServiceFixture(t)
	patient := &model.Patient{
		Gender:      model.GenderMale,
		DateOfBirth: time.Now().AddDate(-8, 0, 0),
	}
	patient.ID = f.patientID
	f.svc.patientRepo = &fakePatientRepo{patient: patient}

	yes := true
	proposed := &model.Anamnesis{TieneHabitosSuccion: &yes}
	ec := model.EditContext{InformationSource: model.SourceInPerson}

	result, err := f.svc.SubmitOutsideConsultation(context.Background(), f.actor, f.patientID, proposed, ec)
	require.NoError(t, err)
	assert.False(t, result.NoChanges)
	assert.Contains(t, result.Summary.BySection, model.SectionPediatric)
}
