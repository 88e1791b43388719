package anamnesis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odontoapp/clinic-api/internal/middleware"
	"github.com/odontoapp/clinic-api/internal/model"
	anamnesisService "github.com/odontoapp/clinic-api/internal/service/anamnesis"
	auditService "github.com/odontoapp/clinic-api/internal/service/audit"
)

type stubPatientRepo struct{ patient *model.Patient }

func (s *stubPatientRepo) Create(context.Context, *model.Patient) error { return nil }
func (s *stubPatientRepo) Get(context.Context, uuid.UUID) (*model.Patient, error) {
	return s.patient, nil
}
func (s *stubPatientRepo) Update(context.Context, *model.Patient) error { return nil }
func (s *stubPatientRepo) Delete(context.Context, uuid.UUID) error      { return nil }
func (s *stubPatientRepo) List(context.Context, *model.PatientFilters) ([]*model.Patient, error) {
	return nil, nil
}

type stubAnamnesisRepo struct {
	stored    *model.Anamnesis
	updateErr error
}

func (s *stubAnamnesisRepo) GetByPatient(context.Context, uuid.UUID) (*model.Anamnesis, error) {
	return s.stored, nil
}
func (s *stubAnamnesisRepo) Upsert(_ context.Context, r *model.Anamnesis) error {
	s.stored = r
	return nil
}
func (s *stubAnamnesisRepo) UpdateWithAudit(_ context.Context, r *model.Anamnesis, _ *model.AuditLog) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.stored = r
	return nil
}

type stubEncounterRepo struct{}

func (stubEncounterRepo) Create(context.Context, *model.Encounter) error { return nil }
func (stubEncounterRepo) Get(context.Context, uuid.UUID) (*model.Encounter, error) {
	return nil, nil
}
func (stubEncounterRepo) ListByPatient(context.Context, uuid.UUID) ([]*model.Encounter, error) {
	return nil, nil
}
func (stubEncounterRepo) FlagNextForReview(context.Context, uuid.UUID, string) error { return nil }

type stubAuditRepo struct{}

func (stubAuditRepo) Create(context.Context, *model.AuditLog) error { return nil }
func (stubAuditRepo) List(context.Context, *model.AuditFilters) ([]*model.AuditLog, error) {
	return nil, nil
}
func (stubAuditRepo) DeleteBefore(context.Context, time.Time) (int64, error) { return 0, nil }

func setupRouter(t *testing.T, repo *stubAnamnesisRepo) (*gin.Engine, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	patientID := uuid.New()
	patient := &model.Patient{
		Gender:      model.GenderMale,
		DateOfBirth: time.Date(1985, 3, 12, 0, 0, 0, 0, time.UTC),
	}
	patient.ID = patientID

	svc := anamnesisService.NewService(
		repo,
		&stubPatientRepo{patient: patient},
		stubEncounterRepo{},
		auditService.NewLogger(auditService.NewService(stubAuditRepo{})),
		nil,
	)

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uuid.New())
	})
	NewHandler(svc).RegisterRoutes(api)
	return r, patientID
}

func submitBody(t *testing.T, record *model.Anamnesis, ec model.EditContext) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"record":  record,
		"context": ec,
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestGetReturnsEmptyRecordForNewPatient(t *testing.T) {
	r, patientID := setupRouter(t, &stubAnamnesisRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/patients/%s/anamnesis", patientID), nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data model.Anamnesis `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, patientID, resp.Data.PatientID)
}

func TestGetRejectsInvalidPatientID(t *testing.T) {
	r, _ := setupRouter(t, &stubAnamnesisRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/not-a-uuid/anamnesis", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitValidEdit(t *testing.T) {
	repo := &stubAnamnesisRepo{}
	r, patientID := setupRouter(t, repo)

	record := &model.Anamnesis{TieneAlergias: true}
	ec := model.EditContext{
		Reason:            "patient called about a new allergy",
		InformationSource: model.SourcePhone,
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/patients/%s/anamnesis/submit", patientID), submitBody(t, record, ec))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.stored)
	assert.True(t, repo.stored.TieneAlergias)
}

func TestSubmitIncompleteContextIs422(t *testing.T) {
	repo := &stubAnamnesisRepo{}
	r, patientID := setupRouter(t, repo)

	record := &model.Anamnesis{TieneAlergias: true}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/patients/%s/anamnesis/submit", patientID), submitBody(t, record, model.EditContext{}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Nil(t, repo.stored)
}

func TestSubmitPersistenceFailureIs502(t *testing.T) {
	repo := &stubAnamnesisRepo{updateErr: errors.New("connection reset")}
	r, patientID := setupRouter(t, repo)

	record := &model.Anamnesis{Fuma: true}
	ec := model.EditContext{InformationSource: model.SourceEmail}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/patients/%s/anamnesis/submit", patientID), submitBody(t, record, ec))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSubmitNoChanges(t *testing.T) {
	repo := &stubAnamnesisRepo{}
	r, patientID := setupRouter(t, repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/patients/%s/anamnesis/submit", patientID), submitBody(t, &model.Anamnesis{}, model.EditContext{}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data anamnesisService.SubmitResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.NoChanges)
}

func TestPreviewDoesNotPersist(t *testing.T) {
	repo := &stubAnamnesisRepo{}
	r, patientID := setupRouter(t, repo)

	record := &model.Anamnesis{TieneMedicacionActual: true}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/patients/%s/anamnesis/diff", patientID), submitBody(t, record, model.EditContext{}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, repo.stored)

	var resp struct {
		Data anamnesisService.PreviewResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Changes, 1)
	assert.Equal(t, "tieneMedicacionActual", resp.Data.Changes[0].FieldPath)
}
