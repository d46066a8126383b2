package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tn02103/uniformAdministrationApp-sub004/internal/dto"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/middleware"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/models"
	appErrors "github.com/tn02103/uniformAdministrationApp-sub004/pkg/errors"
)

type inspectionServiceMock struct {
	createResp []dto.InspectionItem
	createErr  error
	stateResp  *dto.InspectionStateResponse
	stateErr   error
	startErr   error
	stopErr    error

	createCalled bool
	startCalled  bool
	stopCalled   bool
	stopID       string
	stopReq      dto.StopInspectionRequest
}

func (m *inspectionServiceMock) Create(ctx context.Context, req dto.CreateInspectionRequest, claims *models.JWTClaims) ([]dto.InspectionItem, error) {
	m.createCalled = true
	return m.createResp, m.createErr
}

func (m *inspectionServiceMock) Update(ctx context.Context, id string, req dto.UpdateInspectionRequest, claims *models.JWTClaims) ([]dto.InspectionItem, error) {
	return nil, nil
}

func (m *inspectionServiceMock) Delete(ctx context.Context, id string, claims *models.JWTClaims) ([]dto.InspectionItem, error) {
	return nil, nil
}

func (m *inspectionServiceMock) ListPlanned(ctx context.Context, claims *models.JWTClaims) ([]dto.InspectionItem, error) {
	return nil, nil
}

func (m *inspectionServiceMock) State(ctx context.Context, claims *models.JWTClaims) (*dto.InspectionStateResponse, error) {
	return m.stateResp, m.stateErr
}

func (m *inspectionServiceMock) Start(ctx context.Context, claims *models.JWTClaims) error {
	m.startCalled = true
	return m.startErr
}

func (m *inspectionServiceMock) Stop(ctx context.Context, id string, req dto.StopInspectionRequest, claims *models.JWTClaims) error {
	m.stopCalled = true
	m.stopID = id
	m.stopReq = req
	return m.stopErr
}

func (m *inspectionServiceMock) Deregister(ctx context.Context, inspectionID, cadetID string, claims *models.JWTClaims) error {
	return nil
}

func (m *inspectionServiceMock) Reregister(ctx context.Context, inspectionID, cadetID string, claims *models.JWTClaims) error {
	return nil
}

func (m *inspectionServiceMock) ListDeregistrations(ctx context.Context, inspectionID string, claims *models.JWTClaims) ([]dto.DeregistrationItem, error) {
	return nil, nil
}

func adminContext(w *httptest.ResponseRecorder) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", OrganizationID: "org-1", Role: models.RoleAdmin})
	return c
}

func TestInspectionHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &inspectionServiceMock{
		createResp: []dto.InspectionItem{{ID: "insp-1", Name: "Spring Review", Date: "2026-03-20"}},
	}
	handler := NewInspectionHandler(mockSvc)

	payload, _ := json.Marshal(dto.CreateInspectionRequest{Name: "Spring Review", Date: "2026-03-20"})
	w := httptest.NewRecorder()
	c := adminContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/inspections", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.createCalled)
}

func TestInspectionHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewInspectionHandler(&inspectionServiceMock{})

	w := httptest.NewRecorder()
	c := adminContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/inspections", bytes.NewBufferString(`{"name":"Review"`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInspectionHandlerCreateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &inspectionServiceMock{
		createErr: appErrors.Clone(appErrors.ErrConflict, "an inspection is already planned for this date"),
	}
	handler := NewInspectionHandler(mockSvc)

	payload, _ := json.Marshal(dto.CreateInspectionRequest{Name: "Spring Review", Date: "2026-03-20"})
	w := httptest.NewRecorder()
	c := adminContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/inspections", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestInspectionHandlerStartStateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &inspectionServiceMock{
		startErr: appErrors.Clone(appErrors.ErrInspectionState, "no inspection planned for today"),
	}
	handler := NewInspectionHandler(mockSvc)

	w := httptest.NewRecorder()
	c := adminContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/inspections/start", nil)
	c.Request = req

	handler.Start(c)
	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.True(t, mockSvc.startCalled)
}

func TestInspectionHandlerStartReturnsState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &inspectionServiceMock{
		stateResp: &dto.InspectionStateResponse{State: models.InspectionStateActive, ActiveCadets: 12},
	}
	handler := NewInspectionHandler(mockSvc)

	w := httptest.NewRecorder()
	c := adminContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/inspections/start", nil)
	c.Request = req

	handler.Start(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data dto.InspectionStateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.InspectionStateActive, body.Data.State)
	assert.Equal(t, 12, body.Data.ActiveCadets)
}

func TestInspectionHandlerStop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &inspectionServiceMock{
		stateResp: &dto.InspectionStateResponse{State: models.InspectionStateFinished},
	}
	handler := NewInspectionHandler(mockSvc)

	payload, _ := json.Marshal(dto.StopInspectionRequest{Time: "17:30"})
	w := httptest.NewRecorder()
	c := adminContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/inspections/insp-1/stop", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "insp-1"}}

	handler.Stop(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.stopCalled)
	assert.Equal(t, "insp-1", mockSvc.stopID)
	assert.Equal(t, "17:30", mockSvc.stopReq.Time)
}
