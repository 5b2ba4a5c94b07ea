package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/service"
)

// MockInteractionService mocks the InteractionService interface
type MockInteractionService struct {
	mock.Mock
}

func (m *MockInteractionService) RecordDownload(ctx context.Context, materialID string, meta service.InteractionMeta) (string, error) {
	args := m.Called(ctx, materialID, meta)
	return args.String(0), args.Error(1)
}

func (m *MockInteractionService) RecordView(ctx context.Context, materialID string, meta service.InteractionMeta) error {
	args := m.Called(ctx, materialID, meta)
	return args.Error(0)
}

func (m *MockInteractionService) ReconcileCounters(ctx context.Context, materialID string) error {
	args := m.Called(ctx, materialID)
	return args.Error(0)
}

func TestDownload_ReturnsFileURL(t *testing.T) {
	svc := new(MockInteractionService)
	handler := NewInteractionHandler(svc)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/api/materials"))

	svc.On("RecordDownload", mock.Anything, "m-1", mock.AnythingOfType("service.InteractionMeta")).
		Return("https://example.com/m-1.pdf", nil)

	req, _ := http.NewRequest("POST", "/api/materials/m-1/download", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "https://example.com/m-1.pdf", response["file_url"])
}

func TestDownload_UnknownMaterial(t *testing.T) {
	svc := new(MockInteractionService)
	handler := NewInteractionHandler(svc)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/api/materials"))

	svc.On("RecordDownload", mock.Anything, "missing", mock.AnythingOfType("service.InteractionMeta")).
		Return("", service.ErrMaterialNotFound)

	req, _ := http.NewRequest("POST", "/api/materials/missing/download", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestView_NoContentOnSuccess(t *testing.T) {
	svc := new(MockInteractionService)
	handler := NewInteractionHandler(svc)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/api/materials"))

	svc.On("RecordView", mock.Anything, "m-1", mock.AnythingOfType("service.InteractionMeta")).
		Return(nil)

	req, _ := http.NewRequest("POST", "/api/materials/m-1/view", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestReconcile_RewritesCounters(t *testing.T) {
	svc := new(MockInteractionService)
	handler := NewInteractionHandler(svc)
	router := setupRouter()
	admin := router.Group("/api/admin/materials", func(c *gin.Context) {
		c.Set("role", "admin")
	})
	handler.RegisterAdminRoutes(admin)

	svc.On("ReconcileCounters", mock.Anything, "m-1").Return(nil)

	req, _ := http.NewRequest("POST", "/api/admin/materials/m-1/reconcile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestReconcile_RequiresAdminRole(t *testing.T) {
	svc := new(MockInteractionService)
	handler := NewInteractionHandler(svc)
	router := setupRouter()
	user := router.Group("/api/admin/materials", func(c *gin.Context) {
		c.Set("role", "user")
	})
	handler.RegisterAdminRoutes(user)

	req, _ := http.NewRequest("POST", "/api/admin/materials/m-1/reconcile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "ReconcileCounters", mock.Anything, mock.Anything)
}
