package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sanctionwatch/app-server/internal/apperrors"
	"github.com/sanctionwatch/app-server/internal/middleware"
)

// MockReportLister is a mock implementation of the ReportLister interface
type MockReportLister struct {
	mock.Mock
}

func (m *MockReportLister) ListReports(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func setupReportRouter(reports ReportLister) *gin.Engine {
	router := gin.New()
	router.Use(middleware.ErrorHandler(quietLogger()))
	router.GET("/", NewReportHandler(reports).List)
	router.GET("/health", Health)
	return router
}

func TestReportList(t *testing.T) {
	reports := new(MockReportLister)
	reports.On("ListReports", mock.Anything).Return("<html><title>Sanction list</title></html>", nil)

	recorder := httptest.NewRecorder()
	setupReportRouter(reports).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "text/html; charset=utf-8", recorder.Header().Get("Content-Type"))
	assert.Contains(t, recorder.Body.String(), "Sanction list")
}

func TestReportListStorageFailure(t *testing.T) {
	reports := new(MockReportLister)
	reports.On("ListReports", mock.Anything).
		Return("", apperrors.Storage("failed to load sanction reports", errors.New("connection refused")))

	recorder := httptest.NewRecorder()
	setupReportRouter(reports).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.JSONEq(t, `{"error":"failed to load sanction reports"}`, recorder.Body.String())
}

func TestHealth(t *testing.T) {
	recorder := httptest.NewRecorder()
	setupReportRouter(new(MockReportLister)).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
}
