package routes

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/sanctionwatch/app-server/internal/config"
	"github.com/sanctionwatch/app-server/internal/database"
	"github.com/sanctionwatch/app-server/internal/handlers"
	"github.com/sanctionwatch/app-server/internal/metrics"
	"github.com/sanctionwatch/app-server/internal/middleware"
	"github.com/sanctionwatch/app-server/internal/models"
	"github.com/sanctionwatch/app-server/internal/services/platform"
	"github.com/sanctionwatch/app-server/internal/services/registration"
	"github.com/sanctionwatch/app-server/internal/services/report"
	"github.com/sanctionwatch/app-server/internal/services/sanction"
	"github.com/sanctionwatch/app-server/internal/services/screening"
)

type memoryReports struct {
	rows []models.SanctionReport
}

func (m *memoryReports) Insert(_ context.Context, r *models.SanctionReport) error {
	m.rows = append(m.rows, *r)
	return nil
}

func (m *memoryReports) List(context.Context) ([]models.SanctionReport, error) {
	return m.rows, nil
}

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	shops := database.NewRedisShopRepository(client)

	reports := &memoryReports{rows: []models.SanctionReport{{
		OrderID:      "order-1",
		ShopID:       "shop-1",
		CustomerName: "Max Mustermann",
		CreatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}}}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	flow := sanction.NewService(
		screening.NewClient("http://127.0.0.1:0", time.Second),
		sanction.PlatformFactory{ClientFactory: platform.NewClientFactory(time.Second)},
		reports, m, log,
	)

	rl := middleware.NewRateLimiter(config.DefaultSecurityConfig())
	t.Cleanup(rl.Stop)

	router := gin.New()
	router.Use(middleware.ErrorHandler(log))
	SetupRoutes(router, Handlers{
		App:     handlers.NewAppHandler(registration.NewService("SanctionWatch", "app-secret", "https://app.example", shops, log)),
		Webhook: handlers.NewWebhookHandler(flow, log),
		Report:  handlers.NewReportHandler(report.NewService(reports)),
	}, shops, rl, config.DefaultSecurityConfig(), registry)
	return router
}

func TestPublicRoutes(t *testing.T) {
	router := setupRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Max Mustermann")
	assert.Equal(t, "nosniff", recorder.Header().Get("X-Content-Type-Options"))

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "sanctionwatch_")
}

func TestAppRoutesRequireShopSignature(t *testing.T) {
	router := setupRouter(t)

	for _, path := range []string{
		"/app/lifecycle/deleted",
		"/app/action-button/product",
		"/app/event/order-placed",
		"/app/order/check-sanction",
	} {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(`{"source":{"shopId":"shop-1"}}`)))
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code, path)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/app/register?shop-id=a&shop-url=b", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
