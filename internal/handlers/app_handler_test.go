package handlers

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

	"github.com/sanctionwatch/app-server/internal/database"
	"github.com/sanctionwatch/app-server/internal/middleware"
	"github.com/sanctionwatch/app-server/internal/security"
	"github.com/sanctionwatch/app-server/internal/services/registration"
)

const testAppSecret = "app-secret"

func setupAppRouter(t *testing.T) (*gin.Engine, database.ShopRepository) {
	shops := setupShops(t)
	svc := registration.NewService("SanctionWatch", testAppSecret, "https://app.example", shops, quietLogger())
	h := NewAppHandler(svc)

	router := gin.New()
	router.Use(middleware.ErrorHandler(quietLogger()))
	router.GET("/app/register", h.Register)
	router.POST("/app/register/confirm", h.Confirm)
	router.POST("/app/lifecycle/deleted", middleware.ShopSignature(shops), h.Deleted)
	return router, shops
}

func TestRegisterAndConfirm(t *testing.T) {
	router, shops := setupAppRouter(t)
	query := "shop-id=shop-2&shop-url=https%3A%2F%2Fnew.example&timestamp=1700000000"

	req := httptest.NewRequest(http.MethodGet, "/app/register?"+query, nil)
	req.Header.Set(security.AppSignatureHeader, security.Sign(testAppSecret, []byte(query)))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp registration.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, security.Sign(testAppSecret, []byte("shop-2https://new.exampleSanctionWatch")), resp.Proof)
	assert.Equal(t, "https://app.example/app/register/confirm", resp.ConfirmationURL)
	require.NotEmpty(t, resp.Secret)

	body := []byte(`{"apiKey":"key-2","secretKey":"secret-2","timestamp":"1700000001","shopUrl":"https://new.example","shopId":"shop-2"}`)
	req = httptest.NewRequest(http.MethodPost, "/app/register/confirm", bytes.NewReader(body))
	req.Header.Set(security.ShopSignatureHeader, security.Sign(resp.Secret, body))
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	shop, err := shops.Get(context.Background(), "shop-2")
	require.NoError(t, err)
	assert.Equal(t, "key-2", shop.APIKey)
	assert.True(t, shop.HasCredentials())
}

func TestRegisterRejectsInvalidSignature(t *testing.T) {
	router, _ := setupAppRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/app/register?shop-id=x&shop-url=y", nil)
	req.Header.Set(security.AppSignatureHeader, "deadbeef")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestConfirmRejectsMalformedBody(t *testing.T) {
	router, _ := setupAppRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/app/register/confirm", bytes.NewReader([]byte(`{`)))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestLifecycleDeleted(t *testing.T) {
	router, shops := setupAppRouter(t)
	body := []byte(`{"source":{"shopId":"shop-1"},"data":{"event":"app.deleted"}}`)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, signedRequest(t, "/app/lifecycle/deleted", body))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	_, err := shops.Get(context.Background(), "shop-1")
	assert.ErrorIs(t, err, database.ErrShopNotFound)
}
