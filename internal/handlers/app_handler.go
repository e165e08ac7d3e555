package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanctionwatch/app-server/internal/apperrors"
	"github.com/sanctionwatch/app-server/internal/middleware"
	"github.com/sanctionwatch/app-server/internal/security"
	"github.com/sanctionwatch/app-server/internal/services/registration"
)

const maxConfirmBytes = 1 << 16

// Registrar runs the app installation lifecycle
type Registrar interface {
	Register(ctx context.Context, rawQuery, signature string) (*registration.Response, error)
	Confirm(ctx context.Context, body []byte, signature string, c registration.Confirmation) error
	Uninstall(ctx context.Context, shopID string) error
}

// AppHandler handles app registration and lifecycle events
type AppHandler struct {
	registrar Registrar
}

// NewAppHandler creates a new app handler
func NewAppHandler(registrar Registrar) *AppHandler {
	return &AppHandler{registrar: registrar}
}

// Register starts the installation handshake
func (h *AppHandler) Register(c *gin.Context) {
	resp, err := h.registrar.Register(c.Request.Context(), c.Request.URL.RawQuery, c.GetHeader(security.AppSignatureHeader))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Confirm stores the API credentials sent by the shop
func (h *AppHandler) Confirm(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxConfirmBytes))
	if err != nil {
		fail(c, apperrors.MalformedPayload("failed to read request body", err))
		return
	}

	var confirmation registration.Confirmation
	if err := json.Unmarshal(body, &confirmation); err != nil {
		fail(c, apperrors.MalformedPayload("invalid confirmation payload", err))
		return
	}

	if err := h.registrar.Confirm(c.Request.Context(), body, c.GetHeader(security.ShopSignatureHeader), confirmation); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Deleted forgets a shop that uninstalled the app
func (h *AppHandler) Deleted(c *gin.Context) {
	shop, ok := middleware.ShopFromContext(c)
	if !ok {
		fail(c, apperrors.Unauthorized("request is not signed by a shop"))
		return
	}

	if err := h.registrar.Uninstall(c.Request.Context(), shop.ID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
