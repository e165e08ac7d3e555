package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sanctionwatch/app-server/internal/apperrors"
	"github.com/sanctionwatch/app-server/internal/middleware"
	"github.com/sanctionwatch/app-server/internal/models"
	"github.com/sanctionwatch/app-server/internal/services/platform"
)

// SanctionFlow screens customers for webhooks and action buttons
type SanctionFlow interface {
	OnOrderPlaced(ctx context.Context, shop *models.Shop, evt *models.OrderPlacedEvent) (json.RawMessage, error)
	OnCheckSanctionRequest(ctx context.Context, shop *models.Shop, evt *models.CheckSanctionEvent) (json.RawMessage, error)
}

// ActionResponse is an instruction for the administration UI
type ActionResponse struct {
	ActionType string              `json:"actionType"`
	Payload    NotificationPayload `json:"payload"`
}

type NotificationPayload struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WebhookHandler handles webhooks and action buttons sent by shops
type WebhookHandler struct {
	flow SanctionFlow
	log  *logrus.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(flow SanctionFlow, log *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{
		flow: flow,
		log:  log,
	}
}

// OrderPlaced screens the customer of a placed order and echoes the order
func (h *WebhookHandler) OrderPlaced(c *gin.Context) {
	shop, ok := middleware.ShopFromContext(c)
	if !ok {
		fail(c, apperrors.Unauthorized("request is not signed by a shop"))
		return
	}

	evt, err := models.ParseOrderPlacedEvent(middleware.RawBody(c))
	if err != nil {
		fail(c, err)
		return
	}

	order, err := h.flow.OnOrderPlaced(c.Request.Context(), shop, evt)
	if err != nil {
		fail(c, err)
		return
	}

	middleware.SignedJSON(c, http.StatusOK, shop, order)
}

// CheckSanction screens the order selected in the administration
func (h *WebhookHandler) CheckSanction(c *gin.Context) {
	shop, ok := middleware.ShopFromContext(c)
	if !ok {
		fail(c, apperrors.Unauthorized("request is not signed by a shop"))
		return
	}

	evt, err := models.ParseCheckSanctionEvent(middleware.RawBody(c))
	if err != nil {
		fail(c, err)
		return
	}

	result, err := h.flow.OnCheckSanctionRequest(c.Request.Context(), shop, evt)
	if err != nil {
		fail(c, err)
		return
	}

	middleware.SignedJSON(c, http.StatusOK, shop, result)
}

// ProductAction answers the product detail action button with a notification
func (h *WebhookHandler) ProductAction(c *gin.Context) {
	shop, ok := middleware.ShopFromContext(c)
	if !ok {
		fail(c, apperrors.Unauthorized("request is not signed by a shop"))
		return
	}

	evt, err := models.ParseActionEvent(middleware.RawBody(c))
	if err != nil {
		fail(c, err)
		return
	}
	h.log.WithField("shop_id", evt.Source.ShopID).Info("Product action button clicked")

	body, err := json.Marshal(ActionResponse{
		ActionType: "notification",
		Payload: NotificationPayload{
			Status:  platform.StatusSuccess,
			Message: "YEAA",
		},
	})
	if err != nil {
		fail(c, err)
		return
	}

	middleware.SignedJSON(c, http.StatusOK, shop, body)
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
