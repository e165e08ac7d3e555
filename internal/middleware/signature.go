package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanctionwatch/app-server/internal/apperrors"
	"github.com/sanctionwatch/app-server/internal/database"
	"github.com/sanctionwatch/app-server/internal/models"
	"github.com/sanctionwatch/app-server/internal/security"
)

const (
	shopKey    = "shop"
	rawBodyKey = "rawBody"

	maxBodyBytes = 1 << 20 // 1MB
)

type shopIdentity struct {
	Source struct {
		ShopID string `json:"shopId"`
	} `json:"source"`
	ShopID string `json:"shopId"`
}

// ShopSignature authenticates requests sent by a registered shop. The shop is
// looked up from source.shopId (or a top level shopId) and the raw body must
// carry a valid shopware-shop-signature for that shop's secret.
func ShopSignature(shops database.ShopRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
		if err != nil {
			abortWithError(c, apperrors.MalformedPayload("failed to read request body", err))
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		var identity shopIdentity
		if err := json.Unmarshal(body, &identity); err != nil {
			abortWithError(c, apperrors.MalformedPayload("request body is not valid JSON", err))
			return
		}
		shopID := identity.Source.ShopID
		if shopID == "" {
			shopID = identity.ShopID
		}
		if shopID == "" {
			abortWithError(c, apperrors.Unauthorized("missing shop id"))
			return
		}

		shop, err := shops.Get(c.Request.Context(), shopID)
		if errors.Is(err, database.ErrShopNotFound) {
			abortWithError(c, apperrors.Unauthorized("unknown shop"))
			return
		}
		if err != nil {
			abortWithError(c, apperrors.Storage("failed to load shop", err))
			return
		}

		if !security.Verify(shop.Secret, body, c.GetHeader(security.ShopSignatureHeader)) {
			abortWithError(c, apperrors.Unauthorized("invalid shop signature"))
			return
		}

		c.Set(shopKey, shop)
		c.Set(rawBodyKey, body)
		c.Next()
	}
}

// ShopFromContext returns the shop authenticated by ShopSignature.
func ShopFromContext(c *gin.Context) (*models.Shop, bool) {
	v, ok := c.Get(shopKey)
	if !ok {
		return nil, false
	}
	shop, ok := v.(*models.Shop)
	return shop, ok
}

// RawBody returns the request body as it was verified.
func RawBody(c *gin.Context) []byte {
	v, ok := c.Get(rawBodyKey)
	if !ok {
		return nil
	}
	body, _ := v.([]byte)
	return body
}

// SignedJSON writes body and signs it with the shop secret so the platform
// can trust the response.
func SignedJSON(c *gin.Context, status int, shop *models.Shop, body []byte) {
	c.Header(security.AppSignatureHeader, security.Sign(shop.Secret, body))
	c.Data(status, "application/json", body)
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
