package registration

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sanctionwatch/app-server/internal/apperrors"
	"github.com/sanctionwatch/app-server/internal/database"
	"github.com/sanctionwatch/app-server/internal/models"
	"github.com/sanctionwatch/app-server/internal/security"
)

const (
	confirmPath     = "/app/register/confirm"
	shopSecretBytes = 32
)

// Response is returned to the shop when it starts the installation
type Response struct {
	Proof           string `json:"proof"`
	Secret          string `json:"secret"`
	ConfirmationURL string `json:"confirmation_url"`
}

// Confirmation carries the API credentials the shop created for the app
type Confirmation struct {
	APIKey    string `json:"apiKey"`
	SecretKey string `json:"secretKey"`
	Timestamp string `json:"timestamp"`
	ShopURL   string `json:"shopUrl"`
	ShopID    string `json:"shopId"`
}

// Service runs the two step app installation handshake
type Service struct {
	appName   string
	appSecret string
	appURL    string
	shops     database.ShopRepository
	log       *logrus.Logger
	now       func() time.Time
}

func NewService(appName, appSecret, appURL string, shops database.ShopRepository, log *logrus.Logger) *Service {
	return &Service{
		appName:   appName,
		appSecret: appSecret,
		appURL:    strings.TrimRight(appURL, "/"),
		shops:     shops,
		log:       log,
		now:       time.Now,
	}
}

// Register verifies the app signature over the raw query string, stores the
// shop with a fresh secret and returns the proof of the app's identity.
func (s *Service) Register(ctx context.Context, rawQuery, signature string) (*Response, error) {
	if !security.Verify(s.appSecret, []byte(rawQuery), signature) {
		return nil, apperrors.Unauthorized("invalid app signature")
	}

	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, apperrors.MalformedPayload("invalid registration query", err)
	}
	shopID := query.Get("shop-id")
	shopURL := query.Get("shop-url")
	if shopID == "" || shopURL == "" {
		return nil, apperrors.MalformedPayload("registration requires shop-id and shop-url", nil)
	}

	secret, err := security.GenerateSecret(shopSecretBytes)
	if err != nil {
		return nil, err
	}

	shop := &models.Shop{
		ID:        shopID,
		URL:       strings.TrimRight(shopURL, "/"),
		Secret:    secret,
		CreatedAt: s.now().UTC(),
	}
	if err := s.shops.Save(ctx, shop); err != nil {
		return nil, apperrors.Storage("failed to save shop", err)
	}

	s.log.WithFields(logrus.Fields{"shop_id": shopID, "shop_url": shopURL}).Info("Shop registration started")

	return &Response{
		Proof:           security.Sign(s.appSecret, []byte(shopID+shopURL+s.appName)),
		Secret:          secret,
		ConfirmationURL: s.appURL + confirmPath,
	}, nil
}

// Confirm stores the API credentials once the shop signed them with its secret.
func (s *Service) Confirm(ctx context.Context, body []byte, signature string, c Confirmation) error {
	if c.ShopID == "" || c.APIKey == "" || c.SecretKey == "" {
		return apperrors.MalformedPayload("confirmation requires shopId, apiKey and secretKey", nil)
	}

	shop, err := s.shops.Get(ctx, c.ShopID)
	if errors.Is(err, database.ErrShopNotFound) {
		return apperrors.Unauthorized("unknown shop")
	}
	if err != nil {
		return apperrors.Storage("failed to load shop", err)
	}

	if !security.Verify(shop.Secret, body, signature) {
		return apperrors.Unauthorized("invalid shop signature")
	}

	shop.APIKey = c.APIKey
	shop.SecretKey = c.SecretKey
	if c.ShopURL != "" {
		shop.URL = strings.TrimRight(c.ShopURL, "/")
	}
	if err := s.shops.Save(ctx, shop); err != nil {
		return apperrors.Storage("failed to save shop credentials", err)
	}

	s.log.WithField("shop_id", shop.ID).Info("Shop registration confirmed")
	return nil
}

// Uninstall forgets a shop after the platform reports the app as deleted.
func (s *Service) Uninstall(ctx context.Context, shopID string) error {
	if err := s.shops.Delete(ctx, shopID); err != nil {
		return apperrors.Storage("failed to delete shop", err)
	}
	s.log.WithField("shop_id", shopID).Info("Shop uninstalled app")
	return nil
}
