package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/sanctionwatch/app-server/internal/apperrors"
	"github.com/sanctionwatch/app-server/internal/models"
)

const (
	tokenPath        = "/api/oauth/token"
	notificationPath = "/api/notification"
	orderSearchPath  = "/api/search/order"

	maxResponseSize = 4 << 20
)

// Notification statuses understood by the platform.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
	StatusInfo    = "info"
)

// Client calls the Admin API of one shop, authenticated with the shop's
// integration credentials.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientFactory builds a Client per shop
type ClientFactory struct {
	timeout time.Duration
}

// NewClientFactory creates a factory whose clients use timeout for every call,
// including token requests
func NewClientFactory(timeout time.Duration) *ClientFactory {
	return &ClientFactory{timeout: timeout}
}

// ForShop returns a client for shop. The shop must have confirmed its registration.
func (f *ClientFactory) ForShop(shop *models.Shop) (*Client, error) {
	if !shop.HasCredentials() {
		return nil, apperrors.Unauthorized("shop " + shop.ID + " has no API credentials")
	}
	return NewClient(shop.URL, shop.APIKey, shop.SecretKey, f.timeout), nil
}

// NewClient creates a client for the shop at shopURL
func NewClient(shopURL, clientID, clientSecret string, timeout time.Duration) *Client {
	baseURL := strings.TrimRight(shopURL, "/")

	cc := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     baseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	// the token source keeps this context for refreshes, not the request one
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: timeout})
	httpClient := cc.Client(tokenCtx)
	httpClient.Timeout = timeout

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Notify shows a notification in the shop administration
func (c *Client) Notify(ctx context.Context, status, message string) error {
	payload := map[string]string{
		"status":  status,
		"message": message,
	}
	if _, err := c.post(ctx, notificationPath, payload); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

// SearchOrders loads orders by id. The result is empty when none match.
func (c *Client) SearchOrders(ctx context.Context, ids []string) ([]models.Order, error) {
	body, err := c.post(ctx, orderSearchPath, map[string][]string{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("search orders: %w", err)
	}

	var result struct {
		Data []models.Order `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.Parse("order search response is not valid JSON", err)
	}
	return result.Data, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Network("shop API unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, apperrors.Network("failed to read shop API response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.Network(fmt.Sprintf("shop API %s returned status %d", path, resp.StatusCode), nil)
	}

	return body, nil
}
