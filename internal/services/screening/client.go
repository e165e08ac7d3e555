package screening

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sanctionwatch/app-server/internal/apperrors"
	"github.com/sanctionwatch/app-server/internal/models"
)

// maxResponseSize caps how much of the screening response is read.
const maxResponseSize = 1 << 20

// Client asks the external sanctions list service about a person
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a screening client posting to url
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Check screens the customer's full name. The returned result keeps the
// response body untouched in Raw.
func (c *Client) Check(ctx context.Context, customer models.Customer) (*models.ScreeningResult, error) {
	if !customer.Valid() {
		return nil, apperrors.MalformedPayload("customer needs a first and last name", nil)
	}

	payload, err := json.Marshal([]models.ScreeningQuery{models.NewPersonQuery(customer)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal screening query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create screening request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Network("screening service unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, apperrors.Network("failed to read screening response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.Network(fmt.Sprintf("screening service returned status %d", resp.StatusCode), nil)
	}

	var verdict struct {
		Hit *bool `json:"hit"`
	}
	if err := json.Unmarshal(body, &verdict); err != nil {
		return nil, apperrors.Parse("screening response is not valid JSON", err)
	}
	if verdict.Hit == nil {
		return nil, apperrors.Parse("screening response has no hit field", nil)
	}

	return &models.ScreeningResult{
		Hit: *verdict.Hit,
		Raw: json.RawMessage(body),
	}, nil
}
