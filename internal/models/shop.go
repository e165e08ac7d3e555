package models

import "time"

// Shop is a platform installation that registered this app.
type Shop struct {
	ID        string    `json:"shop_id"`
	URL       string    `json:"shop_url"`
	Secret    string    `json:"shop_secret"`
	APIKey    string    `json:"api_key,omitempty"`
	SecretKey string    `json:"secret_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HasCredentials reports whether the registration was confirmed.
func (s *Shop) HasCredentials() bool {
	return s.APIKey != "" && s.SecretKey != ""
}
