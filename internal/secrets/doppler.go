// Package secrets resolves sensitive configuration through the Doppler CLI.
package secrets

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

const lookupTimeout = 5 * time.Second

// DopplerClient reads secrets for one Doppler project/config pair
type DopplerClient struct {
	Project     string
	Config      string
	initialized bool
}

// NewDopplerClient creates a new Doppler client
func NewDopplerClient(project, config string) *DopplerClient {
	return &DopplerClient{
		Project: project,
		Config:  config,
	}
}

// Initialize fails when the doppler binary is not on PATH
func (d *DopplerClient) Initialize() error {
	if _, err := exec.LookPath("doppler"); err != nil {
		return fmt.Errorf("doppler CLI not found: %w", err)
	}
	d.initialized = true
	return nil
}

// GetSecret returns key from the environment (set by `doppler run`) or asks the CLI
func (d *DopplerClient) GetSecret(key string) (string, error) {
	if !d.initialized {
		if err := d.Initialize(); err != nil {
			return "", err
		}
	}

	if value := os.Getenv(key); value != "" {
		return value, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "doppler", "secrets", "get", key,
		"--project", d.Project,
		"--config", d.Config,
		"--plain")

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", key, err)
	}

	return strings.TrimSpace(string(output)), nil
}

// GetSecretWithFallback gets a secret from Doppler with a fallback value
func (d *DopplerClient) GetSecretWithFallback(key, fallback string) string {
	value, err := d.GetSecret(key)
	if err != nil || value == "" {
		return fallback
	}
	return value
}
