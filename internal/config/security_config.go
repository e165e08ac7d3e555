package config

import "time"

// SecurityConfig holds all security-related configuration
type SecurityConfig struct {
	// Rate limiting of /app routes, per client IP
	RateLimitRPS     float64
	RateLimitBurst   int
	RateLimitCleanup time.Duration

	// Secure headers on the report page
	HSTSMaxAge     time.Duration
	FrameOptions   string
	AllowedOrigins []string
}

// DefaultSecurityConfig returns the default security configuration
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		RateLimitRPS:     20,
		RateLimitBurst:   40,
		RateLimitCleanup: 5 * time.Minute,
		HSTSMaxAge:       365 * 24 * time.Hour,
		FrameOptions:     "SAMEORIGIN",
		AllowedOrigins:   []string{},
	}
}

// LoadSecurityConfig applies environment overrides to the defaults
func LoadSecurityConfig() SecurityConfig {
	cfg := DefaultSecurityConfig()

	cfg.RateLimitRPS = getEnvFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS)
	cfg.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", cfg.RateLimitBurst)
	cfg.RateLimitCleanup = getEnvDuration("RATE_LIMIT_CLEANUP", cfg.RateLimitCleanup)
	cfg.HSTSMaxAge = getEnvDuration("HSTS_MAX_AGE", cfg.HSTSMaxAge)
	cfg.FrameOptions = getEnv("FRAME_OPTIONS", cfg.FrameOptions)
	cfg.AllowedOrigins = getEnvList("ALLOWED_ORIGINS", cfg.AllowedOrigins)

	return cfg
}
