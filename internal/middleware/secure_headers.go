package middleware

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sanctionwatch/app-server/internal/config"
)

// SecureHeadersConfig contains configuration for secure headers
type SecureHeadersConfig struct {
	// HSTS settings
	UseHSTS               bool
	HSTSMaxAge            time.Duration
	HSTSIncludeSubdomains bool

	// CSP settings
	UseCSP        bool
	CSPDirectives map[string]string

	XFrameOptions  string
	ReferrerPolicy string
}

// NewSecureHeadersConfig builds the header set for the report page
func NewSecureHeadersConfig(cfg config.SecurityConfig) SecureHeadersConfig {
	return SecureHeadersConfig{
		UseHSTS:               cfg.HSTSMaxAge > 0,
		HSTSMaxAge:            cfg.HSTSMaxAge,
		HSTSIncludeSubdomains: true,

		UseCSP: true,
		CSPDirectives: map[string]string{
			"default-src": "'self'",
			"style-src":   "'self' 'unsafe-inline'",
			"img-src":     "'self' data:",
			"object-src":  "'none'",
			"base-uri":    "'self'",
		},

		XFrameOptions:  cfg.FrameOptions,
		ReferrerPolicy: "strict-origin-when-cross-origin",
	}
}

// SecureHeadersMiddleware adds security headers to responses
func SecureHeadersMiddleware(cfg SecureHeadersConfig) gin.HandlerFunc {
	hsts := ""
	if cfg.UseHSTS {
		hsts = "max-age=" + strconv.FormatInt(int64(cfg.HSTSMaxAge.Seconds()), 10)
		if cfg.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
	}

	csp := ""
	if cfg.UseCSP {
		directives := make([]string, 0, len(cfg.CSPDirectives))
		for directive, value := range cfg.CSPDirectives {
			directives = append(directives, directive+" "+value)
		}
		sort.Strings(directives)
		csp = strings.Join(directives, "; ")
	}

	return func(c *gin.Context) {
		if hsts != "" {
			c.Header("Strict-Transport-Security", hsts)
		}
		if csp != "" {
			c.Header("Content-Security-Policy", csp)
		}
		if cfg.XFrameOptions != "" {
			c.Header("X-Frame-Options", cfg.XFrameOptions)
		}
		c.Header("X-Content-Type-Options", "nosniff")
		if cfg.ReferrerPolicy != "" {
			c.Header("Referrer-Policy", cfg.ReferrerPolicy)
		}

		c.Next()
	}
}

// CORS allows read access to the public pages from the configured origins.
// With no origins configured every origin is allowed.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cors.New(cfg)
}
