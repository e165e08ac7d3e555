package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanctionwatch/app-server/internal/config"
	"github.com/sanctionwatch/app-server/internal/database"
	"github.com/sanctionwatch/app-server/internal/handlers"
	"github.com/sanctionwatch/app-server/internal/middleware"
)

// Handlers groups everything the router dispatches to
type Handlers struct {
	App     *handlers.AppHandler
	Webhook *handlers.WebhookHandler
	Report  *handlers.ReportHandler
}

// SetupRoutes registers every route once at startup
func SetupRoutes(router *gin.Engine, h Handlers, shops database.ShopRepository, rateLimiter *middleware.RateLimiter, security config.SecurityConfig, gatherer prometheus.Gatherer) {
	appGroup := router.Group("/app")
	appGroup.Use(rateLimiter.Middleware())
	{
		// Signed with the app secret or verified against the stored shop secret
		// inside the handshake itself.
		appGroup.GET("/register", h.App.Register)
		appGroup.POST("/register/confirm", h.App.Confirm)

		signed := appGroup.Group("", middleware.ShopSignature(shops))
		signed.POST("/lifecycle/deleted", h.App.Deleted)
		signed.POST("/action-button/product", h.Webhook.ProductAction)
		signed.POST("/event/order-placed", h.Webhook.OrderPlaced)
		signed.POST("/order/check-sanction", h.Webhook.CheckSanction)
	}

	public := router.Group("")
	public.Use(middleware.CORS(security.AllowedOrigins))
	{
		public.GET("/", middleware.SecureHeadersMiddleware(middleware.NewSecureHeadersConfig(security)), h.Report.List)
		public.GET("/health", handlers.Health)
		public.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}
