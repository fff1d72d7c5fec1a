package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/liancar/yard/internal/config"
	"github.com/liancar/yard/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted under /api.
type Handlers struct {
	Yard    *handlers.YardHandler
	Finance *handlers.FinanceHandler
	Reports *handlers.ReportHandler
	// Webhook is optional; the WhatsApp callback routes are mounted only when set.
	Webhook *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(cfg config.ServerConfig, h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	handlers.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(corsMiddleware(cfg.AllowedOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
	}

	api := r.Group("/api")
	{
		api.GET("/catalog", h.Yard.Catalog)
		api.GET("/board", h.Yard.Board)

		services := api.Group("/services")
		services.GET("", h.Yard.List)
		services.POST("", h.Yard.Schedule)
		services.GET("/:id", h.Yard.Get)
		services.POST("/:id/advance", h.Yard.Advance)
		services.PUT("/:id/status", h.Yard.SetStatus)
		services.GET("/:id/receipt", h.Yard.Receipt)

		api.GET("/dashboard", h.Finance.Dashboard)
		api.GET("/expenses", h.Finance.ListExpenses)
		api.POST("/expenses", h.Finance.AddExpense)

		api.GET("/export/services.csv", h.Yard.ExportCSV)
		api.GET("/reports/export", h.Finance.ExportReport)
		api.GET("/reports/daily", h.Reports.History)
		api.POST("/reports/daily", h.Reports.CloseDay)
		api.POST("/messages", h.Reports.SendMessage)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions}
	cfg.ExposeHeaders = []string{"Content-Disposition"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
