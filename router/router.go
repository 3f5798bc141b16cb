package router

import (
	"time"

	"invoicing/api"
	"invoicing/config"
	_ "invoicing/docs"
	"invoicing/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// login attempts allowed per client IP and window
const (
	loginAttempts = 10
	loginWindow   = 15 * time.Minute
)

// SetupRouter builds the HTTP routes
func SetupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(CORSMiddleware())

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		authHandler := api.NewAuthHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.LoginRateLimit(loginAttempts, loginWindow), authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			clientHandler := api.NewClientHandler(cfg)
			clients := authorized.Group("/clients")
			{
				clients.GET("", clientHandler.List)
				clients.POST("", clientHandler.Create)
				clients.GET("/:id", clientHandler.Get)
				clients.PUT("/:id", clientHandler.Update)
				clients.DELETE("/:id", clientHandler.Delete)
			}

			invoiceHandler := api.NewInvoiceHandler(cfg)
			invoices := authorized.Group("/invoices")
			{
				invoices.GET("", invoiceHandler.List)
				invoices.POST("", invoiceHandler.Create)
				invoices.GET("/:id", invoiceHandler.Get)
				invoices.PUT("/:id", invoiceHandler.Update)
				invoices.DELETE("/:id", invoiceHandler.Delete)

				// lines
				invoices.POST("/:id/items", invoiceHandler.AddItem)
				invoices.PUT("/:id/items/:itemId", invoiceHandler.UpdateItem)
				invoices.DELETE("/:id/items/:itemId", invoiceHandler.DeleteItem)
			}
			authorized.GET("/statistics/summary", invoiceHandler.Summary)

			exportHandler := api.NewExportHandler(cfg)
			export := authorized.Group("/export")
			{
				export.GET("/clients", exportHandler.Clients)
				export.GET("/invoices", exportHandler.Invoices)
				export.GET("/invoices/excel", exportHandler.InvoicesExcel)
				export.POST("/invoices/email", exportHandler.EmailInvoices)
			}

			configHandler := api.NewConfigHandler(cfg)
			authorized.GET("/config", configHandler.Get)
			authorized.PUT("/config", configHandler.Update)
			authorized.POST("/config/email/test", configHandler.TestEmail)
		}
	}

	// health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS headers for browser clients
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
