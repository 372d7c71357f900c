// internal/app/router.go
package app

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authHandler "labportal-service/internal/handlers/auth"
	resultHandler "labportal-service/internal/handlers/results"
	wsHandler "labportal-service/internal/handlers/websocket"
	"labportal-service/internal/middleware"
)

type Handlers struct {
	AuthHandler    *authHandler.AuthHandler
	ResultHandler  *resultHandler.ResultHandler
	WSHandler      *wsHandler.WebSocketHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.GET("/oauth/callback", h.AuthHandler.OAuthCallback)
		authPublic.POST("/oauth/exchange", h.AuthHandler.OAuthExchange)
		authPublic.POST("/session", h.AuthHandler.CreateSession)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.GET("/me", h.AuthHandler.Me)
	}

	// ==================== Portal API ====================
	portal := api.Group("/portal")
	portal.Use(h.AuthMiddleware.Auth())
	{
		portal.GET("/results", h.ResultHandler.List)
		portal.GET("/results/:id/download", h.ResultHandler.Download)
	}

	// ==================== Admin API ====================
	admin := api.Group("/admin")
	admin.Use(h.AuthMiddleware.AdminOnly()...)
	{
		admin.POST("/results", h.ResultHandler.Publish)
		admin.GET("/ws/stats", h.WSHandler.GetStats)
	}

	// ==================== Page Gates ====================
	// The frontend serves these pages; the gate only decides whether the
	// visitor gets the page or a redirect to sign-in.
	pages := r.Group("/")
	pages.Use(h.AuthMiddleware.PageAuth())
	{
		pages.GET("/portal", pageOK)
		pages.GET("/portal/*page", pageOK)
		pages.GET("/admin", pageOK)
		pages.GET("/admin/*page", pageOK)
	}

	logger.Info("router configured")
}

func pageOK(c *gin.Context) {
	c.Status(200)
}
