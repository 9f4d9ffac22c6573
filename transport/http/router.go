package http

import (
	"github.com/gin-gonic/gin"
	"github.com/layer-3/didauth/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(challenger *service.Challenger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Create handlers
	handlers := NewAuthHandlers(challenger)

	// DID-Auth routes
	auth := router.Group("/did-auth")
	{
		auth.POST("/create-did-auth-request", handlers.CreateRequest)
		auth.POST("/logout", handlers.Logout)
	}

	// Protected API routes
	api := router.Group("/api")
	api.Use(AuthMiddleware(challenger))
	{
		api.GET("/me", handlers.Me)
	}

	return router
}
