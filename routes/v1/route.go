package route

import (
	"MenuScout/controllers"
	"MenuScout/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes initializes all routes
func RegisterRoutes(router *gin.Engine) {
	menuController := controllers.NewMenuController()

	v1Routes := router.Group("/v1")
	{
		handlers.RegisterMenuRoutes(v1Routes, menuController)
	}
}
