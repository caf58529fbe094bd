package handlers

import (
	"MenuScout/controllers"
	"MenuScout/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterMenuRoutes sets up the menu scraping routes
func RegisterMenuRoutes(router *gin.RouterGroup, menuController *controllers.MenuController) {
	router.POST("/doordash_getmenu", menuController.GetDoorDashMenu)
	router.POST("/ubereats_getmenu", menuController.GetUberEatsMenu)
	router.POST("/doordash_ordermenu", menuController.OrderDoorDashMenu)

	router.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, http.StatusOK, "ok", nil)
	})
}
