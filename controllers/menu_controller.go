package controllers

import (
	"MenuScout/models"
	"MenuScout/services"
	"MenuScout/utils"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MenuController struct
type MenuController struct {
	ScrapeService  *services.ScrapeService
	MenuRepository *services.MenuRepository
}

// NewMenuController initializes MenuController
func NewMenuController() *MenuController {
	return &MenuController{
		ScrapeService:  services.NewScrapeService(),
		MenuRepository: services.NewMenuRepository(),
	}
}

// OrderRequest is the JSON body of the order-and-customize variant
type OrderRequest struct {
	URL           string   `json:"url" binding:"required"`
	MenuID        string   `json:"menu_id" binding:"required"`
	ItemName      string   `json:"item_name"`
	SelectedItems []string `json:"selected_items"`
}

// GetDoorDashMenu scrapes a full DoorDash menu
func (h *MenuController) GetDoorDashMenu(c *gin.Context) {
	h.getMenu(c, services.DoorDash)
}

// GetUberEatsMenu scrapes a full UberEats menu
func (h *MenuController) GetUberEatsMenu(c *gin.Context) {
	h.getMenu(c, services.UberEats)
}

func (h *MenuController) getMenu(c *gin.Context, platform services.Platform) {
	url := c.Query("url")
	menuID := c.Query("menu_id")
	if url == "" || menuID == "" {
		c.Error(utils.NewCustomError(http.StatusBadRequest, "Please provide both 'url' and 'menu_id'"))
		return
	}

	log.Printf("Scraping %s menu %s from %s", platform.Name, menuID, url)
	menu, err := h.ScrapeService.ScrapeMenu(c.Request.Context(), platform, url, menuID)
	if err != nil {
		c.Error(utils.NewCustomError(http.StatusInternalServerError, err.Error()))
		return
	}

	h.persist(c, menu, platform)
	c.JSON(http.StatusOK, gin.H{"data": menu})
}

// OrderDoorDashMenu scrapes one item, applies the requested customizations on
// the live page and returns the filtered menu
func (h *MenuController) OrderDoorDashMenu(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(utils.NewCustomError(http.StatusBadRequest, "Please provide 'url', 'menu_id', and 'item_name'"))
		return
	}

	menu, err := h.ScrapeService.ScrapeAndOrder(c.Request.Context(), services.DoorDash, req.URL, req.MenuID, req.ItemName, req.SelectedItems)
	if err != nil {
		c.Error(utils.NewCustomError(http.StatusInternalServerError, err.Error()))
		return
	}

	h.persist(c, menu, services.DoorDash)
	c.JSON(http.StatusOK, gin.H{"data": menu})
}

// persist runs the sinks. Persistence problems are logged, not surfaced: the
// caller still gets the scraped menu.
func (h *MenuController) persist(c *gin.Context, menu models.Menu, platform services.Platform) {
	if path, err := h.MenuRepository.SaveToFile(menu, platform.Name); err != nil {
		log.Printf("⚠️ Failed to save menu file: %v", err)
	} else {
		log.Printf("Menu saved to %s", path)
	}
	if err := h.MenuRepository.SaveToFirestore(c.Request.Context(), menu, platform.Name); err != nil {
		log.Printf("⚠️ Failed to store menu in Firestore: %v", err)
	}
}
