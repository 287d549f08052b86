package controllers

import (
	"github.com/gin-gonic/gin"

	"tripweaver/internal/services"
	"tripweaver/pkg/utils"
)

type CatalogController struct {
	catalogService services.CatalogServiceInterface
}

func NewCatalogController(catalogService services.CatalogServiceInterface) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

func (cc *CatalogController) ListPOIs(c *gin.Context) {
	page, pageSize, ok := parsePaging(c)
	if !ok {
		return
	}

	destination := c.Query("destination")
	pois, err := cc.catalogService.ListPOIs(c.Request.Context(), destination, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, pois, "POIs fetched successfully")
}

func (cc *CatalogController) ListRestaurants(c *gin.Context) {
	page, pageSize, ok := parsePaging(c)
	if !ok {
		return
	}

	restaurants, err := cc.catalogService.ListRestaurants(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, restaurants, "Restaurants fetched successfully")
}

func (cc *CatalogController) ListHotels(c *gin.Context) {
	page, pageSize, ok := parsePaging(c)
	if !ok {
		return
	}

	hotels, err := cc.catalogService.ListHotels(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, hotels, "Hotels fetched successfully")
}
