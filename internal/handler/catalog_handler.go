package handler

import (
	"net/http"

	"clinicpos/internal/middleware"
	"clinicpos/internal/service"
	"clinicpos/pkg/pagination"
	"clinicpos/pkg/response"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/catalog", middleware.RequireAuth())
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListItems)
		items.GET("/:id", h.GetItem)
		items.PUT("/:id", h.UpdateItem)
		items.DELETE("/:id", h.DeleteItem)
	}
}

// CreateItem registers a serialized stock item
// @Summary      Create catalog item
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CatalogItemRequest  true  "Catalog Item Payload"
// @Success      201      {object}  response.Response{data=service.CatalogItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/catalog [post]
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req service.CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// ListItems returns a paginated list of catalog items
// @Summary      List catalog items
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status (AVAILABLE, SOLD)"
// @Param        search  query     string  false  "Search by brand, model, or serial number"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/catalog [get]
func (h *CatalogHandler) ListItems(c *gin.Context) {
	params := pagination.Parse(c)

	items, total, err := h.catalogService.ListItems(c.Request.Context(), c.Query("status"), c.Query("search"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// GetItem returns one catalog item
// @Summary      Get catalog item
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=service.CatalogItemResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/catalog/{id} [get]
func (h *CatalogHandler) GetItem(c *gin.Context) {
	item, err := h.catalogService.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// UpdateItem updates an AVAILABLE catalog item
// @Summary      Update catalog item
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Item ID"
// @Param        payload  body      service.CatalogItemRequest  true  "Catalog Item Payload"
// @Success      200      {object}  response.Response{data=service.CatalogItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/catalog/{id} [put]
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	var req service.CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteItem removes an AVAILABLE catalog item
// @Summary      Delete catalog item
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/catalog/{id} [delete]
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	if err := h.catalogService.DeleteItem(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
}
