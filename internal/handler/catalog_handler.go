package handler

import (
	"net/http"

	"github.com/Xabartshik/TaskControl-sub001/internal/middleware"
	"github.com/Xabartshik/TaskControl-sub001/internal/repository"
	"github.com/Xabartshik/TaskControl-sub001/internal/service"
	"github.com/Xabartshik/TaskControl-sub001/pkg/pagination"
	"github.com/Xabartshik/TaskControl-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		api.GET("/branches", h.ListBranches)
		api.GET("/branches/:id", h.GetBranch)
		api.POST("/branches", middleware.RequireAuth(), h.CreateBranch)
		api.PUT("/branches/:id", middleware.RequireAuth(), h.UpdateBranch)
		api.DELETE("/branches/:id", middleware.RequireAuth(), h.DeleteBranch)

		api.GET("/items", h.ListItems)
		api.GET("/items/:id", h.GetItem)
		api.POST("/items", middleware.RequireAuth(), h.CreateItem)
		api.PUT("/items/:id", middleware.RequireAuth(), h.UpdateItem)
		api.DELETE("/items/:id", middleware.RequireAuth(), h.DeleteItem)

		api.GET("/positions", h.ListPositions)
		api.GET("/positions/:id", h.GetPosition)
		api.POST("/positions", middleware.RequireAuth(), h.CreatePosition)
		api.PUT("/positions/:id", middleware.RequireAuth(), h.UpdatePosition)
		api.DELETE("/positions/:id", middleware.RequireAuth(), h.DeletePosition)
	}
}

// --- Branches ---

// CreateBranch registers a new branch
// @Summary      Create branch
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.BranchRequest  true  "Create Branch Payload"
// @Success      201      {object}  response.Response{data=model.Branch}
// @Failure      400      {object}  response.Response
// @Router       /api/branches [post]
func (h *CatalogHandler) CreateBranch(c *gin.Context) {
	var req service.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	branch, err := h.catalogService.CreateBranch(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, branch))
}

// GetBranch returns one branch by id
// @Summary      Get branch
// @Tags         catalog
// @Produce      json
// @Param        id   path      int  true  "Branch ID"
// @Success      200  {object}  response.Response{data=model.Branch}
// @Failure      404  {object}  response.Response
// @Router       /api/branches/{id} [get]
func (h *CatalogHandler) GetBranch(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	branch, err := h.catalogService.GetBranch(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, branch))
}

// ListBranches returns a paginated branch listing
// @Summary      List branches
// @Tags         catalog
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /api/branches [get]
func (h *CatalogHandler) ListBranches(c *gin.Context) {
	params := pagination.Parse(c)

	branches, total, err := h.catalogService.ListBranches(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"branches": branches,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// UpdateBranch updates an existing branch
// @Summary      Update branch
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Param        id       path  int                    true  "Branch ID"
// @Param        payload  body  service.BranchRequest  true  "Update Branch Payload"
// @Success      204
// @Failure      404  {object}  response.Response
// @Router       /api/branches/{id} [put]
func (h *CatalogHandler) UpdateBranch(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if _, err := h.catalogService.UpdateBranch(c.Request.Context(), id, req); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteBranch removes a branch
// @Summary      Delete branch
// @Tags         catalog
// @Security     BearerAuth
// @Param        id  path  int  true  "Branch ID"
// @Success      204
// @Failure      404  {object}  response.Response
// @Router       /api/branches/{id} [delete]
func (h *CatalogHandler) DeleteBranch(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteBranch(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// --- Items ---

// CreateItem registers a new catalog item type
// @Summary      Create item
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ItemRequest  true  "Create Item Payload"
// @Success      201      {object}  response.Response{data=model.Item}
// @Failure      400      {object}  response.Response
// @Router       /api/items [post]
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req service.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// GetItem returns one item by id
// @Summary      Get item
// @Tags         catalog
// @Produce      json
// @Param        id   path      int  true  "Item ID"
// @Success      200  {object}  response.Response{data=model.Item}
// @Failure      404  {object}  response.Response
// @Router       /api/items/{id} [get]
func (h *CatalogHandler) GetItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := h.catalogService.GetItem(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// ListItems returns a paginated item listing
// @Summary      List items
// @Tags         catalog
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /api/items [get]
func (h *CatalogHandler) ListItems(c *gin.Context) {
	params := pagination.Parse(c)

	items, total, err := h.catalogService.ListItems(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// UpdateItem updates an existing item
// @Summary      Update item
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Param        id       path  int                  true  "Item ID"
// @Param        payload  body  service.ItemRequest  true  "Update Item Payload"
// @Success      204
// @Failure      404  {object}  response.Response
// @Router       /api/items/{id} [put]
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if _, err := h.catalogService.UpdateItem(c.Request.Context(), id, req); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteItem removes an item
// @Summary      Delete item
// @Tags         catalog
// @Security     BearerAuth
// @Param        id  path  int  true  "Item ID"
// @Success      204
// @Failure      404  {object}  response.Response
// @Router       /api/items/{id} [delete]
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteItem(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// --- Positions ---

// CreatePosition registers a new storage position
// @Summary      Create position
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.PositionRequest  true  "Create Position Payload"
// @Success      201      {object}  response.Response{data=model.Position}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/positions [post]
func (h *CatalogHandler) CreatePosition(c *gin.Context) {
	var req service.PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	position, err := h.catalogService.CreatePosition(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, position))
}

// GetPosition returns one position by id
// @Summary      Get position
// @Tags         catalog
// @Produce      json
// @Param        id   path      int  true  "Position ID"
// @Success      200  {object}  response.Response{data=model.Position}
// @Failure      404  {object}  response.Response
// @Router       /api/positions/{id} [get]
func (h *CatalogHandler) GetPosition(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	position, err := h.catalogService.GetPosition(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, position))
}

// ListPositions returns positions filtered by branch and/or status
// @Summary      List positions
// @Tags         catalog
// @Produce      json
// @Param        branch_id  query     int     false  "Filter by branch"
// @Param        status     query     string  false  "Filter by status"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Items per page (default 20)"
// @Success      200        {object}  response.Response{data=object}
// @Router       /api/positions [get]
func (h *CatalogHandler) ListPositions(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.PositionFilter{
		BranchID: parseOptionalInt64(c, "branch_id"),
		Status:   c.Query("status"),
		Page:     params.Page,
		Limit:    params.Limit,
	}

	positions, total, err := h.catalogService.ListPositions(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"positions": positions,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}

// UpdatePosition updates an existing position
// @Summary      Update position
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Param        id       path  int                      true  "Position ID"
// @Param        payload  body  service.PositionRequest  true  "Update Position Payload"
// @Success      204
// @Failure      404  {object}  response.Response
// @Router       /api/positions/{id} [put]
func (h *CatalogHandler) UpdatePosition(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if _, err := h.catalogService.UpdatePosition(c.Request.Context(), id, req); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeletePosition removes a position
// @Summary      Delete position
// @Tags         catalog
// @Security     BearerAuth
// @Param        id  path  int  true  "Position ID"
// @Success      204
// @Failure      404  {object}  response.Response
// @Router       /api/positions/{id} [delete]
func (h *CatalogHandler) DeletePosition(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeletePosition(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
