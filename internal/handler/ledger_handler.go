package handler

import (
	"net/http"
	"time"

	"github.com/Xabartshik/TaskControl-sub001/internal/middleware"
	"github.com/Xabartshik/TaskControl-sub001/internal/repository"
	"github.com/Xabartshik/TaskControl-sub001/internal/service"
	"github.com/Xabartshik/TaskControl-sub001/pkg/pagination"
	"github.com/Xabartshik/TaskControl-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerService service.LedgerService
}

func NewLedgerHandler(ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

func (h *LedgerHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		api.POST("/movements", middleware.RequireAuth(), h.RecordMovement)
		api.GET("/movements", h.ListMovements)

		api.GET("/item-positions", h.ListItemPositions)
		api.GET("/item-positions/:id", h.GetItemPosition)
		api.GET("/item-positions/:id/available", h.GetAvailableQuantity)
		api.GET("/item-positions/:id/status", h.GetCurrentStatus)
		api.GET("/item-positions/:id/status/history", h.ListStatusHistory)
		api.POST("/item-positions/:id/status", middleware.RequireAuth(), h.AppendStatus)
	}
}

// RecordMovement executes a quantity transfer as one atomic unit
// @Summary      Record movement
// @Description  Creates a movement record and atomically updates the affected item-position quantities
// @Tags         ledger
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.MovementRequest  true  "Movement Payload"
// @Success      201      {object}  response.Response{data=model.ItemMovement}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/movements [post]
func (h *LedgerHandler) RecordMovement(c *gin.Context) {
	var req service.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	movement, err := h.ledgerService.RecordMovement(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, movement))
}

// ListMovements returns the movement log, filterable by item, branch, position and time range
// @Summary      List movements
// @Tags         ledger
// @Produce      json
// @Param        item_id      query     int     false  "Filter by item"
// @Param        branch_id    query     int     false  "Filter by branch (either side)"
// @Param        position_id  query     int     false  "Filter by destination position"
// @Param        from         query     string  false  "RFC3339 lower bound"
// @Param        to           query     string  false  "RFC3339 upper bound (exclusive)"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Items per page (default 20)"
// @Success      200          {object}  response.Response{data=object}
// @Router       /api/movements [get]
func (h *LedgerHandler) ListMovements(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.MovementFilter{
		ItemID:     parseOptionalInt64(c, "item_id"),
		BranchID:   parseOptionalInt64(c, "branch_id"),
		PositionID: parseOptionalInt64(c, "position_id"),
		Page:       params.Page,
		Limit:      params.Limit,
	}
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.From = &t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.To = &t
		}
	}

	movements, total, err := h.ledgerService.ListMovements(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"movements": movements,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}

// ListItemPositions returns a paginated item-position listing
// @Summary      List item positions
// @Tags         ledger
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /api/item-positions [get]
func (h *LedgerHandler) ListItemPositions(c *gin.Context) {
	params := pagination.Parse(c)

	ips, total, err := h.ledgerService.ListItemPositions(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"item_positions": ips,
		"total":          total,
		"page":           params.Page,
		"limit":          params.Limit,
	}))
}

// GetItemPosition returns one item position by id
// @Summary      Get item position
// @Tags         ledger
// @Produce      json
// @Param        id   path      int  true  "Item Position ID"
// @Success      200  {object}  response.Response{data=model.ItemPosition}
// @Failure      404  {object}  response.Response
// @Router       /api/item-positions/{id} [get]
func (h *LedgerHandler) GetItemPosition(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ip, err := h.ledgerService.GetItemPosition(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, ip))
}

// GetAvailableQuantity returns physical quantity minus open reservations
// @Summary      Get available quantity
// @Tags         ledger
// @Produce      json
// @Param        id   path      int  true  "Item Position ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      404  {object}  response.Response
// @Router       /api/item-positions/{id}/available [get]
func (h *LedgerHandler) GetAvailableQuantity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	available, err := h.ledgerService.GetAvailableQuantity(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"item_position_id": id,
		"available":        available,
	}))
}

// GetCurrentStatus returns the latest status row, or the one current at ?at=
// @Summary      Get current status
// @Tags         ledger
// @Produce      json
// @Param        id   path      int     true   "Item Position ID"
// @Param        at   query     string  false  "RFC3339 instant for an as-of lookup"
// @Success      200  {object}  response.Response{data=model.ItemStatus}
// @Failure      404  {object}  response.Response
// @Router       /api/item-positions/{id}/status [get]
func (h *LedgerHandler) GetCurrentStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if raw := c.Query("at"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid at parameter, expected RFC3339"))
			return
		}
		status, err := h.ledgerService.GetStatusAsOf(c.Request.Context(), id, at)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, status))
		return
	}

	status, err := h.ledgerService.GetCurrentStatus(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, status))
}

// ListStatusHistory returns the append-only status timeline
// @Summary      List status history
// @Tags         ledger
// @Produce      json
// @Param        id     path      int  true   "Item Position ID"
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /api/item-positions/{id}/status/history [get]
func (h *LedgerHandler) ListStatusHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	params := pagination.Parse(c)

	statuses, total, err := h.ledgerService.ListStatusHistory(c.Request.Context(), id, params.Page, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"statuses": statuses,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// AppendStatus appends a new status row (history is never mutated)
// @Summary      Append status
// @Tags         ledger
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                          true  "Item Position ID"
// @Param        payload  body      service.AppendStatusRequest  true  "Append Status Payload"
// @Success      201      {object}  response.Response{data=model.ItemStatus}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/item-positions/{id}/status [post]
func (h *LedgerHandler) AppendStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.AppendStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	status, err := h.ledgerService.AppendStatus(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, status))
}
