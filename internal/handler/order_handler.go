package handler

import (
	"net/http"

	"github.com/Xabartshik/TaskControl-sub001/internal/middleware"
	"github.com/Xabartshik/TaskControl-sub001/internal/repository"
	"github.com/Xabartshik/TaskControl-sub001/internal/service"
	"github.com/Xabartshik/TaskControl-sub001/pkg/pagination"
	"github.com/Xabartshik/TaskControl-sub001/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		api.GET("/orders", h.ListOrders)
		api.GET("/orders/:id", h.GetOrder)
		api.POST("/orders", middleware.RequireAuth(), h.CreateOrder)
		api.POST("/orders/:id/positions", middleware.RequireAuth(), h.AddOrderPosition)
		api.DELETE("/orders/:id/positions/:positionId", middleware.RequireAuth(), h.RemoveOrderPosition)
		api.POST("/orders/:id/confirm", middleware.RequireAuth(), h.Confirm)
		api.POST("/orders/:id/deliver", middleware.RequireAuth(), h.Deliver)
		api.POST("/orders/:id/cancel", middleware.RequireAuth(), h.Cancel)
	}
}

// CreateOrder opens a new order in NEW status
// @Summary      Create order
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateOrderRequest  true  "Create Order Payload"
// @Success      201      {object}  response.Response{data=model.Order}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// GetOrder returns one order with its lines
// @Summary      Get order
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  response.Response{data=model.Order}
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// ListOrders returns orders filtered by branch, customer and status
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        branch_id    query     int     false  "Filter by branch"
// @Param        customer_id  query     int     false  "Filter by customer"
// @Param        status       query     string  false  "Filter by status"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Items per page (default 20)"
// @Success      200          {object}  response.Response{data=object}
// @Router       /api/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.OrderFilter{
		BranchID:   parseOptionalInt64(c, "branch_id"),
		CustomerID: parseOptionalInt64(c, "customer_id"),
		Status:     c.Query("status"),
		Page:       params.Page,
		Limit:      params.Limit,
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}

// AddOrderPosition adds a line to a NEW order after an availability check
// @Summary      Add order position
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                              true  "Order ID"
// @Param        payload  body      service.AddOrderPositionRequest  true  "Order Position Payload"
// @Success      201      {object}  response.Response{data=model.OrderPosition}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/orders/{id}/positions [post]
func (h *OrderHandler) AddOrderPosition(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.AddOrderPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	pos, err := h.orderService.AddOrderPosition(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, pos))
}

// RemoveOrderPosition removes a line from a NEW order, releasing its reservation
// @Summary      Remove order position
// @Tags         orders
// @Security     BearerAuth
// @Param        id          path  int     true  "Order ID"
// @Param        positionId  path  string  true  "Order Position ID"
// @Success      204
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id}/positions/{positionId} [delete]
func (h *OrderHandler) RemoveOrderPosition(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	positionID, err := uuid.Parse(c.Param("positionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid positionId parameter"))
		return
	}

	if err := h.orderService.RemoveOrderPosition(c.Request.Context(), id, positionID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Confirm moves a NEW order to PROCESSING, debiting inventory
// @Summary      Confirm order
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  response.Response{data=model.Order}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Confirm(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// Deliver moves a PROCESSING order to DELIVERED
// @Summary      Deliver order
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  response.Response{data=model.Order}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id}/deliver [post]
func (h *OrderHandler) Deliver(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Deliver(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// Cancel moves a NEW or PROCESSING order to CANCELLED, restoring stock if needed
// @Summary      Cancel order
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  response.Response{data=model.Order}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}
