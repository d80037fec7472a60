package handler

import (
	"net/http"
	"time"

	"github.com/Xabartshik/TaskControl-sub001/internal/repository"
	"github.com/Xabartshik/TaskControl-sub001/internal/service"
	"github.com/Xabartshik/TaskControl-sub001/pkg/pagination"
	"github.com/Xabartshik/TaskControl-sub001/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EventHandler struct {
	eventService service.EventService
}

func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		// Telemetry producers authenticate out-of-band, so ingestion is open
		api.POST("/events", h.Ingest)
		api.GET("/events", h.ListEvents)
		api.GET("/events/:id", h.GetEvent)
	}
}

// Ingest stores a raw telemetry event
// @Summary      Ingest event
// @Description  Stores an opaque JSON payload with structured metadata; rejects malformed JSON
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        payload  body      service.IngestEventRequest  true  "Event Payload"
// @Success      201      {object}  response.Response{data=model.RawEvent}
// @Failure      400      {object}  response.Response
// @Router       /api/events [post]
func (h *EventHandler) Ingest(c *gin.Context) {
	var req service.IngestEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	event, err := h.eventService.Ingest(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, event))
}

// GetEvent returns one raw event by id
// @Summary      Get event
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  response.Response{data=model.RawEvent}
// @Failure      404  {object}  response.Response
// @Router       /api/events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid id parameter"))
		return
	}

	event, err := h.eventService.GetEvent(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, event))
}

// ListEvents returns the telemetry log filtered by source, type and time range
// @Summary      List events
// @Tags         events
// @Produce      json
// @Param        source      query     string  false  "Filter by source"
// @Param        event_type  query     string  false  "Filter by event type"
// @Param        from        query     string  false  "RFC3339 lower bound"
// @Param        to          query     string  false  "RFC3339 upper bound (exclusive)"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Items per page (default 20)"
// @Success      200         {object}  response.Response{data=object}
// @Router       /api/events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.RawEventFilter{
		Source:    c.Query("source"),
		EventType: c.Query("event_type"),
		Page:      params.Page,
		Limit:     params.Limit,
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

	events, total, err := h.eventService.ListEvents(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"events": events,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}
