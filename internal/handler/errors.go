package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Xabartshik/TaskControl-sub001/internal/service"
	"github.com/Xabartshik/TaskControl-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError translates domain errors into the API's status codes: 404 for
// missing entities, 400 for invalid movements/transitions/input, 409 when an
// order line exceeds availability, 500 for storage failures.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case errors.Is(err, service.ErrInvalidMovement),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	case errors.Is(err, service.ErrInsufficientInventory):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid "+name+" parameter"))
		return 0, false
	}
	return id, true
}

func parseOptionalInt64(c *gin.Context, name string) *int64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
