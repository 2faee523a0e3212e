package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ibrahim/dbpulse/internal/services"
)

// ErrorResponse is the uniform error body. Details maps field names to
// reasons for validation failures, or carries structured context for
// domain failures such as insufficient stock.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// writeServiceError maps the typed service errors onto the HTTP contract:
// 404 for missing entities, 409 for unique-key conflicts, 400 for
// insufficient stock and rejected transitions, 500 otherwise.
func writeServiceError(c *gin.Context, logger *zap.Logger, err error) {
	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: notFound.Error()})
		return
	}
	var duplicate *services.DuplicateError
	if errors.As(err, &duplicate) {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "duplicate_resource", Message: duplicate.Error()})
		return
	}
	var stock *services.InsufficientStockError
	if errors.As(err, &stock) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "insufficient_stock",
			Message: stock.Error(),
			Details: gin.H{
				"product":   stock.Product,
				"available": stock.Available,
				"requested": stock.Requested,
			},
		})
		return
	}
	var transition *services.InvalidTransitionError
	if errors.As(err, &transition) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_status_transition", Message: transition.Error()})
		return
	}

	logger.Error("unhandled service error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error"})
}

// writeBindingError turns gin binding failures into a 400 with per-field
// reasons when the validator produced them.
func writeBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Details: details})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_json", Message: err.Error()})
}

// parseID reads a positive integer path parameter. A zero return means the
// response has already been written.
func parseID(c *gin.Context, name string) uint {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "path parameter " + name + " must be a positive integer"})
		return 0
	}
	return uint(id)
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// parsePagination reads page/size query params, clamping size to a sane cap.
func parsePagination(c *gin.Context) (page, size int) {
	page = 0
	size = defaultPageSize
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := c.Query("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxPageSize {
			size = n
		}
	}
	return page, size
}
