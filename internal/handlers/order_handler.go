package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ibrahim/dbpulse/internal/models"
	"github.com/ibrahim/dbpulse/internal/services"
)

type OrderHandler struct {
	orders *services.OrderService
	logger *zap.Logger
}

func NewOrderHandler(orders *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

func (h *OrderHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/orders", h.Create)
	rg.GET("/orders", h.List)
	rg.GET("/orders/client/:clientId", h.ListByClient)
	rg.GET("/orders/:id", h.Get)
	rg.PATCH("/orders/:id/status", h.UpdateStatus)
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	items := make([]services.OrderLineInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, services.OrderLineInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	order, err := h.orders.CreateOrder(c.Request.Context(), services.OrderInput{
		ClientID:        req.ClientID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	// Re-read through the repository so the response carries client and
	// product names alongside the freshly assigned ids.
	full, err := h.orders.GetByID(c.Request.Context(), order.ID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(full))
}

func (h *OrderHandler) Get(c *gin.Context) {
	id := parseID(c, "id")
	if id == 0 {
		return
	}
	order, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.GetAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

func (h *OrderHandler) ListByClient(c *gin.Context) {
	clientID := parseID(c, "clientId")
	if clientID == 0 {
		return
	}
	orders, err := h.orders.GetByClientID(c.Request.Context(), clientID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// UpdateStatus handles PATCH /orders/:id/status?status=CONFIRMED.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id := parseID(c, "id")
	if id == 0 {
		return
	}
	status := models.OrderStatus(c.Query("status"))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Details: gin.H{"status": "must be one of PENDING, CONFIRMED, PROCESSING, SHIPPED, DELIVERED, CANCELLED"},
		})
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}
