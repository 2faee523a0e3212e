package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ibrahim/dbpulse/internal/services"
)

type ClientHandler struct {
	clients *services.ClientService
	logger  *zap.Logger
}

func NewClientHandler(clients *services.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{clients: clients, logger: logger}
}

func (h *ClientHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/clients", h.Create)
	rg.GET("/clients", h.List)
	rg.GET("/clients/search", h.Search)
	rg.GET("/clients/:id", h.Get)
	rg.PUT("/clients/:id", h.Update)
	rg.DELETE("/clients/:id", h.Delete)
	rg.PATCH("/clients/:id/deactivate", h.Deactivate)
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	client, err := h.clients.Create(c.Request.Context(), services.ClientInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
	})
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) Get(c *gin.Context) {
	id := parseID(c, "id")
	if id == 0 {
		return
	}
	client, err := h.clients.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clients.GetAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) Search(c *gin.Context) {
	page, size := parsePagination(c)
	clients, total, err := h.clients.Search(c.Request.Context(), c.Query("q"), page, size)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, PagedResponse{Items: clients, Total: total, Page: page, Size: size})
}

func (h *ClientHandler) Update(c *gin.Context) {
	id := parseID(c, "id")
	if id == 0 {
		return
	}
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	client, err := h.clients.Update(c.Request.Context(), id, services.ClientInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
	})
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	id := parseID(c, "id")
	if id == 0 {
		return
	}
	if err := h.clients.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ClientHandler) Deactivate(c *gin.Context) {
	id := parseID(c, "id")
	if id == 0 {
		return
	}
	if err := h.clients.Deactivate(c.Request.Context(), id); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
