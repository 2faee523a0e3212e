package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ibrahim/dbpulse/internal/services"
)

type ProductHandler struct {
	products *services.ProductService
	logger   *zap.Logger
}

func NewProductHandler(products *services.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

func (h *ProductHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/products", h.Create)
	rg.GET("/products", h.List)
	rg.GET("/products/search", h.Search)
	rg.GET("/products/category/:category", h.ListByCategory)
	rg.GET("/products/:id", h.Get)
	rg.PUT("/products/:id", h.Update)
	rg.DELETE("/products/:id", h.Delete)
	rg.PATCH("/products/:id/stock", h.UpdateStock)
}

// validate covers the price constraint the binding tags cannot: exact
// decimal, strictly positive.
func (h *ProductHandler) validate(c *gin.Context, req *ProductRequest) bool {
	if !req.Price.IsPositive() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Details: gin.H{"price": "must be greater than 0"},
		})
		return false
	}
	return true
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	if !h.validate(c, &req) {
		return
	}
	product, err := h.products.Create(c.Request.Context(), services.ProductInput{
		Name:          req.Name,
		Description:   req.Description,
		SKU:           req.SKU,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Category:      req.Category,
	})
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id := parseID(c, "id")
	if id == 0 {
		return
	}
	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.products.GetAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Search(c *gin.Context) {
	page, size := parsePagination(c)
	products, total, err := h.products.Search(c.Request.Context(), c.Query("q"), page, size)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, PagedResponse{Items: products, Total: total, Page: page, Size: size})
}

func (h *ProductHandler) ListByCategory(c *gin.Context) {
	products, err := h.products.GetByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id := parseID(c, "id")
	if id == 0 {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	if !h.validate(c, &req) {
		return
	}
	product, err := h.products.Update(c.Request.Context(), id, services.ProductInput{
		Name:          req.Name,
		Description:   req.Description,
		SKU:           req.SKU,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Category:      req.Category,
	})
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id := parseID(c, "id")
	if id == 0 {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) UpdateStock(c *gin.Context) {
	id := parseID(c, "id")
	if id == 0 {
		return
	}
	var req StockUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	product, err := h.products.UpdateStock(c.Request.Context(), id, *req.Quantity)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
