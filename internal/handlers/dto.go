package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ibrahim/dbpulse/internal/models"
)

// Request payloads. Binding tags mirror the persisted field constraints;
// anything they cannot express (positive price, for instance) is checked in
// the handler before any service call.

type ClientRequest struct {
	FirstName string `json:"first_name" binding:"required,min=2,max=50"`
	LastName  string `json:"last_name" binding:"required,min=2,max=50"`
	Email     string `json:"email" binding:"required,email,max=100"`
	Phone     string `json:"phone" binding:"max=20"`
	Address   string `json:"address" binding:"max=255"`
	City      string `json:"city" binding:"max=100"`
	Country   string `json:"country" binding:"max=50"`
}

type ProductRequest struct {
	Name          string          `json:"name" binding:"required,min=2,max=100"`
	Description   string          `json:"description" binding:"max=500"`
	SKU           string          `json:"sku" binding:"required,max=50"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity" binding:"min=0"`
	Category      string          `json:"category" binding:"max=50"`
}

type StockUpdateRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type OrderRequest struct {
	ClientID        uint               `json:"client_id" binding:"required"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress string             `json:"shipping_address" binding:"max=255"`
	Notes           string             `json:"notes" binding:"max=500"`
}

// Order responses carry denormalized client and product names plus money
// rendered with two decimals, matching what the persistence layer stores.

type OrderItemResponse struct {
	ID          uint   `json:"id"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

type OrderResponse struct {
	ID              uint                `json:"id"`
	OrderNumber     string              `json:"order_number"`
	ClientID        uint                `json:"client_id"`
	ClientName      string              `json:"client_name,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	TotalAmount     string              `json:"total_amount"`
	Status          models.OrderStatus  `json:"status"`
	ShippingAddress string              `json:"shipping_address,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// PagedResponse wraps a search result page.
type PagedResponse struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

func toOrderResponse(order *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		resp := OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Subtotal:  item.Subtotal.StringFixed(2),
		}
		if item.Product != nil {
			resp.ProductName = item.Product.Name
		}
		items = append(items, resp)
	}
	resp := OrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		ClientID:        order.ClientID,
		Items:           items,
		TotalAmount:     order.TotalAmount.StringFixed(2),
		Status:          order.Status,
		ShippingAddress: order.ShippingAddress,
		Notes:           order.Notes,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	if order.Client != nil {
		resp.ClientName = order.Client.FullName()
	}
	return resp
}

func toOrderResponses(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}
	return out
}
