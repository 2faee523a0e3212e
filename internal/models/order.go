package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is expected from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo implements the guarded state machine used when strict
// transitions are enabled: the delivery chain moves forward one step at a
// time, and CANCELLED is reachable from any non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if next == OrderStatusCancelled {
		return !s.Terminal()
	}
	switch s {
	case OrderStatusPending:
		return next == OrderStatusConfirmed
	case OrderStatusConfirmed:
		return next == OrderStatusProcessing
	case OrderStatusProcessing:
		return next == OrderStatusShipped
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	}
	return false
}

// Order is the aggregate root for a placed order. TotalAmount is derived
// from the items and is never accepted from a caller; use OrderBuilder to
// construct an order so the total cannot go stale.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderNumber string          `gorm:"size:50;not null;uniqueIndex" json:"order_number"`
	ClientID    uint            `gorm:"index;not null" json:"client_id"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status      OrderStatus     `gorm:"size:20;not null;default:'PENDING'" json:"status"`

	ShippingAddress string `gorm:"size:255" json:"shipping_address,omitempty"`
	Notes           string `gorm:"size:500" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"<-:create" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Client *Client     `gorm:"foreignKey:ClientID" json:"-"`
	Items  []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem is one line of an order. It carries the owning order's id
// rather than a back-pointer, and UnitPrice is a snapshot of the product
// price at order time: later price changes never touch historical orders.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`
	ProductID uint            `gorm:"index;not null" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`

	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}

// ComputeTotal is the defining sum for the order total invariant:
// TotalAmount == Σ item.Subtotal, in exact decimal arithmetic.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	return total
}

// OrderBuilder accumulates line items and yields a finalized order.
// Build computes the total internally, so an order with a stale total is
// unrepresentable through this path.
type OrderBuilder struct {
	order Order
}

func NewOrderBuilder(orderNumber string, clientID uint) *OrderBuilder {
	return &OrderBuilder{order: Order{
		OrderNumber: orderNumber,
		ClientID:    clientID,
		Status:      OrderStatusPending,
		TotalAmount: decimal.Zero,
	}}
}

func (b *OrderBuilder) ShippingAddress(addr string) *OrderBuilder {
	b.order.ShippingAddress = addr
	return b
}

func (b *OrderBuilder) Notes(notes string) *OrderBuilder {
	b.order.Notes = notes
	return b
}

// AddLine snapshots the product's current price and appends a line item
// with its subtotal computed as unitPrice * quantity.
func (b *OrderBuilder) AddLine(product *Product, quantity int) *OrderBuilder {
	unitPrice := product.Price
	b.order.Items = append(b.order.Items, OrderItem{
		ProductID: product.ID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Subtotal:  unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	})
	return b
}

// Build finalizes the order with its total recomputed from the lines.
func (b *OrderBuilder) Build() *Order {
	order := b.order
	order.TotalAmount = order.ComputeTotal()
	return &order
}
