package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item. Price is exact decimal money (2 fractional
// digits); StockQuantity must never go below zero.
type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	Description   string          `gorm:"size:500" json:"description,omitempty"`
	SKU           string          `gorm:"column:sku;size:50;not null;uniqueIndex" json:"sku"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	Category      string          `gorm:"size:50" json:"category,omitempty"`
	Active        bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time       `gorm:"<-:create" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

func (p *Product) HasEnoughStock(quantity int) bool {
	return p.StockQuantity >= quantity
}
