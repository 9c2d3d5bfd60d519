package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one row of the product catalogue.
type Product struct {
	ID            uint            `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	SKU           string          `gorm:"column:sku;size:64;uniqueIndex" json:"sku"`
	Name          string          `gorm:"column:name;size:255" json:"name"`
	Description   string          `gorm:"column:description;type:text" json:"description"`
	Category      string          `gorm:"column:category;size:128" json:"category"`
	Currency      string          `gorm:"column:currency;size:3" json:"currency"`
	Price         decimal.Decimal `gorm:"column:price;type:decimal(12,2)" json:"price"`
	Stock         int             `gorm:"column:stock" json:"stock"`
	Weight        int64           `gorm:"column:weight" json:"weight"` // grams
	Active        bool            `gorm:"column:active" json:"active"`
	AvailableFrom *time.Time      `gorm:"column:available_from" json:"available_from,omitempty"`
	// UpdatedAt is the last change reported by the source system, not a
	// gorm timestamp.
	UpdatedAt *time.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updated_at,omitempty"`
}

// TableName overrides the table name.
func (Product) TableName() string {
	return "products"
}

// Columns lists the table columns the importer reads and writes.
var Columns = []string{
	"id", "sku", "name", "description", "category", "currency",
	"price", "stock", "weight", "active", "available_from", "updated_at",
}
