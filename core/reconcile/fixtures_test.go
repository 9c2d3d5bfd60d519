package reconcile

import (
	"strings"
	"time"

	"data-importer/core/entity"

	"github.com/shopspring/decimal"
)

type item struct {
	SKU   string
	Name  string
	Price decimal.Decimal
	Stock int
	Since *time.Time
}

func itemSchema() *entity.Schema[item] {
	return &entity.Schema[item]{
		Name: "item",
		New:  func() *item { return &item{} },
		Key:  func(i *item) string { return strings.TrimSpace(i.SKU) },
		Properties: []entity.Property[item]{
			entity.String("sku", "SKU", func(i *item) *string { return &i.SKU }),
			entity.String("name", "Name", func(i *item) *string { return &i.Name }),
			entity.Decimal("price", "Price", func(i *item) *decimal.Decimal { return &i.Price }),
			entity.Int("stock", "Stock", func(i *item) *int { return &i.Stock }),
			entity.Date("since", "Since", func(i *item) **time.Time { return &i.Since }),
		},
	}
}

func newItem(sku, name, price string, stock int) *item {
	return &item{SKU: sku, Name: name, Price: decimal.RequireFromString(price), Stock: stock}
}
