package product

import (
	"strings"
	"time"

	"data-importer/core/entity"
	"data-importer/core/mapping"
	"data-importer/feature/product/models"

	"github.com/shopspring/decimal"
)

// Property names.
const (
	PropSKU           = "sku"
	PropName          = "name"
	PropDescription   = "description"
	PropCategory      = "category"
	PropCurrency      = "currency"
	PropPrice         = "price"
	PropStock         = "stock"
	PropWeight        = "weight"
	PropActive        = "active"
	PropAvailableFrom = "available_from"
	PropUpdatedAt     = "updated_at"
)

// Key normalizes a SKU into the identity used for pairing.
func Key(p *models.Product) string {
	return strings.ToUpper(strings.TrimSpace(p.SKU))
}

// Schema declares the product import type. updated_at is imported but not
// compared; category compares case-insensitively.
func Schema() *entity.Schema[models.Product] {
	return &entity.Schema[models.Product]{
		Name: "product",
		New:  func() *models.Product { return &models.Product{} },
		Key:  Key,
		Properties: []entity.Property[models.Product]{
			entity.String(PropSKU, "SKU", func(p *models.Product) *string { return &p.SKU }),
			entity.String(PropName, "Name", func(p *models.Product) *string { return &p.Name }),
			entity.String(PropDescription, "Description", func(p *models.Product) *string { return &p.Description }),
			entity.String(PropCategory, "Category", func(p *models.Product) *string { return &p.Category }),
			entity.String(PropCurrency, "Currency", func(p *models.Product) *string { return &p.Currency }),
			entity.Decimal(PropPrice, "Price", func(p *models.Product) *decimal.Decimal { return &p.Price }),
			entity.Int(PropStock, "Stock", func(p *models.Product) *int { return &p.Stock }),
			entity.Long(PropWeight, "Weight (g)", func(p *models.Product) *int64 { return &p.Weight }),
			entity.Bool(PropActive, "Active", func(p *models.Product) *bool { return &p.Active }),
			entity.Date(PropAvailableFrom, "Available from", func(p *models.Product) **time.Time { return &p.AvailableFrom }),
			entity.DateTime(PropUpdatedAt, "Updated at", func(p *models.Product) **time.Time { return &p.UpdatedAt }),
		},
		Comparable: []string{
			PropName, PropDescription, PropCategory, PropCurrency,
			PropPrice, PropStock, PropWeight, PropActive, PropAvailableFrom,
		},
		Comparators: map[string]func(a, b *models.Product) bool{
			PropCategory: func(a, b *models.Product) bool {
				return strings.EqualFold(strings.TrimSpace(a.Category), strings.TrimSpace(b.Category))
			},
		},
	}
}

// DefaultSettings returns the built-in header aliases and formats. A
// settings blob is applied on top by the service.
func DefaultSettings() *mapping.Settings {
	reg, err := mapping.NewRegistry(
		mapping.FieldMapping{Property: PropSKU, Label: "SKU", Aliases: []string{"sku", "article*", "art.-nr*", "item no?", "item number"}},
		mapping.FieldMapping{Property: PropName, Label: "Name", Aliases: []string{"name", "title", "product name", "bezeichnung*"}},
		mapping.FieldMapping{Property: PropDescription, Label: "Description", Aliases: []string{"description*", "beschreibung*", "details"}},
		mapping.FieldMapping{Property: PropCategory, Label: "Category", Aliases: []string{"category", "kategorie", "group"}},
		mapping.FieldMapping{Property: PropCurrency, Label: "Currency", Aliases: []string{"currency", "w?hrung"}},
		mapping.FieldMapping{Property: PropPrice, Label: "Price", Aliases: []string{"price*", "preis*"}},
		mapping.FieldMapping{Property: PropStock, Label: "Stock", Aliases: []string{"stock", "qty", "quantity", "bestand"}},
		mapping.FieldMapping{Property: PropWeight, Label: "Weight (g)", Aliases: []string{"weight*", "gewicht*"}},
		mapping.FieldMapping{Property: PropActive, Label: "Active", Aliases: []string{"active", "aktiv", "enabled"}},
		mapping.FieldMapping{
			Property: PropAvailableFrom,
			Label:    "Available from",
			Aliases:  []string{"available*", "verf?gbar ab"},
			Formats:  []string{"dd.MM.yyyy", "yyyy-MM-dd", "MM/dd/yyyy"},
		},
		mapping.FieldMapping{
			Property: PropUpdatedAt,
			Label:    "Updated at",
			Aliases:  []string{"updated*", "modified*", "last change"},
			Formats:  []string{"dd.MM.yyyy HH:mm", "yyyy-MM-dd HH:mm:ss"},
		},
	)
	if err != nil {
		// the static mappings above are unique and non-empty
		panic(err)
	}
	return mapping.NewSettings(reg)
}
