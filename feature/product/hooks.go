package product

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"data-importer/core/extract"
	"data-importer/feature/product/models"
)

// amountWithCurrency matches "12,50 EUR" and "EUR 12.50".
var amountWithCurrency = regexp.MustCompile(`^(?:([A-Za-z]{3})\s+)?([-+]?[\d.,\s']+)(?:\s*([A-Za-z]{3}))?$`)

// Hooks customizes the product import.
type Hooks struct {
	extract.NopHooks[models.Product]
}

// RewriteHeaders strips the '*' markers exports put on required columns.
func (Hooks) RewriteHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.TrimSpace(strings.TrimRight(h, "*"))
	}
	return out
}

// CustomField strips an ISO currency code from price cells and fills the
// currency from it. The amount continues through the standard path so the
// whole column shares one decimal notation.
func (Hooks) CustomField(p *models.Product, property, raw string) (string, bool, error) {
	if property != PropPrice {
		return raw, false, nil
	}
	m := amountWithCurrency.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil || (m[1] == "" && m[3] == "") {
		return raw, false, nil
	}

	code := m[1]
	if code == "" {
		code = m[3]
	}
	p.Currency = strings.ToUpper(code)
	return strings.TrimSpace(m[2]), false, nil
}

// PostProcessRow normalizes the SKU and checks required values.
func (Hooks) PostProcessRow(row *extract.Row[models.Product]) []string {
	p := row.Entity
	p.SKU = strings.ToUpper(strings.TrimSpace(p.SKU))

	var errs []string
	if p.SKU == "" {
		errs = append(errs, "SKU is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	}
	if p.Stock < 0 {
		errs = append(errs, fmt.Sprintf("stock must not be negative, got %d", p.Stock))
	}
	if p.Price.IsNegative() {
		errs = append(errs, fmt.Sprintf("price must not be negative, got %s", p.Price))
	}
	return errs
}

// Finalize flags every row of a SKU that occurs more than once, the first
// occurrence included.
func (Hooks) Finalize(rows []*extract.Row[models.Product]) {
	lines := make(map[string][]int)
	for _, r := range rows {
		if r.Entity.SKU == "" {
			continue
		}
		lines[r.Entity.SKU] = append(lines[r.Entity.SKU], r.Line)
	}

	for _, r := range rows {
		seen := lines[r.Entity.SKU]
		if len(seen) < 2 {
			continue
		}
		sort.Ints(seen)
		parts := make([]string, len(seen))
		for i, l := range seen {
			parts[i] = fmt.Sprint(l)
		}
		r.AddError(fmt.Sprintf("SKU %s appears on lines %s", r.Entity.SKU, strings.Join(parts, ", ")))
	}
}
