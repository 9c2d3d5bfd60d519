// Package entity declares the shape of an import type.
//
// A Schema[T] lists the properties of T with explicit getters and setters
// instead of reflection, the identity function used for pairing, and the
// comparison surface of the diff. The typed constructors (String, Decimal,
// Date...) bind a property to a struct field:
//
//	entity.Decimal("price", "Price", func(p *Product) *decimal.Decimal { return &p.Price })
package entity
