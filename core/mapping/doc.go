// Package mapping resolves file headers to entity properties.
//
// A Registry holds FieldMappings in registration order. Each mapping lists
// alias patterns ('*' any run, '?' one character, case-insensitive, anchored)
// and the parse formats its cells are coerced with. Settings bundle a registry
// with the declared charset and the date-time location, and can be overlaid
// with a key=value blob:
//
//	encoding=iso-8859-1
//	sku=sku|article*|item no?
//	price=price*|:#.##0,00
//
// Format lists are the only state that changes after loading: decimal style
// auto-detection prepends patterns through PrependFormats, guarded by the
// registry lock.
package mapping
