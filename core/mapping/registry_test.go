package mapping

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(
		FieldMapping{Property: "sku", Label: "SKU", Aliases: []string{"sku", "article*", "item no?"}},
		FieldMapping{Property: "name", Label: "Name"},
		FieldMapping{Property: "price", Label: "Price", Aliases: []string{"price*", "preis*"}, Formats: []string{"comma"}},
		FieldMapping{Property: "pricing_note", Label: "Pricing note", Aliases: []string{"price note"}},
	)
	require.NoError(t, err)
	return reg
}

func TestRegistry_Resolve(t *testing.T) {
	reg := newTestRegistry(t)

	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"SKU", "sku", true},
		{"  Article Number ", "sku", true},
		{"article", "sku", true},
		{"Item No.", "sku", true},
		{"Item No", "", false},
		{"Item No.x", "", false},
		{"name", "name", true},
		{"NAME", "name", true},
		{"Full name", "", false},
		{"Preis (EUR)", "price", true},
		// first match wins: "price*" is registered before "price note"
		{"Price note", "price", true},
		{"", "", false},
		{"unknown", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			m, ok := reg.Resolve(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, m.Property)
		})
	}
}

func TestRegistry_ResolveMetacharacters(t *testing.T) {
	reg, err := NewRegistry(FieldMapping{Property: "weight", Aliases: []string{"weight (kg)", "w[?]"}})
	require.NoError(t, err)

	_, ok := reg.Resolve("Weight (kg)")
	assert.True(t, ok)
	_, ok = reg.Resolve("weight kg")
	assert.False(t, ok)
	_, ok = reg.Resolve("w[x]")
	assert.True(t, ok)
}

func TestRegistry_LabelFallback(t *testing.T) {
	reg, err := NewRegistry(FieldMapping{Property: "available_from", Label: "Available from"})
	require.NoError(t, err)

	m, ok := reg.Resolve("available from")
	require.True(t, ok)
	assert.Equal(t, "available_from", m.Property)

	_, ok = reg.Resolve("available_from")
	assert.True(t, ok)
}

func TestRegistry_Register(t *testing.T) {
	reg := newTestRegistry(t)

	err := reg.Register(FieldMapping{Property: "SKU"})
	assert.ErrorIs(t, err, ErrDuplicateProperty)

	err = reg.Register(FieldMapping{Property: " "})
	assert.ErrorIs(t, err, ErrEmptyProperty)

	require.NoError(t, reg.Register(FieldMapping{Property: "stock", Aliases: []string{"qty"}}))
	assert.Equal(t, 5, reg.Len())
}

func TestRegistry_PrependFormats(t *testing.T) {
	reg := newTestRegistry(t)

	reg.PrependFormats("price", "#.##0,00", "comma")
	assert.Equal(t, []string{"#.##0,00", "comma"}, reg.Formats("price"))

	reg.PrependFormats("missing", "x")
	assert.Nil(t, reg.Formats("missing"))

	// snapshots are detached from the registry
	formats := reg.Formats("price")
	formats[0] = "mutated"
	assert.Equal(t, "#.##0,00", reg.Formats("price")[0])
}

func TestRegistry_ConcurrentFormats(t *testing.T) {
	reg := newTestRegistry(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			reg.PrependFormats("price", "point")
		}()
		go func() {
			defer wg.Done()
			_, _ = reg.Resolve("price")
			_ = reg.Formats("price")
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"point", "comma"}, reg.Formats("price"))
}

func TestRegistry_Clone(t *testing.T) {
	reg := newTestRegistry(t)
	clone := reg.Clone()

	clone.PrependFormats("price", "point")
	require.NoError(t, clone.Register(FieldMapping{Property: "extra"}))

	assert.Equal(t, []string{"comma"}, reg.Formats("price"))
	assert.Equal(t, 4, reg.Len())
	assert.Equal(t, 5, clone.Len())

	m, ok := clone.Resolve("article no")
	require.True(t, ok)
	assert.Equal(t, "sku", m.Property)
}

func TestWildcardToRegexp(t *testing.T) {
	assert.Equal(t, `(?i)^item no.$`, WildcardToRegexp("item no?"))
	assert.Equal(t, `(?i)^price.*$`, WildcardToRegexp("price*"))
	assert.Equal(t, `(?i)^a\.b$`, WildcardToRegexp("a.b"))
}
