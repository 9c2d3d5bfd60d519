package entity

import (
	"testing"
	"time"

	"data-importer/core/coerce"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Code    string
	Price   decimal.Decimal
	Count   int
	Weight  int64
	Active  bool
	Since   *time.Time
	Changed *time.Time
}

func itemSchema() *Schema[item] {
	return &Schema[item]{
		Name: "item",
		New:  func() *item { return &item{} },
		Key:  func(i *item) string { return i.Code },
		Properties: []Property[item]{
			String("code", "Code", func(i *item) *string { return &i.Code }),
			Decimal("price", "Price", func(i *item) *decimal.Decimal { return &i.Price }),
			Int("count", "Count", func(i *item) *int { return &i.Count }),
			Long("weight", "Weight", func(i *item) *int64 { return &i.Weight }),
			Bool("active", "Active", func(i *item) *bool { return &i.Active }),
			Date("since", "Since", func(i *item) **time.Time { return &i.Since }),
			DateTime("changed", "Changed", func(i *item) **time.Time { return &i.Changed }),
		},
	}
}

func TestSchema_SetGet(t *testing.T) {
	s := itemSchema()
	e := s.New()
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Set(e, "code", "A-1"))
	require.NoError(t, s.Set(e, "price", decimal.RequireFromString("9.90")))
	require.NoError(t, s.Set(e, "count", 3))
	require.NoError(t, s.Set(e, "weight", int64(1200)))
	require.NoError(t, s.Set(e, "active", true))
	require.NoError(t, s.Set(e, "since", day))

	assert.Equal(t, "A-1", e.Code)
	assert.Equal(t, 3, e.Count)
	assert.Equal(t, int64(1200), e.Weight)
	assert.True(t, e.Active)
	require.NotNil(t, e.Since)
	assert.Equal(t, day, *e.Since)

	v, err := s.Get(e, "since")
	require.NoError(t, err)
	assert.Equal(t, day, v)

	v, err = s.Get(e, "changed")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Set(e, "since", nil))
	assert.Nil(t, e.Since)
	require.NoError(t, s.Set(e, "count", nil))
	assert.Zero(t, e.Count)
}

func TestSchema_SetErrors(t *testing.T) {
	s := itemSchema()
	e := s.New()

	err := s.Set(e, "count", "three")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	err = s.Set(e, "since", "2024-01-01")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	err = s.Set(e, "missing", 1)
	assert.ErrorIs(t, err, ErrUnknownProperty)

	_, err = s.Get(e, "missing")
	assert.ErrorIs(t, err, ErrUnknownProperty)
}

func TestSchema_Validate(t *testing.T) {
	assert.NoError(t, itemSchema().Validate())

	s := itemSchema()
	s.Key = nil
	assert.ErrorContains(t, s.Validate(), "Key is required")

	s = itemSchema()
	s.New = nil
	assert.ErrorContains(t, s.Validate(), "New is required")

	s = itemSchema()
	s.Properties = append(s.Properties, String("code", "Again", func(i *item) *string { return &i.Code }))
	assert.ErrorContains(t, s.Validate(), "duplicate property code")
}

func TestSchema_Values(t *testing.T) {
	s := itemSchema()
	day := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	e := &item{Code: "B", Price: decimal.RequireFromString("1.50"), Since: &day}

	values := s.Values(e)
	assert.Equal(t, "B", values["code"])
	assert.Equal(t, "1.5", values["price"])
	assert.Equal(t, "2024-05-06", values["since"])
	assert.Equal(t, "", values["changed"])
	assert.Equal(t, "false", values["active"])

	assert.Nil(t, s.Values(nil))
}

func TestSchema_Kinds(t *testing.T) {
	s := itemSchema()
	want := map[string]coerce.Kind{
		"code": coerce.String, "price": coerce.Decimal, "count": coerce.Int,
		"weight": coerce.Long, "active": coerce.Bool, "since": coerce.Date, "changed": coerce.DateTime,
	}
	for name, kind := range want {
		p, ok := s.Property(name)
		require.True(t, ok, name)
		assert.Equal(t, kind, p.Kind, name)
	}
}
