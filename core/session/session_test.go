package session

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"data-importer/core/entity"
	"data-importer/core/extract"
	"data-importer/core/mapping"
	"data-importer/core/reconcile"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	SKU   string
	Name  string
	Price decimal.Decimal
	Stock int
}

func itemSchema() *entity.Schema[item] {
	return &entity.Schema[item]{
		Name: "item",
		New:  func() *item { return &item{} },
		Key:  func(i *item) string { return i.SKU },
		Properties: []entity.Property[item]{
			entity.String("sku", "SKU", func(i *item) *string { return &i.SKU }),
			entity.String("name", "Name", func(i *item) *string { return &i.Name }),
			entity.Decimal("price", "Price", func(i *item) *decimal.Decimal { return &i.Price }),
			entity.Int("stock", "Stock", func(i *item) *int { return &i.Stock }),
		},
	}
}

func itemSettings(t *testing.T) *mapping.Settings {
	t.Helper()
	reg, err := mapping.NewRegistry(
		mapping.FieldMapping{Property: "sku", Label: "SKU", Aliases: []string{"sku", "art*"}},
		mapping.FieldMapping{Property: "name", Aliases: []string{"name", "title"}},
		mapping.FieldMapping{Property: "price", Aliases: []string{"price*"}},
		mapping.FieldMapping{Property: "stock", Aliases: []string{"stock"}},
	)
	require.NoError(t, err)
	return mapping.NewSettings(reg)
}

func baseline() map[string]*item {
	return map[string]*item{
		"A1": {SKU: "A1", Name: "Chair", Price: decimal.RequireFromString("10.5"), Stock: 3},
		"A2": {SKU: "A2", Name: "Desk", Price: decimal.RequireFromString("90"), Stock: 1},
		"A9": {SKU: "A9", Name: "Sofa", Price: decimal.RequireFromString("499"), Stock: 1},
	}
}

const upload = "art;title;price;stock;colour\n" +
	"A1;Chair;10,50;3;red\n" +
	"A2;Desk;100,00;1;blue\n" +
	"A3;Lamp;5,00;2;green\n"

func parsed(t *testing.T, opts Options) *Session[item] {
	t.Helper()
	schema := itemSchema()
	s := New(schema, itemSettings(t), opts)
	p := extract.New[item](schema, nil, extract.Options{}, nil)
	_, err := p.Parse(context.Background(), strings.NewReader(upload), s)
	require.NoError(t, err)
	return s
}

func TestSessionReconcile(t *testing.T) {
	s := parsed(t, Options{DetectDeleted: true})

	assert.Equal(t, 3, s.Rows())
	assert.Equal(t, []string{"colour"}, s.UnknownColumns())
	require.Len(t, s.DetectedColumns(), 4)
	assert.Equal(t, Column{Header: "art", Property: "sku", Label: "SKU"}, s.DetectedColumns()[0])

	_, err := s.SelectByStatus(reconcile.StatusNew)
	assert.ErrorIs(t, err, ErrNotReconciled)

	require.NoError(t, s.Reconcile(context.Background(), reconcile.BaselineFunc[item](func(context.Context) (map[string]*item, error) {
		return baseline(), nil
	})))

	assert.Equal(t, map[reconcile.Status]int{
		reconcile.StatusUnmodified: 1,
		reconcile.StatusModified:   1,
		reconcile.StatusNew:        1,
		reconcile.StatusDeleted:    1,
	}, s.Counts())
}

func TestSessionCreateEntries(t *testing.T) {
	s := parsed(t, Options{DetectDeleted: true})
	require.NoError(t, s.Reconcile(context.Background(), reconcile.BaselineFunc[item](func(context.Context) (map[string]*item, error) {
		return baseline(), nil
	})))

	modified := s.CreateEntries(FilterOf(reconcile.StatusModified))
	require.Len(t, modified, 1)
	assert.Equal(t, 1, modified[0].ID)
	assert.Equal(t, "A2", modified[0].Key)
	assert.Equal(t, 3, modified[0].Line)
	assert.Equal(t, map[string]string{"price": "90"}, modified[0].Diff)
	assert.Equal(t, "100", modified[0].Incoming["price"])

	all := s.CreateEntries(ShowAll())
	require.Len(t, all, 4)
	ids := map[string]int{}
	for _, e := range all {
		ids[e.Key] = e.ID
	}
	assert.Equal(t, 1, ids["A2"], "id is stable across requests")
	assert.Equal(t, 2, ids["A1"])
	assert.Equal(t, 3, ids["A3"])
	assert.Equal(t, 4, ids["A9"])
	assert.Nil(t, all[3].Incoming)

	selected, err := s.Select([]int{3, 1})
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, "A3", selected[0].Key(s.Schema()))

	_, err = s.Select([]int{42})
	assert.ErrorIs(t, err, ErrUnknownEntry)
}

func TestSessionWithoutDeleteDetection(t *testing.T) {
	s := parsed(t, Options{})
	require.NoError(t, s.Reconcile(context.Background(), reconcile.BaselineFunc[item](func(context.Context) (map[string]*item, error) {
		return baseline(), nil
	})))
	assert.Zero(t, s.Counts()[reconcile.StatusDeleted])
}

func TestSessionReconcileImportStorage(t *testing.T) {
	s := parsed(t, Options{DetectDeleted: true})
	assert.ErrorIs(t, s.ReconcileImportStorage(context.Background(), true), ErrNotReconciled)

	current := baseline()
	var mu sync.Mutex
	source := reconcile.NewBaselineCache[item](reconcile.BaselineFunc[item](func(context.Context) (map[string]*item, error) {
		mu.Lock()
		defer mu.Unlock()
		out := make(map[string]*item, len(current))
		for k, v := range current {
			out[k] = v
		}
		return out, nil
	}), time.Hour)

	require.NoError(t, s.Reconcile(context.Background(), source))
	assert.Equal(t, 1, s.Counts()[reconcile.StatusNew])

	mu.Lock()
	current["A3"] = &item{SKU: "A3", Name: "Lamp", Price: decimal.RequireFromString("5"), Stock: 2}
	mu.Unlock()

	require.NoError(t, s.ReconcileImportStorage(context.Background(), false))
	assert.Equal(t, 1, s.Counts()[reconcile.StatusNew], "cached baseline still used")

	require.NoError(t, s.ReconcileImportStorage(context.Background(), true))
	assert.Zero(t, s.Counts()[reconcile.StatusNew])
	assert.Equal(t, 2, s.Counts()[reconcile.StatusUnmodified])
}

func TestSessionEntryIDsAcrossReconciles(t *testing.T) {
	ctx := context.Background()
	s := parsed(t, Options{DetectDeleted: true})
	source := reconcile.BaselineFunc[item](func(context.Context) (map[string]*item, error) {
		return baseline(), nil
	})
	require.NoError(t, s.Reconcile(ctx, source))

	before := map[string]int{}
	for _, e := range s.CreateEntries(ShowAll()) {
		before[e.Key] = e.ID
	}
	require.Len(t, before, 4)

	require.NoError(t, s.ReconcileImportStorage(ctx, true))

	after := s.CreateEntries(ShowAll())
	require.Len(t, after, 4)
	for _, e := range after {
		assert.Greater(t, e.ID, 4, "ids keep counting after re-reconcile")
		assert.NotEqual(t, before[e.Key], e.ID)
	}

	// an id from before the re-reconcile never selects a new pair
	_, err := s.Select([]int{before["A1"]})
	assert.ErrorIs(t, err, ErrUnknownEntry)

	selected, err := s.Select([]int{after[0].ID})
	require.NoError(t, err)
	assert.Equal(t, after[0].Key, selected[0].Key(s.Schema()))
}

func TestSessionOverride(t *testing.T) {
	schema := itemSchema()
	s := New(schema, itemSettings(t), Options{})
	require.NoError(t, s.SetOverride("stock", "7"))
	require.NoError(t, s.SetOverride("price", "1,25"))
	assert.Error(t, s.SetOverride("colour", "red"))

	p := extract.New[item](schema, nil, extract.Options{}, nil)
	_, err := p.Parse(context.Background(), strings.NewReader(upload), s)
	require.NoError(t, err)
	require.NoError(t, s.Reconcile(context.Background(), nil))

	for _, pair := range s.Pairs() {
		assert.Equal(t, 7, pair.Incoming.Stock)
		assert.Equal(t, "1.25", pair.Incoming.Price.String())
	}
	assert.Equal(t, 3, s.Counts()[reconcile.StatusNew])
	// the override went through the column-wide notation detection
	assert.Equal(t, []string{"#.##0,00"}, s.Settings().Registry.Formats("price"))
}

func TestSessionSettingsAreIsolated(t *testing.T) {
	shared := itemSettings(t)
	schema := itemSchema()

	s := New(schema, shared, Options{})
	p := extract.New[item](schema, nil, extract.Options{}, nil)
	_, err := p.Parse(context.Background(), strings.NewReader(upload), s)
	require.NoError(t, err)

	assert.NotEmpty(t, s.Settings().Registry.Formats("price"))
	assert.Empty(t, shared.Registry.Formats("price"))
}

func TestSessionErrorsAndWarningsConcurrently(t *testing.T) {
	s := New(itemSchema(), nil, Options{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.AddError("job item failed")
			_ = s.Errors()
		}()
		go func() {
			defer wg.Done()
			s.Warn("cell skipped")
			_ = s.Warnings()
		}()
	}
	wg.Wait()

	assert.Len(t, s.Errors(), 50)
	assert.Len(t, s.Warnings(), 50)
}

func TestFilter(t *testing.T) {
	f := FilterOf(reconcile.StatusUnknownModification)
	assert.True(t, f.Allows(reconcile.StatusUnknown))
	assert.True(t, f.Allows(reconcile.StatusUnknownModification))
	assert.False(t, f.Allows(reconcile.StatusNew))

	all := ShowAll()
	for _, st := range reconcile.Statuses {
		assert.True(t, all.Allows(st), st)
	}
}
