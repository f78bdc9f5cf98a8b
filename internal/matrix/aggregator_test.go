package matrix

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-sync/internal/catalog"
	"inventory-sync/internal/domain/model"
)

type eventRecorder struct {
	events []Event
}

func (r *eventRecorder) Observe(ev Event) {
	r.events = append(r.events, ev)
}

func (r *eventRecorder) kinds() []EventKind {
	out := make([]EventKind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

// seedLensCatalog builds a small optics shop: one variable series with a
// color and a power attribute, terms for the color taxonomy.
func seedLensCatalog(t *testing.T) *catalog.MemoryStore {
	t.Helper()
	store := catalog.NewMemoryStore()

	store.AddProduct(&model.Product{ID: 1, SKU: "ACME", Name: "Acme Series", Type: model.TypeVariable})
	store.SetParentAttributes(1, []catalog.AttributeDomain{
		{Key: "pa_color", Values: []string{"red", "blue"}},
		{Key: "pa_power", Values: []string{"100", "200"}},
	})
	store.AddTerm("pa_color", "red", "Red")
	store.AddTerm("pa_color", "blue", "Blue")

	type v struct {
		id           int64
		sku          string
		color, power string
		stock        int
	}
	for _, vv := range []v{
		{11, "ACME-R-100", "red", "100", 7},
		{12, "ACME-R-200", "red", "200", 3},
		{13, "ACME-B-100", "blue", "100", 5},
	} {
		store.AddProduct(&model.Product{ID: vv.id, SKU: vv.sku, Type: model.TypeVariation, ParentID: 1, ManageStock: true, StockQuantity: vv.stock})
		store.SetVariationAttributes(vv.id, map[string]string{"pa_color": vv.color, "pa_power": vv.power})
	}
	return store
}

func TestBuildGroupsAndTotals(t *testing.T) {
	store := seedLensCatalog(t)
	agg := NewAggregator(store, nil)

	m, err := agg.Build(context.Background(), Filters{})
	require.NoError(t, err)

	assert.Equal(t, []string{"100", "200"}, m.Powers)
	require.Len(t, m.Rows, 2)

	// Sorted case-insensitively by series+color: Blue before Red.
	blue, red := m.Rows[0], m.Rows[1]
	assert.Equal(t, "Acme Series", blue.SeriesName)
	assert.Equal(t, "Blue", blue.ColorName)
	assert.Equal(t, 5, blue.TotalStock)
	assert.Equal(t, Cell{VariationID: 13, Stock: 5}, blue.CellsByPower["100"])

	assert.Equal(t, "Red", red.ColorName)
	assert.Equal(t, 10, red.TotalStock)
	assert.Equal(t, Cell{VariationID: 11, Stock: 7}, red.CellsByPower["100"])
	assert.Equal(t, Cell{VariationID: 12, Stock: 3}, red.CellsByPower["200"])

	// Grand total is the sum of all group totals.
	assert.Equal(t, 15, m.GrandTotal)
	sum := 0
	for _, row := range m.Rows {
		rowSum := 0
		for _, cell := range row.CellsByPower {
			rowSum += cell.Stock
		}
		assert.Equal(t, row.TotalStock, rowSum)
		sum += row.TotalStock
	}
	assert.Equal(t, m.GrandTotal, sum)
}

func TestBuildSkipsIneligibleVariations(t *testing.T) {
	store := seedLensCatalog(t)
	// No SKU.
	store.AddProduct(&model.Product{ID: 14, Type: model.TypeVariation, ParentID: 1, ManageStock: true, StockQuantity: 99})
	store.SetVariationAttributes(14, map[string]string{"pa_color": "red", "pa_power": "200"})
	// Stock management off.
	store.AddProduct(&model.Product{ID: 15, SKU: "ACME-B-200", Type: model.TypeVariation, ParentID: 1, ManageStock: false, StockQuantity: 50})
	store.SetVariationAttributes(15, map[string]string{"pa_color": "blue", "pa_power": "200"})

	rec := &eventRecorder{}
	m, err := NewAggregator(store, rec).Build(context.Background(), Filters{})
	require.NoError(t, err)

	assert.Equal(t, 15, m.GrandTotal)
	assert.Contains(t, rec.kinds(), EventVariationSkipped)
}

func TestBuildExcludesParentWithoutPowerKey(t *testing.T) {
	store := seedLensCatalog(t)
	store.AddProduct(&model.Product{ID: 2, SKU: "PLAIN", Name: "Plain Shirts", Type: model.TypeVariable})
	store.SetParentAttributes(2, []catalog.AttributeDomain{
		{Key: "pa_color", Values: []string{"red", "blue"}},
	})
	store.AddProduct(&model.Product{ID: 21, SKU: "PLAIN-R", Type: model.TypeVariation, ParentID: 2, ManageStock: true, StockQuantity: 4})
	store.SetVariationAttributes(21, map[string]string{"pa_color": "red"})

	rec := &eventRecorder{}
	m, err := NewAggregator(store, rec).Build(context.Background(), Filters{})
	require.NoError(t, err)

	for _, row := range m.Rows {
		assert.NotEqual(t, "Plain Shirts", row.SeriesName)
	}
	assert.Contains(t, rec.kinds(), EventParentSkipped)
}

func TestBuildParentNameColorFallback(t *testing.T) {
	store := catalog.NewMemoryStore()
	store.AddProduct(&model.Product{ID: 1, SKU: "SOLO", Name: "Solo Lens", Type: model.TypeVariable})
	store.SetParentAttributes(1, []catalog.AttributeDomain{
		{Key: "pa_power", Values: []string{"100"}},
	})
	store.AddProduct(&model.Product{ID: 11, SKU: "SOLO-100", Type: model.TypeVariation, ParentID: 1, ManageStock: true, StockQuantity: 2})
	store.SetVariationAttributes(11, map[string]string{"pa_power": "100"})

	m, err := NewAggregator(store, nil).Build(context.Background(), Filters{})
	require.NoError(t, err)

	require.Len(t, m.Rows, 1)
	assert.Equal(t, "Solo Lens", m.Rows[0].ColorName)
}

func TestResolvePowerFallbackStages(t *testing.T) {
	store := seedLensCatalog(t)

	// Structured map empty; direct attribute meta key carries the value.
	store.AddProduct(&model.Product{ID: 16, SKU: "ACME-G-200", Type: model.TypeVariation, ParentID: 1, ManageStock: true, StockQuantity: 8})
	store.SetVariationAttributes(16, map[string]string{"pa_color": "green"})
	store.SetAttributeMeta(16, map[string]string{"attribute_pa_power": "200"})

	// Neither structured map nor direct key; first non-empty attribute
	// meta entry wins.
	store.AddProduct(&model.Product{ID: 17, SKU: "ACME-Y-100", Type: model.TypeVariation, ParentID: 1, ManageStock: true, StockQuantity: 6})
	store.SetVariationAttributes(17, map[string]string{"pa_color": "yellow"})
	store.SetAttributeMeta(17, map[string]string{"attribute_pa_sphere": "100"})

	rec := &eventRecorder{}
	m, err := NewAggregator(store, rec).Build(context.Background(), Filters{})
	require.NoError(t, err)

	byColor := map[string]ColorGroup{}
	for _, row := range m.Rows {
		byColor[row.ColorName] = row
	}
	assert.Equal(t, Cell{VariationID: 16, Stock: 8}, byColor["green"].CellsByPower["200"])
	assert.Equal(t, Cell{VariationID: 17, Stock: 6}, byColor["yellow"].CellsByPower["100"])
	assert.Contains(t, rec.kinds(), EventMetaFallbackUsed)
}

func TestBuildDropsVariationWithEmptyPowerValue(t *testing.T) {
	store := seedLensCatalog(t)
	store.AddProduct(&model.Product{ID: 18, SKU: "ACME-X", Type: model.TypeVariation, ParentID: 1, ManageStock: true, StockQuantity: 9})
	store.SetVariationAttributes(18, map[string]string{"pa_color": "red"})

	m, err := NewAggregator(store, nil).Build(context.Background(), Filters{})
	require.NoError(t, err)

	// Cannot be placed in any column, so its stock never counts.
	assert.Equal(t, 15, m.GrandTotal)
}

func TestFilters(t *testing.T) {
	store := seedLensCatalog(t)
	store.AddProduct(&model.Product{ID: 3, SKU: "ZEN", Name: "Zen Series", Type: model.TypeVariable})
	store.SetParentAttributes(3, []catalog.AttributeDomain{
		{Key: "pa_power", Values: []string{"100"}},
	})
	store.AddProduct(&model.Product{ID: 31, SKU: "ZEN-100", Type: model.TypeVariation, ParentID: 3, ManageStock: true, StockQuantity: 1})
	store.SetVariationAttributes(31, map[string]string{"pa_power": "100"})

	store.AddProduct(&model.Product{ID: 4, SKU: "42ND", Name: "42nd Street", Type: model.TypeVariable})
	store.SetParentAttributes(4, []catalog.AttributeDomain{
		{Key: "pa_power", Values: []string{"200"}},
	})
	store.AddProduct(&model.Product{ID: 41, SKU: "42ND-200", Type: model.TypeVariation, ParentID: 4, ManageStock: true, StockQuantity: 2})
	store.SetVariationAttributes(41, map[string]string{"pa_power": "200"})

	t.Run("search", func(t *testing.T) {
		m, err := NewAggregator(store, nil).Build(context.Background(), Filters{Search: "series red"})
		require.NoError(t, err)
		require.Len(t, m.Rows, 1)
		assert.Equal(t, "Red", m.Rows[0].ColorName)
	})

	t.Run("letter", func(t *testing.T) {
		m, err := NewAggregator(store, nil).Build(context.Background(), Filters{Letter: "a"})
		require.NoError(t, err)
		for _, row := range m.Rows {
			assert.Equal(t, "Acme Series", row.SeriesName)
		}
		assert.Len(t, m.Rows, 2)
	})

	t.Run("digit letter matches any digit-initial row", func(t *testing.T) {
		m, err := NewAggregator(store, nil).Build(context.Background(), Filters{Letter: "7"})
		require.NoError(t, err)
		require.Len(t, m.Rows, 1)
		assert.Equal(t, "42nd Street", m.Rows[0].SeriesName)
	})

	t.Run("grand total ignores filters", func(t *testing.T) {
		m, err := NewAggregator(store, nil).Build(context.Background(), Filters{Search: "zen"})
		require.NoError(t, err)
		assert.Equal(t, 18, m.GrandTotal)
		assert.Equal(t, 1, m.TotalRows)
	})
}

func TestPagination(t *testing.T) {
	store := catalog.NewMemoryStore()
	store.AddProduct(&model.Product{ID: 1, SKU: "BULK", Name: "Bulk", Type: model.TypeVariable})
	store.SetParentAttributes(1, []catalog.AttributeDomain{
		{Key: "pa_color", Values: []string{"c0"}},
		{Key: "pa_power", Values: []string{"100"}},
	})
	for i := 0; i < 90; i++ {
		id := int64(100 + i)
		store.AddProduct(&model.Product{ID: id, SKU: fmt.Sprintf("BULK-%02d", i), Type: model.TypeVariation, ParentID: 1, ManageStock: true, StockQuantity: 1})
		store.SetVariationAttributes(id, map[string]string{
			"pa_color": fmt.Sprintf("color-%02d", i),
			"pa_power": "100",
		})
	}

	agg := NewAggregator(store, nil)
	page1, err := agg.Build(context.Background(), Filters{Page: 1})
	require.NoError(t, err)
	assert.Len(t, page1.Rows, PerPage)
	assert.Equal(t, 90, page1.TotalRows)

	page3, err := agg.Build(context.Background(), Filters{Page: 3})
	require.NoError(t, err)
	assert.Len(t, page3.Rows, 10)

	all, err := agg.Build(context.Background(), Filters{All: true})
	require.NoError(t, err)
	assert.Len(t, all.Rows, 90)
}

func TestTaxonomyTermTranslation(t *testing.T) {
	store := seedLensCatalog(t)
	store.AddTerm("pa_power", "100", "+1.00")

	m, err := NewAggregator(store, nil).Build(context.Background(), Filters{})
	require.NoError(t, err)

	// The stored slug "100" renders under the translated term's slug.
	red := m.Rows[1]
	assert.Equal(t, "Red", red.ColorName)
	_, hasTranslated := red.CellsByPower["1-00"]
	assert.True(t, hasTranslated)
}
