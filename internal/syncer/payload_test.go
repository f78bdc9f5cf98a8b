package syncer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-sync/internal/catalog"
	"inventory-sync/internal/domain/model"
)

func TestBuildPayloadsGroupsByParentSKU(t *testing.T) {
	store := catalog.NewMemoryStore()
	store.AddProduct(&model.Product{ID: 1, SKU: "ABC123", Name: "ABC", Type: model.TypeVariable, ManageStock: false})
	store.AddProduct(&model.Product{ID: 11, SKU: "ABC123-RED", Type: model.TypeVariation, ParentID: 1, ManageStock: true, StockQuantity: 10})
	store.AddProduct(&model.Product{ID: 12, SKU: "ABC123-BLUE", Type: model.TypeVariation, ParentID: 1, ManageStock: true, StockQuantity: 3})
	store.AddProduct(&model.Product{ID: 2, SKU: "SIMPLE1", Type: model.TypeSimple, ManageStock: true, StockQuantity: 5})

	payloads, err := BuildPayloads(context.Background(), store)
	require.NoError(t, err)
	require.Len(t, payloads, 2)

	variable := payloads["ABC123"]
	assert.Equal(t, "ABC123", variable.SKU)
	assert.False(t, variable.IsNew)
	require.Len(t, variable.Variations, 2)
	bySKU := map[string]float64{}
	for _, v := range variable.Variations {
		require.NotNil(t, v.Stock)
		bySKU[v.VariationSKU] = *v.Stock
	}
	assert.Equal(t, map[string]float64{"ABC123-RED": 10, "ABC123-BLUE": 3}, bySKU)

	simple := payloads["SIMPLE1"]
	require.NotNil(t, simple.Stock)
	assert.Equal(t, 5.0, *simple.Stock)
	assert.Empty(t, simple.Variations)
}

func TestBuildPayloadsOrphanVariations(t *testing.T) {
	store := catalog.NewMemoryStore()
	// Parent missing entirely.
	store.AddProduct(&model.Product{ID: 11, SKU: "LOST-1", Type: model.TypeVariation, ParentID: 99, ManageStock: true, StockQuantity: 1})
	// Parent exists but has no SKU.
	store.AddProduct(&model.Product{ID: 3, Name: "Unskued", Type: model.TypeVariable})
	store.AddProduct(&model.Product{ID: 31, SKU: "LOST-2", Type: model.TypeVariation, ParentID: 3, ManageStock: true, StockQuantity: 2})

	payloads, err := BuildPayloads(context.Background(), store)
	require.NoError(t, err)
	require.Len(t, payloads, 1)

	orphans := payloads[NoParentSKU]
	assert.Len(t, orphans.Variations, 2)
}

func TestBuildPayloadsSkipsUnmanagedAndEmptySKU(t *testing.T) {
	store := catalog.NewMemoryStore()
	store.AddProduct(&model.Product{ID: 1, SKU: "OFF", Type: model.TypeSimple, ManageStock: false, StockQuantity: 9})
	store.AddProduct(&model.Product{ID: 2, Type: model.TypeSimple, ManageStock: true, StockQuantity: 9})

	payloads, err := BuildPayloads(context.Background(), store)
	require.NoError(t, err)
	assert.Empty(t, payloads)
}
