package syncer

import (
	"context"
	"errors"
	"strings"

	"inventory-sync/internal/adapters/isapi/dto"
	"inventory-sync/internal/catalog"
	"inventory-sync/internal/domain/model"
)

// NoParentSKU keys variation payloads whose parent cannot be resolved.
// A defensive placeholder: the client will not match it, but the run
// keeps going instead of crashing on one orphaned variation.
const NoParentSKU = "NO_PARENT_SKU"

// BuildPayloads groups every stock-managed, SKU-bearing product into one
// push payload per root SKU: variations nested under their parent's SKU,
// simple products standalone. IsNew always starts false; the orchestrator
// flips it after the existence probe.
func BuildPayloads(ctx context.Context, store catalog.Store) (map[string]dto.UpdateStockRequest, error) {
	products, err := store.StockManaged(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string]*dto.UpdateStockRequest)
	for _, p := range products {
		if strings.TrimSpace(p.SKU) == "" {
			continue
		}

		switch p.Type {
		case model.TypeVariation:
			parentSKU := NoParentSKU
			if p.ParentID != 0 {
				parent, err := store.ProductByID(ctx, p.ParentID)
				switch {
				case errors.Is(err, catalog.ErrNotFound):
					// keep NoParentSKU
				case err != nil:
					return nil, err
				case strings.TrimSpace(parent.SKU) != "":
					parentSKU = parent.SKU
				}
			}
			entry, ok := grouped[parentSKU]
			if !ok || entry.Variations == nil && entry.Stock != nil {
				entry = &dto.UpdateStockRequest{SKU: parentSKU}
				grouped[parentSKU] = entry
			}
			stock := float64(p.StockQuantity)
			entry.Variations = append(entry.Variations, dto.VariationStock{
				VariationSKU: p.SKU,
				Stock:        &stock,
			})

		case model.TypeSimple:
			stock := float64(p.StockQuantity)
			grouped[p.SKU] = &dto.UpdateStockRequest{SKU: p.SKU, Stock: &stock}
		}
	}

	out := make(map[string]dto.UpdateStockRequest, len(grouped))
	for sku, entry := range grouped {
		out[sku] = *entry
	}
	return out, nil
}
