package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"inventory-sync/internal/adapters/isapi/dto"
	"inventory-sync/internal/catalog"
	"inventory-sync/internal/domain/model"
)

// handleGetProductStock is the read-only snapshot the master uses as an
// existence probe; 404 here is what flips is_new on the push side.
func (s *Server) handleGetProductStock(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}

	q := r.URL.Query()
	sku := q.Get("sku")
	productID, _ := strconv.ParseInt(q.Get("product_id"), 10, 64)
	if sku == "" && productID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sku or product_id required"})
		return
	}

	ctx := r.Context()
	var product *model.Product
	var err error
	if sku != "" {
		product, err = s.store.ProductBySKU(ctx, sku)
	} else {
		product, err = s.store.ProductByID(ctx, productID)
	}
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	snapshot := dto.StockSnapshot{
		ProductID: product.ID,
		SKU:       product.SKU,
		Type:      string(product.Type),
	}
	if product.IsType(model.TypeVariable) {
		children, err := s.store.Children(ctx, product.ID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		snapshot.Variations = make([]dto.VariationSnapshot, 0, len(children))
		for _, c := range children {
			stock := c.StockQuantity
			snapshot.Variations = append(snapshot.Variations, dto.VariationSnapshot{
				VariationID:  c.ID,
				VariationSKU: c.SKU,
				Stock:        &stock,
			})
		}
	} else {
		stock := product.StockQuantity
		snapshot.Stock = &stock
	}

	writeJSON(w, http.StatusOK, snapshot)
}
