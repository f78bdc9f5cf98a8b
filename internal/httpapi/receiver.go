package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"inventory-sync/internal/adapters/isapi/dto"
	"inventory-sync/internal/catalog"
	"inventory-sync/internal/domain/model"
)

const placeholderNamePrefix = "Synced Product Placeholder: "
const variationPlaceholderNamePrefix = "Synced Variation Placeholder: "

// handleUpdateStock is the client-side half of the push protocol. Every
// branch resolves to an explicit per-item result or a structured error
// response; nothing propagates past the item boundary.
func (s *Server) handleUpdateStock(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Empty body"})
		return
	}
	var req dto.UpdateStockRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid body: " + err.Error()})
		return
	}
	req.SKU = strings.TrimSpace(req.SKU)

	ctx := r.Context()

	if len(req.Variations) > 0 {
		s.updateVariableProduct(ctx, w, req)
		return
	}
	if req.SKU != "" {
		s.updateSimpleProduct(ctx, w, req)
		return
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid payload"})
}

func (s *Server) updateVariableProduct(ctx context.Context, w http.ResponseWriter, req dto.UpdateStockRequest) {
	var parent *model.Product
	if req.SKU != "" {
		p, err := s.store.ProductBySKU(ctx, req.SKU)
		if err != nil && !errors.Is(err, catalog.ErrNotFound) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		parent = p
	}

	creationStatus := ""
	if parent == nil && req.IsNew {
		// A full variable structure cannot be synthesized from a stock
		// payload, so the parent surrogate is a draft simple product.
		id, err := s.store.CreateSimple(ctx, &model.Product{
			Name:        placeholderNamePrefix + req.SKU,
			SKU:         req.SKU,
			Status:      model.StatusDraft,
			ManageStock: true,
		})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "Failed to create parent product placeholder.",
				"sku":   req.SKU,
			})
			return
		}
		parent, err = s.store.ProductByID(ctx, id)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		creationStatus = dto.StatusCreatedPlaceholder
	}

	if (parent == nil || !parent.IsType(model.TypeVariable)) && creationStatus != dto.StatusCreatedPlaceholder {
		var parentID int64
		if parent != nil {
			parentID = parent.ID
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("Product found, but not variable: %d", parentID),
		})
		return
	}

	var parentID int64
	if parent != nil {
		parentID = parent.ID
	}

	results := make([]dto.ItemResult, 0, len(req.Variations))
	for _, v := range req.Variations {
		vSKU := strings.TrimSpace(v.VariationSKU)
		if vSKU == "" || v.Stock == nil {
			continue
		}
		results = append(results, s.updateOneVariation(ctx, parentID, vSKU, *v.Stock, req.IsNew))
	}

	writeJSON(w, http.StatusOK, dto.UpdateStockResponse{
		OK:           true,
		Results:      results,
		MainSKU:      req.SKU,
		ParentStatus: creationStatus,
	})
}

func (s *Server) updateOneVariation(ctx context.Context, parentID int64, sku string, stock float64, isNew bool) dto.ItemResult {
	variation, err := s.store.ProductBySKU(ctx, sku)
	if err != nil && !errors.Is(err, catalog.ErrNotFound) {
		return dto.ItemResult{SKU: sku, Status: dto.StatusFailed, Message: err.Error()}
	}

	if variation == nil && isNew {
		// New SKU with no attachable parent structure: an orphan simple
		// placeholder preserves the stock value until the product is
		// authored properly.
		_, err := s.store.CreateSimple(ctx, &model.Product{
			Name:          variationPlaceholderNamePrefix + sku,
			SKU:           sku,
			Status:        model.StatusDraft,
			ManageStock:   true,
			StockQuantity: model.ClampStock(stock),
		})
		if err != nil {
			return dto.ItemResult{SKU: sku, Status: dto.StatusFailedVariationPlaceholder}
		}
		return dto.ItemResult{SKU: sku, Stock: &stock, Status: dto.StatusCreatedVariationPlaceholder}
	}

	if variation != nil && variation.ParentID != parentID {
		return dto.ItemResult{SKU: sku, Status: dto.StatusWrongParent}
	}

	if variation == nil {
		return dto.ItemResult{SKU: sku, Status: dto.StatusNotFound}
	}

	qty := model.ClampStock(stock)
	if err := s.store.SetManageStock(ctx, variation.ID, true); err != nil {
		return dto.ItemResult{SKU: sku, Status: dto.StatusFailed, Message: err.Error()}
	}
	if err := s.store.SetStock(ctx, variation.ID, qty, model.StockStatus(qty)); err != nil {
		return dto.ItemResult{SKU: sku, Status: dto.StatusFailed, Message: err.Error()}
	}
	return dto.ItemResult{SKU: sku, Stock: &stock, Status: dto.StatusUpdated}
}

func (s *Server) updateSimpleProduct(ctx context.Context, w http.ResponseWriter, req dto.UpdateStockRequest) {
	product, err := s.store.ProductBySKU(ctx, req.SKU)
	if err != nil && !errors.Is(err, catalog.ErrNotFound) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	creationStatus := ""
	if product == nil && req.IsNew {
		stock := 0.0
		if req.Stock != nil {
			stock = *req.Stock
		}
		id, err := s.store.CreateSimple(ctx, &model.Product{
			Name:          placeholderNamePrefix + req.SKU,
			SKU:           req.SKU,
			Status:        model.StatusDraft,
			ManageStock:   true,
			StockQuantity: model.ClampStock(stock),
		})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "Failed to create simple product placeholder.",
				"sku":   req.SKU,
			})
			return
		}
		product, err = s.store.ProductByID(ctx, id)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		creationStatus = dto.StatusCreatedPlaceholder
	}

	if product == nil || !product.IsType(model.TypeSimple) {
		// Type mismatch cannot be resolved automatically.
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "Product not found or not simple by SKU: " + req.SKU,
		})
		return
	}

	if req.Stock == nil {
		if creationStatus != "" {
			// Placeholder was created with zero stock; report it.
			zero := 0.0
			writeJSON(w, http.StatusOK, dto.UpdateStockResponse{
				OK: true, SKU: req.SKU, ProductID: product.ID, Stock: &zero, Status: creationStatus,
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid payload"})
		return
	}

	qty := model.ClampStock(*req.Stock)
	if err := s.store.SetManageStock(ctx, product.ID, true); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if err := s.store.SetStock(ctx, product.ID, qty, model.StockStatus(qty)); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	status := creationStatus
	if status == "" {
		status = dto.StatusUpdated
	}
	writeJSON(w, http.StatusOK, dto.UpdateStockResponse{
		OK:        true,
		SKU:       req.SKU,
		ProductID: product.ID,
		Stock:     req.Stock,
		Status:    status,
	})
}
