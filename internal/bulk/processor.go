package bulk

import (
	"context"
	"errors"
	"fmt"

	"inventory-sync/internal/catalog"
	"inventory-sync/internal/domain/model"
	"inventory-sync/internal/logging"
)

// chunkSize bounds how many updates one store pass handles.
const chunkSize = 50

type Update struct {
	VariationID int64 `json:"variation_id"`
	Stock       int   `json:"stock"`
}

type ItemResult struct {
	VariationID int64  `json:"variation_id"`
	Stock       int    `json:"stock"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}

type Result struct {
	UpdatedCount int
	Items        []ItemResult
}

type ProcessorService interface {
	Apply(ctx context.Context, updates []Update) *Result
}

type Processor struct {
	store  catalog.Store
	logger logging.LoggerService
}

func NewProcessor(store catalog.Store, logger logging.LoggerService) ProcessorService {
	return &Processor{store: store, logger: logger}
}

// Apply writes the edited (variation, stock) pairs chunk by chunk. Items
// are independent: a bad id or a store failure marks that item failed and
// the rest continue. The result list mirrors the sync receiver's per-item
// shape so callers reconcile only the touched rows.
func (p *Processor) Apply(ctx context.Context, updates []Update) *Result {
	res := &Result{Items: make([]ItemResult, 0, len(updates))}

	for start := 0; start < len(updates); start += chunkSize {
		end := start + chunkSize
		if end > len(updates) {
			end = len(updates)
		}
		for _, u := range updates[start:end] {
			res.Items = append(res.Items, p.applyOne(ctx, u))
		}
	}

	for _, item := range res.Items {
		if item.Status == "updated" {
			res.UpdatedCount++
		}
	}

	if p.logger != nil {
		p.logger.Log(fmt.Sprintf("Bulk stock update applied total=%d updated=%d failed=%d",
			len(updates), res.UpdatedCount, len(updates)-res.UpdatedCount))
	}
	return res
}

func (p *Processor) applyOne(ctx context.Context, u Update) ItemResult {
	item := ItemResult{VariationID: u.VariationID, Stock: u.Stock, Status: "failed"}

	if u.VariationID <= 0 {
		item.Message = "Invalid variation ID."
		return item
	}

	product, err := p.store.ProductByID(ctx, u.VariationID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			item.Message = "Product/Variation not found."
		} else {
			item.Message = err.Error()
		}
		return item
	}

	if !product.ManageStock {
		if err := p.store.SetManageStock(ctx, product.ID, true); err != nil {
			item.Message = err.Error()
			return item
		}
	}

	stock := u.Stock
	if stock < 0 {
		stock = 0
	}
	if err := p.store.SetStock(ctx, product.ID, stock, model.StockStatus(stock)); err != nil {
		item.Message = err.Error()
		return item
	}

	item.Stock = stock
	item.Status = "updated"
	item.Message = "Stock updated."
	return item
}
