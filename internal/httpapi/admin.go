package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"inventory-sync/internal/bulk"
	"inventory-sync/internal/catalog"
	"inventory-sync/internal/config"
	"inventory-sync/internal/domain/model"
	"inventory-sync/internal/matrix"
	"inventory-sync/internal/syncer"
)

type singleStockRequest struct {
	VariationID int64 `json:"variation_id"`
	Stock       int   `json:"stock"`
}

// handleAdminStock saves one edited cell and echoes the stock value read
// back from the store, so the editor can confirm what was persisted.
func (s *Server) handleAdminStock(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}

	var req singleStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid body: " + err.Error()})
		return
	}
	if req.VariationID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing product or variation ID."})
		return
	}

	ctx := r.Context()
	product, err := s.store.ProductByID(ctx, req.VariationID)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Product or variation not found."})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if !product.ManageStock {
		if err := s.store.SetManageStock(ctx, product.ID, true); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update stock: " + err.Error()})
			return
		}
	}
	qty := req.Stock
	if qty < 0 {
		qty = 0
	}
	if err := s.store.SetStock(ctx, product.ID, qty, model.StockStatus(qty)); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update stock: " + err.Error()})
		return
	}

	updated, err := s.store.ProductByID(ctx, product.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Stock updated successfully.",
		"new_stock":    updated.StockQuantity,
		"variation_id": updated.ID,
	})
}

type bulkStockRequest struct {
	Updates []bulk.Update `json:"updates"`
}

func (s *Server) handleAdminBulkStock(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}

	var req bulkStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid body: " + err.Error()})
		return
	}
	if len(req.Updates) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No updates received."})
		return
	}

	res := s.bulk.Apply(r.Context(), req.Updates)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Bulk update complete.",
		"count":   res.UpdatedCount,
		"results": res.Items,
	})
}

type inventoryRow struct {
	SeriesName        string                `json:"series_name"`
	ColorName         string                `json:"color_name"`
	TotalStock        int                   `json:"total_stock"`
	VariationsByPower map[string]matrixCell `json:"variations_by_power"`
}

type matrixCell struct {
	VariationID int64 `json:"variation_id"`
	Stock       int   `json:"stock"`
}

type inventoryResponse struct {
	Powers     []string       `json:"powers"`
	PowerSlugs []string       `json:"power_slugs"`
	Rows       []inventoryRow `json:"rows"`
	TotalRows  int            `json:"total_rows"`
	GrandTotal int            `json:"grand_total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
}

// handleAdminInventory serves one page of the bulk-edit matrix.
func (s *Server) handleAdminInventory(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	filters := matrix.Filters{
		Search: q.Get("s"),
		Letter: q.Get("filter_by_series"),
		Page:   page,
	}

	agg := matrix.NewAggregator(s.store, matrix.LogDiagnostics{Logger: s.logger})
	m, err := agg.Build(r.Context(), filters)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	resp := inventoryResponse{
		Powers:     m.Powers,
		PowerSlugs: m.PowerSlugs,
		Rows:       make([]inventoryRow, 0, len(m.Rows)),
		TotalRows:  m.TotalRows,
		GrandTotal: m.GrandTotal,
		Page:       m.Page,
		PerPage:    m.PerPage,
	}
	for _, row := range m.Rows {
		cells := make(map[string]matrixCell, len(row.CellsByPower))
		for slug, cell := range row.CellsByPower {
			cells[slug] = matrixCell{VariationID: cell.VariationID, Stock: cell.Stock}
		}
		resp.Rows = append(resp.Rows, inventoryRow{
			SeriesName:        row.SeriesName,
			ColorName:         row.ColorName,
			TotalStock:        row.TotalStock,
			VariationsByPower: cells,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAdminExport streams the whole matrix as CSV, bypassing pagination
// and the per-request cache.
func (s *Server) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}

	agg := matrix.NewAggregator(s.store, matrix.LogDiagnostics{Logger: s.logger})
	m, err := agg.Build(r.Context(), matrix.Filters{All: true})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	filename := "inventory-stock-matrix-" + time.Now().Format("20060102150405") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := matrix.WriteCSV(w, m); err != nil && s.logger != nil {
		s.logger.LogError("Inventory export write failed", err)
	}
}

// handleAdminSync triggers a full push run; master mode only. The last
// sync timestamp is persisted before responding.
func (s *Server) handleAdminSync(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}
	if !s.cfg.IsMaster() || s.sync == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "not_master"})
		return
	}

	ctx := r.Context()
	payloads, err := syncer.BuildPayloads(ctx, s.store)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	report := s.sync.Run(ctx, s.cfg.Clients, payloads)

	now := time.Now().UTC()
	if err := config.SaveState(s.cfg.StateFile, &config.State{LastSync: &now}); err != nil && s.logger != nil {
		s.logger.LogError("Failed to persist last sync timestamp", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":    report.RunID,
		"last_sync": now.Format(time.RFC3339),
		"clients":   reportClients(report),
	})
}

func reportClients(report *syncer.Report) []map[string]any {
	out := make([]map[string]any, 0, len(report.Clients))
	for _, cr := range report.Clients {
		results := make([]map[string]any, 0, len(cr.Results))
		for _, item := range cr.Results {
			entry := map[string]any{
				"sku":    item.SKU,
				"is_new": item.IsNew,
				"code":   item.Code,
			}
			if item.Error != "" {
				entry["error"] = item.Error
				entry["transport"] = item.Transport
			}
			if item.Response != nil {
				entry["response"] = item.Response
			}
			results = append(results, entry)
		}
		out = append(out, map[string]any{
			"client":  cr.Client,
			"results": results,
		})
	}
	return out
}
