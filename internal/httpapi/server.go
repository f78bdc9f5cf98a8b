package httpapi

import (
	"net/http"

	"github.com/goccy/go-json"

	"inventory-sync/internal/bulk"
	"inventory-sync/internal/catalog"
	"inventory-sync/internal/config"
	"inventory-sync/internal/logging"
	"inventory-sync/internal/syncer"
)

const authHeader = "X-IS-KEY"

// Server hosts both protocol roles: the receiver endpoints every site
// exposes, and the admin surface. The sync service is only wired on a
// master.
type Server struct {
	cfg    *config.Config
	store  catalog.Store
	logger logging.LoggerService
	bulk   bulk.ProcessorService
	sync   syncer.SyncService
}

func NewServer(cfg *config.Config, store catalog.Store, logger logging.LoggerService, bulkProc bulk.ProcessorService, syncSvc syncer.SyncService) *Server {
	return &Server{
		cfg:    cfg,
		store:  store,
		logger: logger,
		bulk:   bulkProc,
		sync:   syncSvc,
	}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /update-stock", s.handleUpdateStock)
	mux.HandleFunc("GET /get-product-stock", s.handleGetProductStock)
	mux.HandleFunc("POST /admin/stock", s.handleAdminStock)
	mux.HandleFunc("POST /admin/stock/bulk", s.handleAdminBulkStock)
	mux.HandleFunc("GET /admin/inventory", s.handleAdminInventory)
	mux.HandleFunc("GET /admin/inventory/export", s.handleAdminExport)
	mux.HandleFunc("POST /admin/sync", s.handleAdminSync)
	mux.HandleFunc("GET /ping", handlePing)
	return mux
}

func handlePing(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// requestAPIKey extracts the shared secret: the X-IS-KEY header first
// (header-name matching is case-insensitive by construction), the is_key
// query parameter as fallback.
func requestAPIKey(r *http.Request) string {
	if key := r.Header.Get(authHeader); key != "" {
		return key
	}
	return r.URL.Query().Get("is_key")
}

// authorize rejects before any processing when the shared secret is
// missing or wrong.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request) bool {
	provided := requestAPIKey(r)
	if provided == "" || provided != s.cfg.APIKey {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
