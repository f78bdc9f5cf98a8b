// Serves the sync endpoints (both roles) plus the admin inventory surface.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"inventory-sync/internal/adapters/isapi"
	"inventory-sync/internal/bulk"
	"inventory-sync/internal/catalog"
	"inventory-sync/internal/config"
	"inventory-sync/internal/httpapi"
	inframysql "inventory-sync/internal/infra/mysql"
	"inventory-sync/internal/logging"
	"inventory-sync/internal/syncer"
)

func main() {
	if os.Getenv("ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("error %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.TelegramBot)

	var store catalog.Store
	if cfg.Mysql.Host != "" {
		db, err := inframysql.New(cfg.Mysql)
		if err != nil {
			logger.LogError("mysql connect failed", err)
			os.Exit(1)
		}
		defer db.Close()
		store = catalog.NewMysqlStore(db)
	} else {
		logger.LogWarning("no mysql configured, using empty in-memory catalog")
		store = catalog.NewMemoryStore()
	}

	var syncSvc syncer.SyncService
	if cfg.IsMaster() {
		syncSvc = syncer.NewOrchestrator(isapi.NewClient(cfg.Probe), logger)
	}

	server := httpapi.NewServer(cfg, store, logger, bulk.NewProcessor(store, logger), syncSvc)

	logger.Log(fmt.Sprintf("sync-server starting mode=%s listen=%s clients=%d",
		cfg.Mode, cfg.Listen, len(cfg.Clients)))
	if err := http.ListenAndServe(cfg.Listen, server.Routes()); err != nil {
		logger.LogError("server failed", err)
		os.Exit(1)
	}
}
