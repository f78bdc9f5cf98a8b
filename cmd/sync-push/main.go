// Pushes local stock counts to every configured client store.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"inventory-sync/internal/adapters/isapi"
	"inventory-sync/internal/catalog"
	"inventory-sync/internal/config"
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

	if !cfg.IsMaster() {
		logger.LogWarning("sync-push refused: not running in master mode")
		os.Exit(1)
	}
	if len(cfg.Clients) == 0 {
		logger.LogWarning("sync-push skipped: no clients configured")
		return
	}

	db, err := inframysql.New(cfg.Mysql)
	if err != nil {
		logger.LogError("mysql connect failed", err)
		os.Exit(1)
	}
	defer db.Close()
	store := catalog.NewMysqlStore(db)

	ctx := context.Background()
	payloads, err := syncer.BuildPayloads(ctx, store)
	if err != nil {
		logger.LogError("payload build failed", err)
		os.Exit(1)
	}

	orchestrator := syncer.NewOrchestrator(isapi.NewClient(cfg.Probe), logger)
	report := orchestrator.Run(ctx, cfg.Clients, payloads)

	now := time.Now().UTC()
	if err := config.SaveState(cfg.StateFile, &config.State{LastSync: &now}); err != nil {
		logger.LogError("failed to persist last sync timestamp", err)
	}

	for _, cr := range report.Clients {
		fmt.Printf("client %s\n", cr.Client)
		for _, item := range cr.Results {
			if item.Error != "" {
				fmt.Printf("  %-24s code=%d is_new=%v error=%s\n", item.SKU, item.Code, item.IsNew, item.Error)
				continue
			}
			fmt.Printf("  %-24s code=%d is_new=%v\n", item.SKU, item.Code, item.IsNew)
		}
	}
}
