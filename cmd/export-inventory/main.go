// Writes the full color × power stock matrix as CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"inventory-sync/internal/catalog"
	"inventory-sync/internal/config"
	inframysql "inventory-sync/internal/infra/mysql"
	"inventory-sync/internal/logging"
	"inventory-sync/internal/matrix"
)

func main() {
	output := flag.String("o", "", "output file (default stdout)")
	flag.Parse()

	if os.Getenv("ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("error %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.TelegramBot)

	db, err := inframysql.New(cfg.Mysql)
	if err != nil {
		logger.LogError("mysql connect failed", err)
		os.Exit(1)
	}
	defer db.Close()
	store := catalog.NewMysqlStore(db)

	agg := matrix.NewAggregator(store, matrix.LogDiagnostics{Logger: logger})
	m, err := agg.Build(context.Background(), matrix.Filters{All: true})
	if err != nil {
		logger.LogError("matrix build failed", err)
		os.Exit(1)
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			logger.LogError("cannot create output file", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	if err := matrix.WriteCSV(w, m); err != nil {
		logger.LogError("csv write failed", err)
		os.Exit(1)
	}
	logger.LogSuccess(fmt.Sprintf("Inventory export completed rows=%d grand_total=%d", len(m.Rows), m.GrandTotal))
}
