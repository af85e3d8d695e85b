// cleanup prunes old lookup history records. Intended to run as a periodic
// job (cron or similar) against the same DATABASE_URL as the server.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/yigitech/x-wrapped/internal/db"
	"github.com/yigitech/x-wrapped/internal/db/lookuphistory"
	"github.com/yigitech/x-wrapped/internal/logging"
)

func main() {
	_ = godotenv.Load()
	logging.InitLogger()

	retentionDays := flag.Int("retention", 90, "Days to retain lookup history records")
	flag.Parse()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	slog.Info("starting lookup history cleanup",
		"retention_days", *retentionDays,
	)

	dbConn, err := db.NewPostgresConnection(databaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	sqlDB, err := dbConn.DB()
	if err != nil {
		slog.Error("failed to get underlying database connection", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	conns := db.NewConnections(dbConn, nil)

	retention := time.Duration(*retentionDays) * 24 * time.Hour
	if err := lookuphistory.DeleteOlderThan(conns, retention); err != nil {
		slog.Error("failed to delete old lookup records", "error", err)
		os.Exit(1)
	}

	slog.Info("lookup history cleanup completed successfully")
}
