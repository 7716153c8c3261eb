// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/reusehub/reuse-be/internal/adapters/db"
	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/pkg/config"
	"github.com/reusehub/reuse-be/internal/pkg/logger"
)

// demoCatalog is the starter inventory loaded into a fresh tenant.
var demoCatalog = []struct {
	Name     string
	Quantity int
}{
	{"Desk Lamp", 3},
	{"Scientific Calculator", 5},
	{"Folding Ladder", 1},
	{"Camping Tent", 2},
	{"Projector", 2},
	{"Board Game: Settlers", 4},
	{"Electric Kettle", 3},
	{"Bike Pump", 2},
	{"Sewing Kit", 6},
	{"HDMI Cable", 10},
}

func main() {
	appID := flag.String("app", domain.DefaultAppID, "tenant scope to seed")
	truncate := flag.Bool("truncate", false, "wipe the tenant's items before seeding")
	flag.Parse()

	slogger := logger.SetupLogger("info", "text").Logger

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		User:           cfg.Database.User,
		Password:       cfg.Database.Password,
		Database:       cfg.Database.Name,
		SSLMode:        cfg.Database.SSLMode,
		MaxConnections: 4,
		MinConnections: 1,
		ConnectTimeout: cfg.Database.ConnectTimeout,
	}, slogger)
	if err != nil {
		slogger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	if *truncate {
		if _, err := database.Exec(ctx, `DELETE FROM items WHERE app_id = $1`, *appID); err != nil {
			slogger.Error("failed to clear tenant items", slog.String("error", err.Error()))
			os.Exit(1)
		}
		slogger.Info("cleared existing items", slog.String("app_id", *appID))
	}

	items := make([]domain.Item, 0, len(demoCatalog))
	for _, entry := range demoCatalog {
		item := domain.Item{
			AppID:         *appID,
			Name:          entry.Name,
			TotalQuantity: entry.Quantity,
		}
		item.PrepareForStorage()
		items = append(items, item)
	}

	repo := db.NewItemRepository(database, slogger)
	if err := repo.SaveBatch(ctx, items); err != nil {
		slogger.Error("failed to seed items", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger.Info("demo inventory seeded",
		slog.String("app_id", *appID),
		slog.Int("items", len(items)))
}
