package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/invenda/inventory-be/internal/adapters/db"
	"github.com/invenda/inventory-be/internal/core/ports"
	"github.com/invenda/inventory-be/internal/core/services"
	"github.com/invenda/inventory-be/migrations"
)

// seedItem mirrors the JSON shape accepted by the bulk import endpoint
type seedItem struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Supplier  string  `json:"supplier"`
	Stock     int     `json:"stock"`
	UnitPrice float64 `json:"unit_price"`
	Status    string  `json:"status"`
}

func (s seedItem) toInput() ports.CreateInput {
	return ports.CreateInput{
		SKU:       strings.TrimSpace(s.SKU),
		Name:      strings.TrimSpace(s.Name),
		Category:  strings.TrimSpace(s.Category),
		Supplier:  strings.TrimSpace(s.Supplier),
		Stock:     s.Stock,
		UnitPrice: decimal.NewFromFloat(s.UnitPrice),
		Status:    strings.TrimSpace(s.Status),
	}
}

func loadJSONItems(path string) ([]ports.CreateInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var raw []seedItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	inputs := make([]ports.CreateInput, 0, len(raw))
	for _, item := range raw {
		inputs = append(inputs, item.toInput())
	}
	return inputs, nil
}

func loadXLSXItems(path string) ([]ports.CreateInput, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in seed file")
	}
	sheet := file.Sheets[0]

	var inputs []ports.CreateInput
	rowIdx := 0
	err = sheet.ForEachRow(func(r *xlsx.Row) error {
		// Skip header
		if rowIdx == 0 {
			rowIdx++
			return nil
		}
		rowIdx++

		get := func(i int) string {
			c := r.GetCell(i)
			if c == nil {
				return ""
			}
			if s, err := c.FormattedValue(); err == nil {
				return strings.TrimSpace(s)
			}
			return strings.TrimSpace(c.String())
		}

		sku := get(0)
		name := get(1)
		if sku == "" && name == "" {
			return nil
		}

		stock, _ := strconv.Atoi(get(4))
		price, err := decimal.NewFromString(get(5))
		if err != nil {
			price = decimal.Zero
		}

		inputs = append(inputs, ports.CreateInput{
			SKU:       sku,
			Name:      name,
			Category:  get(2),
			Supplier:  get(3),
			Stock:     stock,
			UnitPrice: price,
			Status:    get(6),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return inputs, nil
}

func main() {
	var (
		seedFile = flag.String("file", "./seed/items.json", "Seed file with items (.json or .xlsx)")
		logLevel = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		migrate  = flag.Bool("migrate", true, "Run database migrations before seeding")
		dryRun   = flag.Bool("dry-run", false, "Preview changes without modifying database")
	)
	flag.Parse()

	var slogLevel slog.Level
	switch *logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
	slog.SetDefault(logger)

	// Load items
	var (
		inputs []ports.CreateInput
		err    error
	)
	switch strings.ToLower(filepath.Ext(*seedFile)) {
	case ".xlsx":
		inputs, err = loadXLSXItems(*seedFile)
	case ".json":
		inputs, err = loadJSONItems(*seedFile)
	default:
		logger.Error("unsupported seed file format", slog.String("file", *seedFile))
		os.Exit(1)
	}
	if err != nil {
		logger.Error("failed to load seed items", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("loaded seed items",
		slog.String("file", *seedFile),
		slog.Int("count", len(inputs)))

	if *dryRun {
		for _, in := range inputs {
			fmt.Printf("DRY RUN: would add sku:%s name:%q stock:%d price:%s\n",
				in.SKU, in.Name, in.Stock, in.UnitPrice.StringFixed(2))
		}
		fmt.Println("\n[DRY RUN] No changes were made to the database")
		return
	}

	ctx := context.Background()

	dbConfig := db.DefaultConfig()
	dbConfig.Host = getEnv("DB_HOST", dbConfig.Host)
	dbConfig.Port = getEnv("DB_PORT", dbConfig.Port)
	dbConfig.User = getEnv("DB_USER", dbConfig.User)
	dbConfig.Password = getEnv("DB_PASSWORD", dbConfig.Password)
	dbConfig.Database = getEnv("DB_NAME", dbConfig.Database)
	dbConfig.SSLMode = getEnv("DB_SSL_MODE", dbConfig.SSLMode)

	database, err := db.NewDatabase(ctx, dbConfig, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	if *migrate {
		dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port,
			dbConfig.Database, dbConfig.SSLMode)

		migrator, err := db.NewMigrator(&db.MigrationConfig{
			DatabaseURL:    dbURL,
			EmbeddedSource: migrations.FS,
		}, logger)
		if err != nil {
			logger.Error("failed to create migrator", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := migrator.Up(ctx); err != nil {
			migrator.Close()
			logger.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		migrator.Close()
	}

	repo := db.NewItemRepository(database, logger)
	service := services.NewItemService(repo, logger)

	result := service.BulkImport(ctx, inputs)

	// Summary
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SEEDING OPERATION SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Items Added: %d\n", len(result.Added))
	fmt.Printf("Items Failed: %d\n", len(result.Errors))

	if len(result.Errors) > 0 {
		fmt.Printf("\nFailed Items (%d):\n", len(result.Errors))
		for _, be := range result.Errors {
			fmt.Printf("  - %s: %s\n", be.SKU, be.Error)
		}
	}

	logger.Info("seed operation completed",
		slog.Int("items_added", len(result.Added)),
		slog.Int("items_failed", len(result.Errors)))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
