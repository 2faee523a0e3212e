package db

import (
	"fmt"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ibrahim/dbpulse/internal/config"
	"github.com/ibrahim/dbpulse/internal/models"
)

// ConnectAndMigrate opens the configured database and brings the schema up
// to date. Postgres DSNs can run SQL migrations via golang-migrate when
// cfg.Migrations is set; otherwise the models are AutoMigrated (the dev and
// test path, and the only path for sqlite).
func ConnectAndMigrate(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	dsn := NormalizeDSN(cfg.DatabaseDSN)
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN is empty")
	}

	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	}

	var db *gorm.DB
	var err error
	if IsPostgresDSN(dsn) {
		for i := 0; i < 10; i++ {
			db, err = gorm.Open(postgres.Open(dsn), gormCfg)
			if err == nil {
				break
			}
			logger.Warn("retrying DB connection", zap.Error(err))
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			return nil, fmt.Errorf("connect database after retries: %w", err)
		}
	} else {
		db, err = gorm.Open(sqlite.Open(dsn), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
	}

	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	if cfg.Migrations && IsPostgresDSN(dsn) {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	if cfg.Seed {
		seed(db, logger)
	}
	return db, nil
}

// AutoMigrate creates or updates the schema for all domain models.
func AutoMigrate(db *gorm.DB) error {
	for _, m := range []interface{}{
		&models.Client{}, &models.Product{}, &models.Order{}, &models.OrderItem{},
	} {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func seed(db *gorm.DB, logger *zap.Logger) {
	products := []models.Product{
		{Name: "Mechanical Keyboard", SKU: "KB-MECH-01", Price: decimal.RequireFromString("89.90"), StockQuantity: 40, Category: "peripherals"},
		{Name: "USB-C Hub", SKU: "HUB-UC-07", Price: decimal.RequireFromString("34.50"), StockQuantity: 120, Category: "accessories"},
		{Name: "27\" Monitor", SKU: "MON-27-4K", Price: decimal.RequireFromString("329.00"), StockQuantity: 15, Category: "displays"},
	}
	for _, p := range products {
		var existing models.Product
		if err := db.Where("sku = ?", p.SKU).First(&existing).Error; err == gorm.ErrRecordNotFound {
			p.Active = true
			if err := db.Create(&p).Error; err != nil {
				logger.Warn("seed product failed", zap.String("sku", p.SKU), zap.Error(err))
			}
		}
	}
}

// runSQLMigrations executes migrations in ./migrations using golang-migrate,
// which only accepts URL-form DSNs.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", ToURLDSN(dsn))
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
