package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ibrahim/dbpulse/internal/db"
	"github.com/ibrahim/dbpulse/internal/metrics"
	"github.com/ibrahim/dbpulse/internal/models"
	"github.com/ibrahim/dbpulse/internal/repository"
)

// setupTestDB opens a unique in-memory database per test to avoid
// cross-test collisions.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(conn))
	return conn
}

func newTestOrderService(t *testing.T, conn *gorm.DB) *OrderService {
	t.Helper()
	logger := zap.NewNop()
	products := repository.NewProductRepository(conn)
	orders := repository.NewOrderRepository(conn)
	return NewOrderService(
		conn,
		orders,
		repository.NewClientRepository(conn),
		products,
		metrics.New(logger, products.TotalStock, orders.Count),
		logger,
	)
}

func seedClient(t *testing.T, conn *gorm.DB, email string) *models.Client {
	t.Helper()
	client := &models.Client{FirstName: "Ada", LastName: "Lovelace", Email: email, Active: true}
	require.NoError(t, conn.Create(client).Error)
	return client
}

func seedProduct(t *testing.T, conn *gorm.DB, sku, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          name,
		SKU:           sku,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Active:        true,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}
