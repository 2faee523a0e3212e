package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
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
	"github.com/ibrahim/dbpulse/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupRouter builds the API routes over a fresh in-memory database.
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(conn))

	logger := zap.NewNop()
	clientRepo := repository.NewClientRepository(conn)
	productRepo := repository.NewProductRepository(conn)
	orderRepo := repository.NewOrderRepository(conn)
	m := metrics.New(logger, productRepo.TotalStock, orderRepo.Count)

	router := gin.New()
	api := router.Group("/api")
	NewClientHandler(services.NewClientService(clientRepo, logger), logger).Register(api)
	NewProductHandler(services.NewProductService(productRepo, logger), logger).Register(api)
	NewOrderHandler(services.NewOrderService(conn, orderRepo, clientRepo, productRepo, m, logger), logger).Register(api)
	return router, conn
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
