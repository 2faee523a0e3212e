package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ibrahim/dbpulse/internal/config"
	"github.com/ibrahim/dbpulse/internal/handlers"
	"github.com/ibrahim/dbpulse/internal/metrics"
	"github.com/ibrahim/dbpulse/internal/repository"
	"github.com/ibrahim/dbpulse/internal/services"
)

// New wires repositories, services, and handlers onto a gin engine.
func New(db *gorm.DB, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	clientRepo := repository.NewClientRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	m := metrics.New(logger, productRepo.TotalStock, orderRepo.Count)

	clientSvc := services.NewClientService(clientRepo, logger)
	productSvc := services.NewProductService(productRepo, logger)
	orderSvc := services.NewOrderService(db, orderRepo, clientRepo, productRepo, m, logger)
	if cfg.StrictStatusTransitions {
		orderSvc = orderSvc.WithStrictTransitions()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/healthz", func(c *gin.Context) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	handlers.NewClientHandler(clientSvc, logger).Register(api)
	handlers.NewProductHandler(productSvc, logger).Register(api)
	handlers.NewOrderHandler(orderSvc, logger).Register(api)

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	origins := cfg.AllowedOrigins()
	if len(origins) == 1 && origins[0] == "*" {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	return c
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
