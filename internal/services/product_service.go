package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ibrahim/dbpulse/internal/models"
	"github.com/ibrahim/dbpulse/internal/repository"
)

// ProductInput carries the caller-settable product fields.
type ProductInput struct {
	Name          string
	Description   string
	SKU           string
	Price         decimal.Decimal
	StockQuantity int
	Category      string
}

type ProductService struct {
	products *repository.ProductRepository
	logger   *zap.Logger
}

func NewProductService(products *repository.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{products: products, logger: logger}
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	s.logger.Info("creating product", zap.String("sku", in.SKU))

	exists, err := s.products.ExistsBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &DuplicateError{Resource: "Product", Field: "SKU", Value: in.SKU}
	}

	product := &models.Product{
		Name:          in.Name,
		Description:   in.Description,
		SKU:           in.SKU,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		Category:      in.Category,
		Active:        true,
	}
	if err := s.products.Create(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &DuplicateError{Resource: "Product", Field: "SKU", Value: in.SKU}
		}
		return nil, err
	}

	s.logger.Info("product created", zap.Uint("id", product.ID))
	return product, nil
}

func (s *ProductService) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "Product", ID: id}
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) GetAll(ctx context.Context) ([]models.Product, error) {
	return s.products.FindAll(ctx)
}

func (s *ProductService) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return s.products.FindByCategory(ctx, category)
}

func (s *ProductService) Search(ctx context.Context, term string, page, size int) ([]models.Product, int64, error) {
	return s.products.Search(ctx, term, page, size)
}

func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	s.logger.Info("updating product", zap.Uint("id", id))

	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if product.SKU != in.SKU {
		exists, err := s.products.ExistsBySKU(ctx, in.SKU)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &DuplicateError{Resource: "Product", Field: "SKU", Value: in.SKU}
		}
	}

	product.Name = in.Name
	product.Description = in.Description
	product.SKU = in.SKU
	product.Price = in.Price
	product.StockQuantity = in.StockQuantity
	product.Category = in.Category

	if err := s.products.Save(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &DuplicateError{Resource: "Product", Field: "SKU", Value: in.SKU}
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	s.logger.Info("deleting product", zap.Uint("id", id))

	exists, err := s.products.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return &NotFoundError{Resource: "Product", ID: id}
	}
	return s.products.Delete(ctx, id)
}

// UpdateStock sets the stock level directly, as opposed to the relative
// decrement the order workflow performs.
func (s *ProductService) UpdateStock(ctx context.Context, id uint, quantity int) (*models.Product, error) {
	s.logger.Info("updating stock", zap.Uint("id", id), zap.Int("quantity", quantity))

	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.StockQuantity = quantity
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}
