package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ibrahim/dbpulse/internal/models"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) FindByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Where("category = ?", category).Order("id").Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Search matches the term as a case-insensitive substring of name, SKU, or
// category, with offset pagination.
func (r *ProductRepository) Search(ctx context.Context, term string, page, size int) ([]models.Product, int64, error) {
	like := "%" + term + "%"
	q := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("name LIKE ? OR sku LIKE ? OR category LIKE ?", like, like, like)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var products []models.Product
	if err := q.Order("id").Limit(size).Offset(page * size).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("sku = ?", sku).Limit(1).Count(&count).Error
	return count > 0, err
}

func (r *ProductRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).Limit(1).Count(&count).Error
	return count > 0, err
}

func (r *ProductRepository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, id).Error
}

// DecrementStock subtracts quantity from the product's stock in a single
// conditional UPDATE. It returns false when the guard failed, i.e. available
// stock was below the requested quantity; the row is left untouched in that
// case. This is the check-and-decrement that prevents lost updates under
// concurrent placements.
func (r *ProductRepository) DecrementStock(ctx context.Context, id uint, quantity int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// TotalStock sums stock across active products, for the inventory gauge.
func (r *ProductRepository) TotalStock(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("active = ?", true).
		Select("COALESCE(SUM(stock_quantity), 0)").Scan(&total).Error
	return total, err
}
