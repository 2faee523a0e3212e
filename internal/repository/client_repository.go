package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ibrahim/dbpulse/internal/models"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *ClientRepository) WithTx(tx *gorm.DB) *ClientRepository {
	return &ClientRepository{db: tx}
}

func (r *ClientRepository) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) FindAll(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := r.db.WithContext(ctx).Order("id").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// Search matches the term as a case-insensitive substring of first name,
// last name, or email, with offset pagination.
func (r *ClientRepository) Search(ctx context.Context, term string, page, size int) ([]models.Client, int64, error) {
	like := "%" + term + "%"
	q := r.db.WithContext(ctx).Model(&models.Client{}).
		Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", like, like, like)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var clients []models.Client
	if err := q.Order("id").Limit(size).Offset(page * size).Find(&clients).Error; err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

func (r *ClientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Client{}).
		Where("email = ?", email).Limit(1).Count(&count).Error
	return count > 0, err
}

func (r *ClientRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Client{}).
		Where("id = ?", id).Limit(1).Count(&count).Error
	return count > 0, err
}

func (r *ClientRepository) Save(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *ClientRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Client{}, id).Error
}
