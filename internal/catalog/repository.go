package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvestlane/marketplace-backend/pkg/db/models"
)

// Repository exposes product and wholesale lookups for pricing and checkout.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindWholesaleByID(ctx context.Context, id uuid.UUID) (*models.Wholesale, error)
	ProductsExist(ctx context.Context, ids []uuid.UUID) (bool, error)
	CreateWholesale(ctx context.Context, wholesale *models.Wholesale) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindWholesaleByID(ctx context.Context, id uuid.UUID) (*models.Wholesale, error) {
	var wholesale models.Wholesale
	err := r.db.WithContext(ctx).
		Preload("CaseItems").
		Preload("PalletItems").
		Preload("PalletItems.Items").
		Preload("FastMovingItems").
		First(&wholesale, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &wholesale, nil
}

// ProductsExist reports whether every id in the set names a stored product.
func (r *repository) ProductsExist(ctx context.Context, ids []uuid.UUID) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id IN ?", ids).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == int64(len(ids)), nil
}

func (r *repository) CreateWholesale(ctx context.Context, wholesale *models.Wholesale) error {
	return r.db.WithContext(ctx).Create(wholesale).Error
}
