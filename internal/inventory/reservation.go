package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvestlane/marketplace-backend/internal/pricing"
	"github.com/harvestlane/marketplace-backend/pkg/db/models"
	"github.com/harvestlane/marketplace-backend/pkg/enums"
	pkgerrors "github.com/harvestlane/marketplace-backend/pkg/errors"
)

// Reserve decrements the stock counter backing one line item inside the
// caller's transaction. The stock model is re-resolved from the transaction's
// view of the data, and every decrement is guarded by a conditional update so
// concurrent reservations can never drive a counter negative. Any error leaves
// the transaction for the caller to roll back; no partial decrement survives.
func Reserve(ctx context.Context, tx *gorm.DB, item pricing.LineItem) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "transaction required")
	}
	if item.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if item.Qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	switch {
	case item.VariantID != nil:
		return reserveVariant(ctx, tx, item.ProductID, *item.VariantID, item.Qty)
	case item.WholesaleID != nil:
		return reserveWholesale(ctx, tx, item.ProductID, *item.WholesaleID, item.Qty)
	default:
		return reserveRetail(ctx, tx, item.ProductID, item.Qty)
	}
}

// ReserveAll reserves every line item in order, stopping at the first failure.
func ReserveAll(ctx context.Context, tx *gorm.DB, items []pricing.LineItem) error {
	for _, item := range items {
		if err := Reserve(ctx, tx, item); err != nil {
			return err
		}
	}
	return nil
}

func reserveVariant(ctx context.Context, tx *gorm.DB, productID, variantID uuid.UUID, qty int) error {
	result := tx.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ? AND product_id = ? AND stock_qty >= ?", variantID, productID, qty).
		UpdateColumn("stock_qty", gorm.Expr("stock_qty - ?", qty))
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "decrement variant stock")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ? AND product_id = ?", variantID, productID).
		Count(&count).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inspect variant stock")
	}
	if count == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough variant stock")
}

func reserveWholesale(ctx context.Context, tx *gorm.DB, productID, wholesaleID uuid.UUID, qty int) error {
	var wholesale models.Wholesale
	err := tx.WithContext(ctx).
		Select("id", "type").
		Where("id = ?", wholesaleID).
		First(&wholesale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "wholesale not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wholesale")
	}

	switch wholesale.Type {
	case enums.WholesaleTypeCase:
		return reserveCaseItem(ctx, tx, productID, wholesaleID, qty)
	case enums.WholesaleTypePallet:
		return reservePalletItem(ctx, tx, productID, wholesaleID, qty)
	case enums.WholesaleTypeFastMoving:
		return reserveFastMovingItem(ctx, tx, productID, wholesaleID, qty)
	default:
		return pkgerrors.New(pkgerrors.CodeInvalidState, fmt.Sprintf("unsupported wholesale type %q", wholesale.Type))
	}
}

func reserveCaseItem(ctx context.Context, tx *gorm.DB, productID, wholesaleID uuid.UUID, qty int) error {
	result := tx.WithContext(ctx).
		Model(&models.WholesaleCaseItem{}).
		Where("wholesale_id = ? AND product_id = ? AND quantity >= ?", wholesaleID, productID, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "decrement case stock")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.WithContext(ctx).
		Model(&models.WholesaleCaseItem{}).
		Where("wholesale_id = ? AND product_id = ?", wholesaleID, productID).
		Count(&count).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inspect case stock")
	}
	if count == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "case item not found")
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough case stock")
}

func reservePalletItem(ctx context.Context, tx *gorm.DB, productID, wholesaleID uuid.UUID, qty int) error {
	var palletItem models.WholesalePalletItem
	err := tx.WithContext(ctx).
		Joins("JOIN wholesale_pallets ON wholesale_pallets.id = wholesale_pallet_items.pallet_id").
		Where("wholesale_pallets.wholesale_id = ? AND wholesale_pallet_items.product_id = ?", wholesaleID, productID).
		First(&palletItem).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found in pallet")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pallet item")
	}

	result := tx.WithContext(ctx).
		Model(&models.WholesalePalletItem{}).
		Where("id = ? AND case_quantity >= ?", palletItem.ID, qty).
		UpdateColumn("case_quantity", gorm.Expr("case_quantity - ?", qty))
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "decrement pallet stock")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough pallet stock")
	}

	// Keep the pallet's case summary in step with the per-product counter.
	if err := tx.WithContext(ctx).
		Model(&models.WholesalePallet{}).
		Where("id = ?", palletItem.PalletID).
		UpdateColumn("total_cases", gorm.Expr("total_cases - ?", qty)).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement pallet summary")
	}
	return nil
}

func reserveFastMovingItem(ctx context.Context, tx *gorm.DB, productID, wholesaleID uuid.UUID, qty int) error {
	result := tx.WithContext(ctx).
		Model(&models.WholesaleFastMovingItem{}).
		Where("wholesale_id = ? AND product_id = ? AND quantity >= ?", wholesaleID, productID, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "decrement fast moving stock")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.WithContext(ctx).
		Model(&models.WholesaleFastMovingItem{}).
		Where("wholesale_id = ? AND product_id = ?", wholesaleID, productID).
		Count(&count).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inspect fast moving stock")
	}
	if count == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "fast moving item not found")
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough fast moving stock")
}

func reserveRetail(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	var product models.Product
	err := tx.WithContext(ctx).
		Select("id", "stock_qty").
		Where("id = ?", productID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.StockQty == nil {
		return pkgerrors.New(pkgerrors.CodeInvalidState, "product stock not tracked")
	}

	result := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_qty >= ?", productID, qty).
		UpdateColumn("stock_qty", gorm.Expr("stock_qty - ?", qty))
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "decrement retail stock")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock")
	}
	return nil
}
