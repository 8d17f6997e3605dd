package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harvestlane/marketplace-backend/pkg/db/models"
	"github.com/harvestlane/marketplace-backend/pkg/enums"
	pkgerrors "github.com/harvestlane/marketplace-backend/pkg/errors"
)

// LineItem is a pricing request for a single order line. VariantID and
// WholesaleID are mutually exclusive; when both are absent the retail path
// applies.
type LineItem struct {
	ProductID   uuid.UUID
	VariantID   *uuid.UUID
	WholesaleID *uuid.UUID
	Qty         int
}

// StockHandle names the exact counter a resolved line item decrements.
type StockHandle struct {
	Kind        enums.StockKind
	ProductID   uuid.UUID
	VariantID   uuid.UUID
	WholesaleID uuid.UUID
	PalletID    uuid.UUID
}

// Quote is the resolved price for one line item. AvailableQty is nil when the
// retail counter is not tracked for the product. SupplierID is nil for
// operator-owned listings.
type Quote struct {
	UnitPriceCents     int
	OriginalPriceCents int
	DiscountPercent    float64
	AvailableQty       *int
	SupplierID         *uuid.UUID
	Handle             StockHandle
}

type productLoader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type wholesaleLoader interface {
	FindWholesaleByID(ctx context.Context, id uuid.UUID) (*models.Wholesale, error)
}

// Resolver maps line items onto one of the four stock models.
type Resolver struct {
	products  productLoader
	wholesale wholesaleLoader
}

// NewResolver builds a resolver over the provided catalog loaders.
func NewResolver(products productLoader, wholesale wholesaleLoader) (*Resolver, error) {
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if wholesale == nil {
		return nil, fmt.Errorf("wholesale loader required")
	}
	return &Resolver{products: products, wholesale: wholesale}, nil
}

// Resolve determines the pricing/stock model for the item. Resolution order is
// strict: variant, then wholesale, then retail.
func (r *Resolver) Resolve(ctx context.Context, item LineItem) (*Quote, error) {
	if item.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if item.Qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if item.VariantID != nil && item.WholesaleID != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant and wholesale are mutually exclusive")
	}

	product, err := r.products.FindProductByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	switch {
	case item.VariantID != nil:
		return resolveVariant(product, *item.VariantID)
	case item.WholesaleID != nil:
		wholesale, err := r.wholesale.FindWholesaleByID(ctx, *item.WholesaleID)
		if err != nil {
			return nil, err
		}
		if wholesale == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wholesale not found")
		}
		return resolveWholesale(wholesale, product.ID)
	default:
		return resolveRetail(product)
	}
}

func resolveVariant(product *models.Product, variantID uuid.UUID) (*Quote, error) {
	for i := range product.Variants {
		variant := &product.Variants[i]
		if variant.ID != variantID {
			continue
		}
		unitPrice := variant.PriceCents
		if variant.DiscountPriceCents != nil && *variant.DiscountPriceCents > 0 {
			unitPrice = *variant.DiscountPriceCents
		}
		available := variant.StockQty
		return &Quote{
			UnitPriceCents:     unitPrice,
			OriginalPriceCents: variant.PriceCents,
			DiscountPercent:    variant.DiscountPercent,
			AvailableQty:       &available,
			SupplierID:         product.SupplierID,
			Handle: StockHandle{
				Kind:      enums.StockKindVariant,
				ProductID: product.ID,
				VariantID: variant.ID,
			},
		}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
}

func resolveWholesale(wholesale *models.Wholesale, productID uuid.UUID) (*Quote, error) {
	switch wholesale.Type {
	case enums.WholesaleTypeCase:
		return resolveCase(wholesale, productID)
	case enums.WholesaleTypePallet:
		return resolvePallet(wholesale, productID)
	case enums.WholesaleTypeFastMoving:
		return resolveFastMoving(wholesale, productID)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeInvalidState, fmt.Sprintf("unsupported wholesale type %q", wholesale.Type))
	}
}

func resolveCase(wholesale *models.Wholesale, productID uuid.UUID) (*Quote, error) {
	for i := range wholesale.CaseItems {
		caseItem := &wholesale.CaseItems[i]
		if caseItem.ProductID != productID {
			continue
		}
		available := caseItem.Quantity
		return &Quote{
			UnitPriceCents:     DiscountedCents(caseItem.PriceCents, caseItem.DiscountPercent),
			OriginalPriceCents: caseItem.PriceCents,
			DiscountPercent:    caseItem.DiscountPercent,
			AvailableQty:       &available,
			SupplierID:         wholesale.SupplierID,
			Handle: StockHandle{
				Kind:        enums.StockKindWholesaleCase,
				ProductID:   productID,
				WholesaleID: wholesale.ID,
			},
		}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "case item not found")
}

func resolvePallet(wholesale *models.Wholesale, productID uuid.UUID) (*Quote, error) {
	for i := range wholesale.PalletItems {
		pallet := &wholesale.PalletItems[i]
		for j := range pallet.Items {
			if pallet.Items[j].ProductID != productID {
				continue
			}
			// Flat pallet pricing: every quantity increment is charged the
			// whole pallet price. The decrement path consumes the product's
			// case count instead.
			available := pallet.Items[j].CaseQuantity
			return &Quote{
				UnitPriceCents:     pallet.PriceCents,
				OriginalPriceCents: pallet.PriceCents,
				DiscountPercent:    0,
				AvailableQty:       &available,
				SupplierID:         wholesale.SupplierID,
				Handle: StockHandle{
					Kind:        enums.StockKindWholesalePallet,
					ProductID:   productID,
					WholesaleID: wholesale.ID,
					PalletID:    pallet.ID,
				},
			}, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found in pallet")
}

func resolveFastMoving(wholesale *models.Wholesale, productID uuid.UUID) (*Quote, error) {
	for i := range wholesale.FastMovingItems {
		entry := &wholesale.FastMovingItems[i]
		if entry.ProductID != productID {
			continue
		}
		available := entry.Quantity
		return &Quote{
			UnitPriceCents:     entry.PriceCents,
			OriginalPriceCents: entry.PriceCents,
			DiscountPercent:    0,
			AvailableQty:       &available,
			SupplierID:         wholesale.SupplierID,
			Handle: StockHandle{
				Kind:        enums.StockKindFastMoving,
				ProductID:   productID,
				WholesaleID: wholesale.ID,
			},
		}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "fast moving item not found")
}

func resolveRetail(product *models.Product) (*Quote, error) {
	if product.RetailPriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidState, "product has no retail price")
	}
	return &Quote{
		UnitPriceCents:     product.RetailPriceCents,
		OriginalPriceCents: product.RetailPriceCents,
		DiscountPercent:    0,
		AvailableQty:       product.StockQty,
		SupplierID:         product.SupplierID,
		Handle: StockHandle{
			Kind:      enums.StockKindRetail,
			ProductID: product.ID,
		},
	}, nil
}

// DiscountedCents applies a percentage discount to a cent amount, rounding
// half up to the nearest cent.
func DiscountedCents(priceCents int, discountPercent float64) int {
	if discountPercent <= 0 {
		return priceCents
	}
	price := decimal.NewFromInt(int64(priceCents))
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discountPercent).Div(decimal.NewFromInt(100)))
	return int(price.Mul(factor).Round(0).IntPart())
}
