package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/harvestlane/marketplace-backend/pkg/enums"
)

// Wholesale is a bulk listing. Exactly one of the three item collections is
// populated, matching Type.
type Wholesale struct {
	ID              uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID      *uuid.UUID                `gorm:"column:supplier_id;type:uuid"`
	Label           string                    `gorm:"column:label;not null"`
	Type            enums.WholesaleType       `gorm:"column:type;not null"`
	CaseItems       []WholesaleCaseItem       `gorm:"foreignKey:WholesaleID;constraint:OnDelete:CASCADE"`
	PalletItems     []WholesalePallet         `gorm:"foreignKey:WholesaleID;constraint:OnDelete:CASCADE"`
	FastMovingItems []WholesaleFastMovingItem `gorm:"foreignKey:WholesaleID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

// WholesaleCaseItem is a single-product bundle with its own quantity and
// discount. At most one entry per product within a wholesale record.
type WholesaleCaseItem struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WholesaleID     uuid.UUID `gorm:"column:wholesale_id;type:uuid;not null;index:idx_case_items_wholesale_product,unique"`
	ProductID       uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:idx_case_items_wholesale_product,unique"`
	PriceCents      int       `gorm:"column:price_cents;not null"`
	DiscountPercent float64   `gorm:"column:discount_percent;not null;default:0"`
	Quantity        int       `gorm:"column:quantity;not null;default:0"`
	Position        int       `gorm:"column:position;not null;default:0"`
}

// WholesalePallet is a multi-product bundle priced as one flat unit.
type WholesalePallet struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WholesaleID uuid.UUID             `gorm:"column:wholesale_id;type:uuid;not null;index"`
	Name        string                `gorm:"column:name;not null"`
	PriceCents  int                   `gorm:"column:price_cents;not null"`
	TotalCases  int                   `gorm:"column:total_cases;not null;default:0"`
	Items       []WholesalePalletItem `gorm:"foreignKey:PalletID;constraint:OnDelete:CASCADE"`
	Position    int                   `gorm:"column:position;not null;default:0"`
}

// WholesalePalletItem tracks per-product case counts inside a pallet. At most
// one entry per product within a pallet.
type WholesalePalletItem struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PalletID     uuid.UUID `gorm:"column:pallet_id;type:uuid;not null;index:idx_pallet_items_pallet_product,unique"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:idx_pallet_items_pallet_product,unique"`
	CaseQuantity int       `gorm:"column:case_quantity;not null;default:0"`
}

// WholesaleFastMovingItem is a high-turnover listing, structurally a case item
// without a discount.
type WholesaleFastMovingItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WholesaleID uuid.UUID `gorm:"column:wholesale_id;type:uuid;not null;index:idx_fast_moving_wholesale_product,unique"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:idx_fast_moving_wholesale_product,unique"`
	PriceCents  int       `gorm:"column:price_cents;not null"`
	Quantity    int       `gorm:"column:quantity;not null;default:0"`
	Position    int       `gorm:"column:position;not null;default:0"`
}
