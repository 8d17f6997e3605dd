package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the canonical listing. A nil StockQty means retail stock is not
// tracked for the product; a nil SupplierID means the listing is owned by the
// marketplace operator.
type Product struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID       *uuid.UUID       `gorm:"column:supplier_id;type:uuid"`
	Title            string           `gorm:"column:title;not null"`
	RetailPriceCents int              `gorm:"column:retail_price_cents;not null;default:0"`
	StockQty         *int             `gorm:"column:stock_qty"`
	Variants         []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
