package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots one resolved line item. A nil SupplierID marks the item
// as owned by the marketplace operator.
type OrderItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID  `gorm:"column:product_id;type:uuid;not null"`
	VariantID      *uuid.UUID `gorm:"column:variant_id;type:uuid"`
	WholesaleID    *uuid.UUID `gorm:"column:wholesale_id;type:uuid"`
	SupplierID     *uuid.UUID `gorm:"column:supplier_id;type:uuid"`
	Qty            int        `gorm:"column:qty;not null"`
	UnitPriceCents int        `gorm:"column:unit_price_cents;not null"`
	TotalCents     int        `gorm:"column:total_cents;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}
