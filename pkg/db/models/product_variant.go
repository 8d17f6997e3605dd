package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductVariant is a sellable variation of a product with its own price and
// stock counter. DiscountPriceCents, when set and positive, overrides the base
// price on the pricing path.
type ProductVariant struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID          uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Label              string    `gorm:"column:label;not null"`
	Unit               string    `gorm:"column:unit;not null"`
	PriceCents         int       `gorm:"column:price_cents;not null"`
	DiscountPriceCents *int      `gorm:"column:discount_price_cents"`
	DiscountPercent    float64   `gorm:"column:discount_percent;not null;default:0"`
	StockQty           int       `gorm:"column:stock_qty;not null;default:0"`
	Position           int       `gorm:"column:position;not null;default:0"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
