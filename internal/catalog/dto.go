package catalog

import (
	"github.com/google/uuid"

	"github.com/harvestlane/marketplace-backend/pkg/enums"
)

// CaseItemInput describes one product bundle inside a case wholesale.
type CaseItemInput struct {
	ProductID       uuid.UUID `json:"product_id" validate:"required"`
	PriceCents      int       `json:"price_cents" validate:"gt=0"`
	DiscountPercent float64   `json:"discount_percent" validate:"gte=0,lt=100"`
	Quantity        int       `json:"quantity" validate:"gte=0"`
}

// PalletItemInput describes the case count of one product inside a pallet.
type PalletItemInput struct {
	ProductID    uuid.UUID `json:"product_id" validate:"required"`
	CaseQuantity int       `json:"case_quantity" validate:"gte=0"`
}

// PalletInput describes one flat-priced pallet.
type PalletInput struct {
	Name       string            `json:"name" validate:"required"`
	PriceCents int               `json:"price_cents" validate:"gt=0"`
	Items      []PalletItemInput `json:"items" validate:"required,min=1,dive"`
}

// FastMovingItemInput describes one high-turnover listing entry.
type FastMovingItemInput struct {
	ProductID  uuid.UUID `json:"product_id" validate:"required"`
	PriceCents int       `json:"price_cents" validate:"gt=0"`
	Quantity   int       `json:"quantity" validate:"gte=0"`
}

// AddWholesaleInput creates a wholesale listing. Exactly the collection
// matching Type must be populated.
type AddWholesaleInput struct {
	SupplierID      *uuid.UUID            `json:"supplier_id"`
	Label           string                `json:"label" validate:"required"`
	Type            enums.WholesaleType   `json:"type" validate:"required"`
	CaseItems       []CaseItemInput       `json:"case_items" validate:"omitempty,dive"`
	Pallets         []PalletInput         `json:"pallets" validate:"omitempty,dive"`
	FastMovingItems []FastMovingItemInput `json:"fast_moving_items" validate:"omitempty,dive"`
}
