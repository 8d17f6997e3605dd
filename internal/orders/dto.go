package orders

import (
	"github.com/google/uuid"
)

// ItemInput is one requested order line. VariantID and WholesaleID are
// mutually exclusive.
type ItemInput struct {
	ProductID   uuid.UUID  `json:"product_id" validate:"required"`
	VariantID   *uuid.UUID `json:"variant_id"`
	WholesaleID *uuid.UUID `json:"wholesale_id"`
	Qty         int        `json:"qty" validate:"gt=0"`
}

// CreateOrderInput is the order creation payload.
type CreateOrderInput struct {
	Items []ItemInput `json:"items" validate:"required,min=1,dive"`
}
