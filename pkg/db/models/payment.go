package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/harvestlane/marketplace-backend/pkg/enums"
)

// Payment is the settlement record for one owner bucket of an order. Rows are
// created pending at session creation and only ever mutated by the webhook
// reconciler; they are never deleted.
type Payment struct {
	ID                    uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID                uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	OrderID               uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	SupplierID            *uuid.UUID          `gorm:"column:supplier_id;type:uuid"`
	PaymentType           enums.PaymentType   `gorm:"column:payment_type;not null"`
	AmountCents           int                 `gorm:"column:amount_cents;not null"`
	CommissionCents       int                 `gorm:"column:commission_cents;not null;default:0"`
	StripePaymentIntentID string              `gorm:"column:stripe_payment_intent_id;not null;index"`
	Status                enums.PaymentStatus `gorm:"column:status;not null;default:'pending'"`
	AmountReceivedCents   *int                `gorm:"column:amount_received_cents"`
	SettledAt             *time.Time          `gorm:"column:settled_at"`
	CreatedAt             time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
