package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/harvestlane/marketplace-backend/pkg/enums"
)

// Notification is a best-effort message produced for a recipient after a
// settlement event.
type Notification struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RecipientID uuid.UUID              `gorm:"column:recipient_id;type:uuid;not null;index"`
	Kind        enums.NotificationKind `gorm:"column:kind;not null"`
	Title       string                 `gorm:"column:title;not null"`
	Body        string                 `gorm:"column:body;not null"`
	PaymentID   *uuid.UUID             `gorm:"column:payment_id;type:uuid"`
	OrderID     *uuid.UUID             `gorm:"column:order_id;type:uuid"`
	ReadAt      *time.Time             `gorm:"column:read_at"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
}
