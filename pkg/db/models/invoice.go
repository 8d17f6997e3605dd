package models

import (
	"time"

	"github.com/google/uuid"
)

// Invoice is the generated billing document for a settled order.
type Invoice struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	Number     string    `gorm:"column:number;not null;uniqueIndex"`
	TotalCents int       `gorm:"column:total_cents;not null"`
	IssuedAt   time.Time `gorm:"column:issued_at;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
