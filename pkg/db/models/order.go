package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/harvestlane/marketplace-backend/pkg/enums"
)

// Order is a buyer order spanning admin and supplier owned items.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	OrderNumber int64             `gorm:"column:order_number;autoIncrement;uniqueIndex"`
	Status      enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	TotalCents  int               `gorm:"column:total_cents;not null"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
