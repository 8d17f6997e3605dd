package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier links a marketplace user to its payout destination.
type Supplier struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	BusinessName    string    `gorm:"column:business_name;not null"`
	StripeAccountID *string   `gorm:"column:stripe_account_id"`
	User            *User     `gorm:"foreignKey:UserID"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
