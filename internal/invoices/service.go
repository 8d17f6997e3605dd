package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvestlane/marketplace-backend/pkg/db"
	"github.com/harvestlane/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/harvestlane/marketplace-backend/pkg/errors"
)

// Service generates invoice rows for settled orders.
type Service struct {
	db *gorm.DB
}

// NewService builds the invoice generator.
func NewService(gdb *gorm.DB) (*Service, error) {
	if gdb == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database required")
	}
	return &Service{db: gdb}, nil
}

// Generate persists the invoice for an order. A second call for the same
// order is a no-op: the order_id unique constraint absorbs the race.
func (s *Service) Generate(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var order models.Order
	err := s.db.WithContext(ctx).First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	invoice := &models.Invoice{
		OrderID:    order.ID,
		Number:     fmt.Sprintf("INV-%06d", order.OrderNumber),
		TotalCents: order.TotalCents,
		IssuedAt:   time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(invoice).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invoice")
	}
	return nil
}

// FindByOrder returns the invoice for an order, nil when not yet generated.
func (s *Service) FindByOrder(ctx context.Context, orderID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.WithContext(ctx).First(&invoice, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}
	return &invoice, nil
}
