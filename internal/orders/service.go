package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvestlane/marketplace-backend/internal/inventory"
	"github.com/harvestlane/marketplace-backend/internal/pricing"
	"github.com/harvestlane/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/harvestlane/marketplace-backend/pkg/errors"
)

type userLoader interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service creates orders: it prices every line, snapshots ownership and
// reserves stock inside one transaction.
type Service struct {
	users    userLoader
	resolver *pricing.Resolver
	repo     Repository
	txRunner txRunner
}

// ServiceParams wires order creation dependencies.
type ServiceParams struct {
	Users             userLoader
	Resolver          *pricing.Resolver
	Repo              Repository
	TransactionRunner txRunner
}

// NewService builds the orders service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user loader required")
	}
	if params.Resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "pricing resolver required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repository required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &Service{
		users:    params.Users,
		resolver: params.Resolver,
		repo:     params.Repo,
		txRunner: params.TransactionRunner,
	}, nil
}

// Create prices and persists a new order. The order row, its item snapshots
// and every stock decrement commit atomically; the first pricing or stock
// failure aborts the whole order.
func (s *Service) Create(ctx context.Context, email string, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account does not exist")
	}

	lines := make([]pricing.LineItem, 0, len(input.Items))
	items := make([]models.OrderItem, 0, len(input.Items))
	total := 0
	for _, in := range input.Items {
		line := pricing.LineItem{
			ProductID:   in.ProductID,
			VariantID:   in.VariantID,
			WholesaleID: in.WholesaleID,
			Qty:         in.Qty,
		}
		quote, err := s.resolver.Resolve(ctx, line)
		if err != nil {
			return nil, err
		}
		lineTotal := quote.UnitPriceCents * in.Qty
		items = append(items, models.OrderItem{
			ProductID:      in.ProductID,
			VariantID:      in.VariantID,
			WholesaleID:    in.WholesaleID,
			SupplierID:     quote.SupplierID,
			Qty:            in.Qty,
			UnitPriceCents: quote.UnitPriceCents,
			TotalCents:     lineTotal,
		})
		total += lineTotal
		lines = append(lines, line)
	}

	order := &models.Order{
		UserID:     user.ID,
		TotalCents: total,
		Items:      items,
	}
	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return inventory.ReserveAll(ctx, tx, lines)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// FindForUser loads one of the user's orders.
func (s *Service) FindForUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindForUser(ctx, orderID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// ListForUser lists the user's most recent orders.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Order, error) {
	rows, err := s.repo.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}
