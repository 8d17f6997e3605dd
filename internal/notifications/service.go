package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/harvestlane/marketplace-backend/pkg/db/models"
	"github.com/harvestlane/marketplace-backend/pkg/enums"
	pkgerrors "github.com/harvestlane/marketplace-backend/pkg/errors"
)

type adminLookup interface {
	FindAdmin(ctx context.Context) (*models.User, error)
}

type supplierLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
}

// Service writes settlement notifications for the parties of a payment.
type Service struct {
	repo      Repository
	users     adminLookup
	suppliers supplierLookup
}

// NewService wires notifications dependencies.
func NewService(repo Repository, users adminLookup, suppliers supplierLookup) (*Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifications repository required")
	}
	if users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user lookup required")
	}
	if suppliers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "supplier lookup required")
	}
	return &Service{repo: repo, users: users, suppliers: suppliers}, nil
}

// PaymentSettled records a notification for the marketplace operator and, for
// supplier buckets, the supplier's account.
func (s *Service) PaymentSettled(ctx context.Context, payment *models.Payment) error {
	if payment == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment required")
	}

	admin, err := s.users.FindAdmin(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find admin recipient")
	}
	if admin != nil {
		row := settledNotification(admin.ID, payment)
		if err := s.repo.Create(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create admin notification")
		}
	}

	if payment.SupplierID == nil {
		return nil
	}
	supplier, err := s.suppliers.FindByID(ctx, *payment.SupplierID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find supplier recipient")
	}
	if supplier == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}
	row := settledNotification(supplier.UserID, payment)
	if err := s.repo.Create(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supplier notification")
	}
	return nil
}

// ListForRecipient returns the most recent notifications for a user.
func (s *Service) ListForRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]models.Notification, error) {
	if recipientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient id required")
	}
	rows, err := s.repo.ListByRecipient(ctx, recipientID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	return rows, nil
}

func settledNotification(recipientID uuid.UUID, payment *models.Payment) *models.Notification {
	paymentID := payment.ID
	orderID := payment.OrderID
	return &models.Notification{
		RecipientID: recipientID,
		Kind:        enums.NotificationKindPaymentSettled,
		Title:       "Payment received",
		Body:        fmt.Sprintf("Payment of %d cents settled for order %s", payment.AmountCents, payment.OrderID),
		PaymentID:   &paymentID,
		OrderID:     &orderID,
	}
}
