package payments

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/harvestlane/marketplace-backend/pkg/config"
	"github.com/harvestlane/marketplace-backend/pkg/db/models"
	"github.com/harvestlane/marketplace-backend/pkg/enums"
	pkgerrors "github.com/harvestlane/marketplace-backend/pkg/errors"
	"github.com/harvestlane/marketplace-backend/pkg/logger"
)

type userLoader interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type orderLoader interface {
	FindForUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
}

type supplierLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
}

// CheckoutInput identifies the order to orchestrate and the redirect targets.
type CheckoutInput struct {
	OrderID    uuid.UUID
	SuccessURL string
	CancelURL  string
}

// BucketSession is the client-facing result for one owner bucket.
type BucketSession struct {
	Type            enums.PaymentType `json:"type"`
	SupplierID      *uuid.UUID        `json:"supplier_id,omitempty"`
	SessionURL      string            `json:"session_url"`
	AmountCents     int               `json:"amount_cents"`
	CommissionCents int               `json:"commission_cents,omitempty"`
}

// Service drives external checkout session creation per owner bucket.
type Service struct {
	users     userLoader
	orders    orderLoader
	suppliers supplierLoader
	payments  Repository
	stripe    StripeCheckoutClient
	currency  string
	logg      *logger.Logger
}

// ServiceParams wires the orchestrator dependencies.
type ServiceParams struct {
	Users     userLoader
	Orders    orderLoader
	Suppliers supplierLoader
	Payments  Repository
	Stripe    StripeCheckoutClient
	Config    config.PaymentsConfig
	Logger    *logger.Logger
}

// NewService builds the payment session orchestrator.
func NewService(params ServiceParams) (*Service, error) {
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user loader required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order loader required")
	}
	if params.Suppliers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "supplier loader required")
	}
	if params.Payments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments repository required")
	}
	if params.Stripe == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stripe client required")
	}
	currency := params.Config.Currency
	if currency == "" {
		currency = string(enums.CurrencyCAD)
	}
	return &Service{
		users:     params.Users,
		orders:    params.Orders,
		suppliers: params.Suppliers,
		payments:  params.Payments,
		stripe:    params.Stripe,
		currency:  currency,
		logg:      params.Logger,
	}, nil
}

// CreateCheckout partitions the order by owner and opens one external checkout
// session per non-empty bucket, recording a pending payment row for each.
// Callers must guarantee at-most-once invocation per order; an existing
// non-failed payment row fails the whole call before any session is created.
func (s *Service) CreateCheckout(ctx context.Context, email string, input CheckoutInput) ([]BucketSession, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.SuccessURL == "" || input.CancelURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "success and cancel urls required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account does not exist")
	}

	order, err := s.orders.FindForUser(ctx, input.OrderID, user.ID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	existing, err := s.payments.FindActiveByOrder(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing payments")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "payment already initiated for order")
	}

	split := SplitItemsByOwner(order.Items)
	sessions := make([]BucketSession, 0, len(split.SupplierItems)+1)

	if len(split.AdminItems) > 0 {
		session, err := s.createAdminSession(ctx, user, order, split.AdminItems, input)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}

	for _, supplierID := range sortedSupplierIDs(split.SupplierItems) {
		session, err := s.createSupplierSession(ctx, user, order, supplierID, split.SupplierItems[supplierID], input)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}

	return sessions, nil
}

func (s *Service) createAdminSession(ctx context.Context, user *models.User, order *models.Order, items []models.OrderItem, input CheckoutInput) (*BucketSession, error) {
	total := CalculateTotal(items)

	params := s.baseSessionParams(input)
	params.LineItems = []*stripe.CheckoutSessionLineItemParams{
		s.lineItem(fmt.Sprintf("Order #%d - Marketplace Items", order.OrderNumber), total),
	}
	params.Metadata = map[string]string{
		"order_id": order.ID.String(),
		"user_id":  user.ID.String(),
		"type":     string(enums.PaymentTypeAdmin),
		"amount":   fmt.Sprintf("%d", total),
	}

	session, err := s.stripe.CreateSession(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create admin checkout session")
	}

	payment := &models.Payment{
		UserID:                user.ID,
		OrderID:               order.ID,
		PaymentType:           enums.PaymentTypeAdmin,
		AmountCents:           total,
		StripePaymentIntentID: intentRef(session),
		Status:                enums.PaymentStatusPending,
	}
	if _, err := s.payments.Create(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist admin payment")
	}

	return &BucketSession{
		Type:        enums.PaymentTypeAdmin,
		SessionURL:  session.URL,
		AmountCents: total,
	}, nil
}

func (s *Service) createSupplierSession(ctx context.Context, user *models.User, order *models.Order, supplierID uuid.UUID, items []models.OrderItem, input CheckoutInput) (*BucketSession, error) {
	supplier, err := s.suppliers.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}
	if supplier.StripeAccountID == nil || *supplier.StripeAccountID == "" {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "supplier has no payout destination")
	}

	amounts := CalculateAmounts(items)

	params := s.baseSessionParams(input)
	params.LineItems = []*stripe.CheckoutSessionLineItemParams{
		s.lineItem(fmt.Sprintf("Order #%d - Supplier %s", order.OrderNumber, supplier.BusinessName), amounts.TotalCents),
	}
	params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
		ApplicationFeeAmount: stripe.Int64(int64(amounts.CommissionCents)),
		TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
			Destination: stripe.String(*supplier.StripeAccountID),
		},
		Metadata: map[string]string{
			"order_id":    order.ID.String(),
			"user_id":     user.ID.String(),
			"supplier_id": supplier.ID.String(),
			"amount":      fmt.Sprintf("%d", amounts.TotalCents),
		},
	}

	session, err := s.stripe.CreateSession(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supplier checkout session")
	}

	payment := &models.Payment{
		UserID:                user.ID,
		OrderID:               order.ID,
		SupplierID:            &supplier.ID,
		PaymentType:           enums.PaymentTypeSupplier,
		AmountCents:           amounts.TotalCents,
		CommissionCents:       amounts.CommissionCents,
		StripePaymentIntentID: intentRef(session),
		Status:                enums.PaymentStatusPending,
	}
	if _, err := s.payments.Create(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist supplier payment")
	}

	return &BucketSession{
		Type:            enums.PaymentTypeSupplier,
		SupplierID:      &supplier.ID,
		SessionURL:      session.URL,
		AmountCents:     amounts.TotalCents,
		CommissionCents: amounts.CommissionCents,
	}, nil
}

func (s *Service) baseSessionParams(input CheckoutInput) *stripe.CheckoutSessionParams {
	return &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(input.SuccessURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(input.CancelURL),
	}
}

func (s *Service) lineItem(name string, amountCents int) *stripe.CheckoutSessionLineItemParams {
	return &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency: stripe.String(s.currency),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(name),
			},
			UnitAmount: stripe.Int64(int64(amountCents)),
		},
		Quantity: stripe.Int64(1),
	}
}

// intentRef prefers the payment intent id and falls back to the session id so
// webhook lookups always have a stable reference.
func intentRef(session *stripe.CheckoutSession) string {
	if session == nil {
		return ""
	}
	if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
		return session.PaymentIntent.ID
	}
	return session.ID
}

func sortedSupplierIDs(buckets map[uuid.UUID][]models.OrderItem) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(buckets))
	for id := range buckets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}
