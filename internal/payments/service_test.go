package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/harvestlane/marketplace-backend/pkg/config"
	"github.com/harvestlane/marketplace-backend/pkg/db/models"
	"github.com/harvestlane/marketplace-backend/pkg/enums"
	pkgerrors "github.com/harvestlane/marketplace-backend/pkg/errors"
)

type fakeUsers struct {
	user *models.User
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if f.user != nil && f.user.Email == email {
		return f.user, nil
	}
	return nil, nil
}

type fakeOrders struct {
	order *models.Order
}

func (f *fakeOrders) FindForUser(_ context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	if f.order != nil && f.order.ID == orderID && f.order.UserID == userID {
		return f.order, nil
	}
	return nil, nil
}

type fakeSuppliers map[uuid.UUID]*models.Supplier

func (f fakeSuppliers) FindByID(_ context.Context, id uuid.UUID) (*models.Supplier, error) {
	return f[id], nil
}

type fakePaymentsRepo struct {
	rows []*models.Payment
}

func (f *fakePaymentsRepo) WithTx(*gorm.DB) Repository { return f }

func (f *fakePaymentsRepo) Create(_ context.Context, payment *models.Payment) (*models.Payment, error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	f.rows = append(f.rows, payment)
	return payment, nil
}

func (f *fakePaymentsRepo) FindByIntentRef(_ context.Context, ref string) (*models.Payment, error) {
	for _, row := range f.rows {
		if row.StripePaymentIntentID == ref {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentsRepo) FindActiveByOrder(_ context.Context, orderID uuid.UUID) (*models.Payment, error) {
	for _, row := range f.rows {
		if row.OrderID == orderID && row.Status != enums.PaymentStatusFailed {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentsRepo) MarkSettled(_ context.Context, paymentID uuid.UUID, amountReceivedCents int, settledAt time.Time) (bool, error) {
	for _, row := range f.rows {
		if row.ID != paymentID || row.Status == enums.PaymentStatusSuccess {
			continue
		}
		row.Status = enums.PaymentStatusSuccess
		row.AmountReceivedCents = &amountReceivedCents
		row.SettledAt = &settledAt
		return true, nil
	}
	return false, nil
}

func (f *fakePaymentsRepo) MarkFailed(_ context.Context, paymentID uuid.UUID) error {
	for _, row := range f.rows {
		if row.ID == paymentID && row.Status == enums.PaymentStatusPending {
			row.Status = enums.PaymentStatusFailed
		}
	}
	return nil
}

type stubStripe struct {
	params []*stripe.CheckoutSessionParams
}

func (s *stubStripe) CreateSession(_ context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	s.params = append(s.params, params)
	n := len(s.params)
	return &stripe.CheckoutSession{
		ID:            "cs_" + uuid.NewString(),
		URL:           "https://checkout.example/session",
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_" + uuid.NewString()},
		AmountTotal:   int64(n),
	}, nil
}

type checkoutFixture struct {
	service  *Service
	repo     *fakePaymentsRepo
	stripe   *stubStripe
	user     *models.User
	order    *models.Order
	supplier *models.Supplier
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	user := &models.User{ID: uuid.New(), Email: "buyer@example.com"}
	supplierAccount := "acct_123"
	supplier := &models.Supplier{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		BusinessName:    "Green Fields",
		StripeAccountID: &supplierAccount,
	}
	order := &models.Order{
		ID:          uuid.New(),
		UserID:      user.ID,
		OrderNumber: 42,
		Items: []models.OrderItem{
			{ID: uuid.New(), UnitPriceCents: 1000, Qty: 1},
			{ID: uuid.New(), SupplierID: &supplier.ID, UnitPriceCents: 2000, Qty: 2},
		},
	}

	repo := &fakePaymentsRepo{}
	stripeStub := &stubStripe{}
	service, err := NewService(ServiceParams{
		Users:     &fakeUsers{user: user},
		Orders:    &fakeOrders{order: order},
		Suppliers: fakeSuppliers{supplier.ID: supplier},
		Payments:  repo,
		Stripe:    stripeStub,
		Config:    config.PaymentsConfig{Currency: "cad"},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &checkoutFixture{
		service:  service,
		repo:     repo,
		stripe:   stripeStub,
		user:     user,
		order:    order,
		supplier: supplier,
	}
}

func (f *checkoutFixture) input() CheckoutInput {
	return CheckoutInput{
		OrderID:    f.order.ID,
		SuccessURL: "https://shop.example/success",
		CancelURL:  "https://shop.example/cancel",
	}
}

func TestCreateCheckoutSplitsBuckets(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	sessions, err := f.service.CreateCheckout(context.Background(), f.user.Email, f.input())
	if err != nil {
		t.Fatalf("create checkout: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}

	admin := sessions[0]
	if admin.Type != enums.PaymentTypeAdmin || admin.SupplierID != nil {
		t.Fatalf("expected admin bucket first, got %+v", admin)
	}
	if admin.AmountCents != 1000 || admin.CommissionCents != 0 {
		t.Fatalf("unexpected admin amounts: %+v", admin)
	}

	supplier := sessions[1]
	if supplier.Type != enums.PaymentTypeSupplier || supplier.SupplierID == nil || *supplier.SupplierID != f.supplier.ID {
		t.Fatalf("expected supplier bucket second, got %+v", supplier)
	}
	if supplier.AmountCents != 4000 || supplier.CommissionCents != 1000 {
		t.Fatalf("unexpected supplier amounts: %+v", supplier)
	}

	if len(f.repo.rows) != 2 {
		t.Fatalf("expected 2 payment rows, got %d", len(f.repo.rows))
	}
	for _, row := range f.repo.rows {
		if row.Status != enums.PaymentStatusPending {
			t.Fatalf("expected pending payment, got %s", row.Status)
		}
		if row.OrderID != f.order.ID || row.UserID != f.user.ID {
			t.Fatalf("payment row not linked to order: %+v", row)
		}
		if row.StripePaymentIntentID == "" {
			t.Fatal("payment row missing intent reference")
		}
	}

	if len(f.stripe.params) != 2 {
		t.Fatalf("expected 2 stripe calls, got %d", len(f.stripe.params))
	}
	supplierParams := f.stripe.params[1]
	if supplierParams.PaymentIntentData == nil {
		t.Fatal("supplier session missing payment intent data")
	}
	if got := *supplierParams.PaymentIntentData.ApplicationFeeAmount; got != 1000 {
		t.Fatalf("expected application fee 1000, got %d", got)
	}
	if got := *supplierParams.PaymentIntentData.TransferData.Destination; got != *f.supplier.StripeAccountID {
		t.Fatalf("expected transfer destination %s, got %s", *f.supplier.StripeAccountID, got)
	}
	if f.stripe.params[0].PaymentIntentData != nil {
		t.Fatal("admin session must not carry transfer data")
	}
}

func TestCreateCheckoutRejectsSecondAttempt(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	ctx := context.Background()
	if _, err := f.service.CreateCheckout(ctx, f.user.Email, f.input()); err != nil {
		t.Fatalf("first checkout: %v", err)
	}

	_, err := f.service.CreateCheckout(ctx, f.user.Email, f.input())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodePrecondition {
		t.Fatalf("expected precondition failure, got %v", err)
	}
	if len(f.repo.rows) != 2 {
		t.Fatalf("second attempt must not add rows, got %d", len(f.repo.rows))
	}
}

func TestCreateCheckoutSupplierWithoutPayoutAccount(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	f.supplier.StripeAccountID = nil

	_, err := f.service.CreateCheckout(context.Background(), f.user.Email, f.input())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodePrecondition {
		t.Fatalf("expected precondition failure, got %v", err)
	}
}

func TestCreateCheckoutUnknownUser(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	_, err := f.service.CreateCheckout(context.Background(), "nobody@example.com", f.input())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateCheckoutForeignOrder(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	input := f.input()
	input.OrderID = uuid.New()

	_, err := f.service.CreateCheckout(context.Background(), f.user.Email, input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateCheckoutValidatesInput(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateCheckout(ctx, f.user.Email, CheckoutInput{SuccessURL: "a", CancelURL: "b"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = f.service.CreateCheckout(ctx, f.user.Email, CheckoutInput{OrderID: f.order.ID})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
