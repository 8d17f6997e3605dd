package stripewebhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"go.uber.org/multierr"

	"github.com/harvestlane/marketplace-backend/internal/payments"
	"github.com/harvestlane/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/harvestlane/marketplace-backend/pkg/errors"
	"github.com/harvestlane/marketplace-backend/pkg/logger"
	"github.com/harvestlane/marketplace-backend/pkg/metrics"
)

const providerLabel = "stripe"

type notifier interface {
	PaymentSettled(ctx context.Context, payment *models.Payment) error
}

type invoicer interface {
	Generate(ctx context.Context, orderID uuid.UUID) error
}

type ServiceParams struct {
	Payments      payments.Repository
	Notifications notifier
	Invoices      invoicer
	Metrics       *metrics.WebhookMetrics
	Logger        *logger.Logger
}

// Service reconciles inbound payment provider events against payment rows.
type Service struct {
	payments      payments.Repository
	notifications notifier
	invoices      invoicer
	metrics       *metrics.WebhookMetrics
	logg          *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Payments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments repo required")
	}
	if params.Notifications == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notification sink required")
	}
	if params.Invoices == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "invoice generator required")
	}
	return &Service{
		payments:      params.Payments,
		notifications: params.Notifications,
		invoices:      params.Invoices,
		metrics:       params.Metrics,
		logg:          params.Logger,
	}, nil
}

// HandleEvent settles the payment referenced by a completed checkout session.
// Every other event type is acknowledged without side effects.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
		}
		return s.settle(ctx, &session)
	default:
		return nil
	}
}

// settle transitions the matched payment to success and runs the fan-out.
// An unknown payment reference is deliberately a soft failure: the event is
// counted and logged but acknowledged, so the provider stops redelivering.
func (s *Service) settle(ctx context.Context, session *stripe.CheckoutSession) error {
	ref := sessionIntentRef(session)
	if ref == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout session reference missing")
	}

	payment, err := s.payments.FindByIntentRef(ctx, ref)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find payment by intent ref")
	}
	if payment == nil {
		s.metrics.IncOrphaned(providerLabel)
		if s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("no payment for intent ref %s, acknowledging", ref))
		}
		return nil
	}

	received := payment.AmountCents
	if session.AmountTotal > 0 {
		received = int(session.AmountTotal)
	}

	settled, err := s.payments.MarkSettled(ctx, payment.ID, received, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark payment settled")
	}
	if !settled {
		s.metrics.IncReplayed(providerLabel)
		return nil
	}
	s.metrics.IncSettled(providerLabel)

	s.fanOut(ctx, payment)
	return nil
}

// fanOut runs the post-settlement side effects. Failures here never undo the
// settlement; they are aggregated and logged.
func (s *Service) fanOut(ctx context.Context, payment *models.Payment) {
	var errs error
	if err := s.notifications.PaymentSettled(ctx, payment); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("notify: %w", err))
	}
	if err := s.invoices.Generate(ctx, payment.OrderID); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("invoice: %w", err))
	}
	if errs != nil && s.logg != nil {
		s.logg.Error(s.logg.WithPaymentID(ctx, payment.ID.String()), "settlement fan-out incomplete", errs)
	}
}

func sessionIntentRef(session *stripe.CheckoutSession) string {
	if session == nil {
		return ""
	}
	if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
		return session.PaymentIntent.ID
	}
	return session.ID
}
