package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/harvestlane/marketplace-backend/api/middleware"
	"github.com/harvestlane/marketplace-backend/api/responses"
	"github.com/harvestlane/marketplace-backend/api/validators"
	"github.com/harvestlane/marketplace-backend/internal/payments"
	"github.com/harvestlane/marketplace-backend/pkg/config"
	pkgerrors "github.com/harvestlane/marketplace-backend/pkg/errors"
	"github.com/harvestlane/marketplace-backend/pkg/logger"
)

type createCheckoutRequest struct {
	OrderID    uuid.UUID `json:"order_id" validate:"required"`
	SuccessURL string    `json:"success_url" validate:"omitempty,url"`
	CancelURL  string    `json:"cancel_url" validate:"omitempty,url"`
}

// CreateCheckout opens one checkout session per owner bucket of the order.
func CreateCheckout(svc *payments.Service, cfg config.PaymentsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		email := middleware.EmailFromContext(r.Context())
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity"))
			return
		}

		var payload createCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		successURL := payload.SuccessURL
		if successURL == "" {
			successURL = cfg.DefaultSuccessURL
		}
		cancelURL := payload.CancelURL
		if cancelURL == "" {
			cancelURL = cfg.DefaultCancelURL
		}

		sessions, err := svc.CreateCheckout(r.Context(), email, payments.CheckoutInput{
			OrderID:    payload.OrderID,
			SuccessURL: successURL,
			CancelURL:  cancelURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"sessions": sessions})
	}
}
