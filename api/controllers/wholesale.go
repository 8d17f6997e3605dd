package controllers

import (
	"net/http"

	"github.com/harvestlane/marketplace-backend/api/responses"
	"github.com/harvestlane/marketplace-backend/api/validators"
	"github.com/harvestlane/marketplace-backend/internal/catalog"
	pkgerrors "github.com/harvestlane/marketplace-backend/pkg/errors"
	"github.com/harvestlane/marketplace-backend/pkg/logger"
)

// AddWholesale creates a typed wholesale listing.
func AddWholesale(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload catalog.AddWholesaleInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		wholesale, err := svc.AddWholesale(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, wholesale)
	}
}
