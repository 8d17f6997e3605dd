package controllers

import (
	"net/http"
	"strconv"

	"github.com/harvestlane/marketplace-backend/api/responses"
	"github.com/harvestlane/marketplace-backend/internal/notifications"
	pkgerrors "github.com/harvestlane/marketplace-backend/pkg/errors"
	"github.com/harvestlane/marketplace-backend/pkg/logger"
)

// ListNotifications returns the caller's recent notifications.
func ListNotifications(svc *notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, _ = strconv.Atoi(raw)
		}

		rows, err := svc.ListForRecipient(r.Context(), userID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
