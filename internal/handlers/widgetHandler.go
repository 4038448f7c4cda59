package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chatlet/chatlet/internal/api"
)

// WidgetConfigHandler serves the public widget bootstrap config. No
// credential needed; the tenant id is the widget's embed key, so the only
// guards are the id format check and the IP rate limit in front of the route.
func WidgetConfigHandler(w http.ResponseWriter, r *http.Request) {
	tenantId := chi.URLParam(r, "tenantId")
	if _, err := uuid.Parse(tenantId); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "invalid tenant id")
		return
	}

	tenant, found, err := tenants.ById(r.Context(), tenantId)
	if err != nil {
		logRH.Error("tenant lookup failed", "tenantId", tenantId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "internal server error")
		return
	}
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, "", "tenant not found")
		return
	}

	trackWidgetLoad(tenant.Id)

	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJsonResponse(w, http.StatusOK, api.WidgetConfigResponse{
		TenantId: tenant.Id,
		Name:     tenant.Name,
		Settings: tenant.Settings,
	})
}

// trackWidgetLoad records a widget impression off the request path. A failed
// increment never touches the response.
func trackWidgetLoad(tenantId string) {
	day := time.Now().UTC().Format("2006-01-02")
	runner.Submit("widget-load", func(ctx context.Context) {
		if err := usage.Increment(ctx, tenantId, "widget", day); err != nil {
			logRH.Error("widget load tracking failed", "tenantId", tenantId, "error", err)
		}
	})
}
