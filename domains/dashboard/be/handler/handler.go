package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rlst8/rlst8/domains/dashboard/be/service"
	"github.com/rlst8/rlst8/platform/go/httpjson"
	platformlogging "github.com/rlst8/rlst8/platform/go/logging"
	"github.com/rlst8/rlst8/platform/go/tenant"
)

// Handler exposes the dashboard summary endpoint.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("dashboard service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the dashboard endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.Summary)
}

// Summary returns the tenant's dashboard counters.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		httpjson.WriteUnauthorized(w, "authentication required")
		return
	}

	summary, err := h.svc.Summary(r.Context(), scope)
	if err != nil {
		platformlogging.FromRequest(r, h.logger).Error("dashboard summary failed", zap.Error(err))
		httpjson.WriteInternal(w)
		return
	}

	httpjson.Write(w, http.StatusOK, summary)
}
