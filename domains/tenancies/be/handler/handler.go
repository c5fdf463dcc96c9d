package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rlst8/rlst8/domains/tenancies/be/service"
	"github.com/rlst8/rlst8/platform/go/httpjson"
	platformlogging "github.com/rlst8/rlst8/platform/go/logging"
	"github.com/rlst8/rlst8/platform/go/tenant"
)

// Handler exposes the tenancies endpoints.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("tenancies service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the tenancies endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
}

// List returns the tenant's leases with property context.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		httpjson.WriteUnauthorized(w, "authentication required")
		return
	}

	tenancies, err := h.svc.List(r.Context(), scope)
	if err != nil {
		platformlogging.FromRequest(r, h.logger).Error("list tenancies failed", zap.Error(err))
		httpjson.WriteInternal(w)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]interface{}{"items": tenancies})
}
