package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rlst8/rlst8/domains/search/be/service"
	"github.com/rlst8/rlst8/platform/go/httpjson"
	platformlogging "github.com/rlst8/rlst8/platform/go/logging"
	"github.com/rlst8/rlst8/platform/go/tenant"
)

// Handler exposes the global search endpoint.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("search service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the search endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Search)
}

// Search runs the four-category search for the q parameter.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		httpjson.WriteUnauthorized(w, "authentication required")
		return
	}

	results, err := h.svc.Search(r.Context(), scope, r.URL.Query().Get("q"))
	if err != nil {
		platformlogging.FromRequest(r, h.logger).Error("search failed", zap.Error(err))
		httpjson.WriteInternal(w)
		return
	}

	httpjson.Write(w, http.StatusOK, results)
}
