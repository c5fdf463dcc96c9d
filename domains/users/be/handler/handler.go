package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rlst8/rlst8/domains/users/be/service"
	platformauth "github.com/rlst8/rlst8/platform/go/auth"
	"github.com/rlst8/rlst8/platform/go/httpjson"
	platformlogging "github.com/rlst8/rlst8/platform/go/logging"
)

// Handler exposes the session endpoints.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("users service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the users endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/me", h.Me)
}

type userResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	TenantID string  `json:"tenant_id"`
	Role     string  `json:"role"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone,omitempty"`
}

// Me returns the resolved account for the authenticated principal.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	creds, ok := platformauth.UserFromContext(r.Context())
	if !ok || creds == nil {
		httpjson.WriteUnauthorized(w, "authentication required")
		return
	}

	current, err := h.svc.Resolve(r.Context(), creds.UID)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			httpjson.WriteUnauthorized(w, "account not provisioned")
			return
		}
		platformlogging.FromRequest(r, h.logger).Error("resolve current user failed", zap.Error(err))
		httpjson.WriteInternal(w)
		return
	}

	httpjson.Write(w, http.StatusOK, toUserResponse(current))
}

func toUserResponse(user service.CurrentUser) userResponse {
	return userResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		TenantID: user.TenantID.String(),
		Role:     user.Role,
		FullName: user.FullName,
		Phone:    user.Phone,
	}
}
