package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rlst8/rlst8/domains/registration/be/service"
	"github.com/rlst8/rlst8/platform/go/httpjson"
	platformlogging "github.com/rlst8/rlst8/platform/go/logging"
	"github.com/rlst8/rlst8/platform/go/persistence"
)

// Handler exposes the public registration and sign-in endpoints.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("registration service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the auth endpoints. These sit outside the authenticated
// router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/signin", h.SignIn)
}

type registerRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FullName    string  `json:"full_name"`
	Phone       *string `json:"phone"`
	CompanyName string  `json:"company_name"`
}

type tenantResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type accountResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	TenantID string `json:"tenant_id"`
}

type registerResponse struct {
	User   accountResponse `json:"user"`
	Tenant tenantResponse  `json:"tenant"`
}

// Register onboards a company and its admin account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Register(r.Context(), service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		h.writeRegisterError(w, r, err)
		return
	}

	httpjson.Write(w, http.StatusOK, registerResponse{
		User:   toAccountResponse(result.Admin),
		Tenant: tenantResponse{ID: result.Organization.ID.String(), Name: result.Organization.Name},
	})
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Success bool            `json:"success"`
	User    accountResponse `json:"user"`
}

// SignIn verifies credentials and returns the attached account.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpjson.WriteError(w, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, service.ErrNoAccount):
			httpjson.WriteError(w, http.StatusNotFound, "no account found for this user")
		default:
			platformlogging.FromRequest(r, h.logger).Error("sign in failed", zap.Error(err))
			httpjson.WriteError(w, http.StatusInternalServerError, "an unexpected error occurred")
		}
		return
	}

	httpjson.Write(w, http.StatusOK, signInResponse{
		Success: true,
		User:    toAccountResponse(result.User),
	})
}

func (h *Handler) writeRegisterError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		httpjson.WriteError(w, http.StatusBadRequest, validationMessage(validationErr))
	case errors.Is(err, service.ErrEmailTaken):
		httpjson.WriteError(w, http.StatusBadRequest, "email already registered")
	default:
		platformlogging.FromRequest(r, h.logger).Error("registration failed", zap.Error(err))
		httpjson.WriteError(w, http.StatusInternalServerError, "registration could not be completed")
	}
}

func validationMessage(err *service.ValidationError) string {
	messages := make([]string, 0, len(err.Fields))
	for _, fieldMessages := range err.Fields {
		messages = append(messages, fieldMessages...)
	}
	if len(messages) == 0 {
		return "invalid request"
	}
	return strings.Join(messages, "; ")
}

func toAccountResponse(user persistence.User) accountResponse {
	return accountResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		Role:     user.Role,
		FullName: user.FullName,
		TenantID: user.TenantID.String(),
	}
}
