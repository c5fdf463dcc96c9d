package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rlst8/rlst8/domains/maintenance/be/service"
	"github.com/rlst8/rlst8/platform/go/httpjson"
	platformlogging "github.com/rlst8/rlst8/platform/go/logging"
	"github.com/rlst8/rlst8/platform/go/tenant"
)

const (
	problemTypeValidation = "https://rlst8.app/problems/validation-error"
	problemTypeInternal   = "https://rlst8.app/problems/internal-error"
)

// Handler exposes the maintenance endpoints.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("maintenance service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the maintenance endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
}

type createRequest struct {
	PropertyID  string  `json:"property_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    string  `json:"priority"`
}

// List returns the tenant's maintenance requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		httpjson.WriteUnauthorized(w, "authentication required")
		return
	}

	requests, err := h.svc.List(r.Context(), scope)
	if err != nil {
		h.writeProblem(w, r, err, "list maintenance requests failed")
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]interface{}{"items": requests})
}

// Create files a new request for the tenant.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		httpjson.WriteUnauthorized(w, "authentication required")
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		detail := err.Error()
		httpjson.WriteProblem(w, httpjson.ProblemDetails{
			Title:  "Invalid request body",
			Status: http.StatusBadRequest,
			Detail: &detail,
		})
		return
	}

	propertyID, _ := uuid.Parse(req.PropertyID)

	request, err := h.svc.Create(r.Context(), scope, service.CreateInput{
		PropertyID:  propertyID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		h.writeProblem(w, r, err, "create maintenance request failed")
		return
	}

	httpjson.Write(w, http.StatusCreated, request)
}

func (h *Handler) writeProblem(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		problemType := problemTypeValidation
		detail := "one or more fields are invalid"
		fields := map[string][]string(validationErr.Fields)
		httpjson.WriteProblem(w, httpjson.ProblemDetails{
			Type:   &problemType,
			Title:  "Validation failed",
			Status: http.StatusBadRequest,
			Detail: &detail,
			Errors: &fields,
		})
		return
	}

	platformlogging.FromRequest(r, h.logger).Error(logMsg, zap.Error(err))
	problemType := problemTypeInternal
	detail := "an unexpected error occurred"
	httpjson.WriteProblem(w, httpjson.ProblemDetails{
		Type:   &problemType,
		Title:  "Internal server error",
		Status: http.StatusInternalServerError,
		Detail: &detail,
	})
}
