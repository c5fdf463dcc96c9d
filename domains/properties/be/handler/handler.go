package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rlst8/rlst8/domains/properties/be/service"
	"github.com/rlst8/rlst8/platform/go/httpjson"
	platformlogging "github.com/rlst8/rlst8/platform/go/logging"
	"github.com/rlst8/rlst8/platform/go/tenant"
)

const (
	problemTypeValidation = "https://rlst8.app/problems/validation-error"
	problemTypeNotFound   = "https://rlst8.app/problems/not-found"
	problemTypeInternal   = "https://rlst8.app/problems/internal-error"
)

// Handler exposes the properties endpoints.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("properties service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the properties endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{propertyID}", h.Get)
}

type createRequest struct {
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	PropertyType  string   `json:"property_type"`
	TotalUnits    int      `json:"total_units"`
	OccupiedUnits int      `json:"occupied_units"`
	MonthlyRent   *float64 `json:"monthly_rent"`
}

// List returns the tenant's active properties.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		httpjson.WriteUnauthorized(w, "authentication required")
		return
	}

	properties, err := h.svc.List(r.Context(), scope)
	if err != nil {
		h.writeProblem(w, r, err, "list properties failed")
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]interface{}{"items": properties})
}

// Create inserts a new property.
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

	property, err := h.svc.Create(r.Context(), scope, service.CreateInput{
		Name:          req.Name,
		Address:       req.Address,
		PropertyType:  req.PropertyType,
		TotalUnits:    req.TotalUnits,
		OccupiedUnits: req.OccupiedUnits,
		MonthlyRent:   req.MonthlyRent,
	})
	if err != nil {
		h.writeProblem(w, r, err, "create property failed")
		return
	}

	httpjson.Write(w, http.StatusCreated, property)
}

// Get returns one property in the tenant's scope.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		httpjson.WriteUnauthorized(w, "authentication required")
		return
	}

	propertyID, err := uuid.Parse(chi.URLParam(r, "propertyID"))
	if err != nil {
		detail := "property id must be a UUID"
		httpjson.WriteProblem(w, httpjson.ProblemDetails{
			Title:  "Invalid property id",
			Status: http.StatusBadRequest,
			Detail: &detail,
		})
		return
	}

	property, svcErr := h.svc.Get(r.Context(), scope, propertyID)
	if svcErr != nil {
		h.writeProblem(w, r, svcErr, "get property failed")
		return
	}

	httpjson.Write(w, http.StatusOK, property)
}

func (h *Handler) writeProblem(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
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
	case errors.Is(err, service.ErrNotFound):
		problemType := problemTypeNotFound
		detail := "property not found"
		httpjson.WriteProblem(w, httpjson.ProblemDetails{
			Type:   &problemType,
			Title:  "Resource not found",
			Status: http.StatusNotFound,
			Detail: &detail,
		})
	default:
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
}
