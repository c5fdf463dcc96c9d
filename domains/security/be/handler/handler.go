package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rlst8/rlst8/domains/security/be/service"
	"github.com/rlst8/rlst8/platform/go/httpjson"
	platformlogging "github.com/rlst8/rlst8/platform/go/logging"
	"github.com/rlst8/rlst8/platform/go/tenant"
)

const (
	problemTypeValidation = "https://rlst8.app/problems/validation-error"
	problemTypeNotFound   = "https://rlst8.app/problems/not-found"
	problemTypeConflict   = "https://rlst8.app/problems/conflict"
	problemTypeInternal   = "https://rlst8.app/problems/internal-error"
)

// Handler exposes the security page endpoints: visitor logs and parking.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("security service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the security endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.Summary)
	r.Get("/visitors", h.Visitors)
	r.Post("/visitors", h.RegisterEntry)
	r.Post("/visitors/{logID}/exit", h.RecordExit)
	r.Get("/parking", h.ParkingSlots)
}

type entryRequest struct {
	VisitorName  string  `json:"visitor_name"`
	VisitorPhone *string `json:"visitor_phone"`
	VisitingUnit string  `json:"visiting_unit"`
	HostName     *string `json:"host_name"`
	Purpose      *string `json:"purpose"`
	VehiclePlate *string `json:"vehicle_plate"`
}

// Summary returns the security page counters.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		httpjson.WriteUnauthorized(w, "authentication required")
		return
	}

	overview, err := h.svc.Summary(r.Context(), scope)
	if err != nil {
		h.writeProblem(w, r, err, "security summary failed")
		return
	}

	httpjson.Write(w, http.StatusOK, overview)
}

// Visitors lists recent gate logs.
func (h *Handler) Visitors(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		httpjson.WriteUnauthorized(w, "authentication required")
		return
	}

	logs, err := h.svc.Visitors(r.Context(), scope)
	if err != nil {
		h.writeProblem(w, r, err, "list visitors failed")
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]interface{}{"items": logs})
}

// RegisterEntry logs a visitor at the gate.
func (h *Handler) RegisterEntry(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		httpjson.WriteUnauthorized(w, "authentication required")
		return
	}

	var req entryRequest
	if err := httpjson.Decode(r, &req); err != nil {
		detail := err.Error()
		httpjson.WriteProblem(w, httpjson.ProblemDetails{
			Title:  "Invalid request body",
			Status: http.StatusBadRequest,
			Detail: &detail,
		})
		return
	}

	log, err := h.svc.RegisterEntry(r.Context(), scope, service.EntryInput{
		VisitorName:  req.VisitorName,
		VisitorPhone: req.VisitorPhone,
		VisitingUnit: req.VisitingUnit,
		HostName:     req.HostName,
		Purpose:      req.Purpose,
		VehiclePlate: req.VehiclePlate,
	})
	if err != nil {
		h.writeProblem(w, r, err, "register entry failed")
		return
	}

	httpjson.Write(w, http.StatusCreated, log)
}

// RecordExit marks a visitor as exited.
func (h *Handler) RecordExit(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		httpjson.WriteUnauthorized(w, "authentication required")
		return
	}

	logID, err := uuid.Parse(chi.URLParam(r, "logID"))
	if err != nil {
		detail := "log id must be a UUID"
		httpjson.WriteProblem(w, httpjson.ProblemDetails{
			Title:  "Invalid log id",
			Status: http.StatusBadRequest,
			Detail: &detail,
		})
		return
	}

	log, svcErr := h.svc.RecordExit(r.Context(), scope, logID)
	if svcErr != nil {
		h.writeProblem(w, r, svcErr, "record exit failed")
		return
	}

	httpjson.Write(w, http.StatusOK, log)
}

// ParkingSlots lists the tenant's parking slots.
func (h *Handler) ParkingSlots(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		httpjson.WriteUnauthorized(w, "authentication required")
		return
	}

	slots, err := h.svc.ParkingSlots(r.Context(), scope)
	if err != nil {
		h.writeProblem(w, r, err, "list parking slots failed")
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]interface{}{"items": slots})
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
	case errors.Is(err, service.ErrLogNotFound):
		problemType := problemTypeNotFound
		detail := "visitor log not found"
		httpjson.WriteProblem(w, httpjson.ProblemDetails{
			Type:   &problemType,
			Title:  "Resource not found",
			Status: http.StatusNotFound,
			Detail: &detail,
		})
	case errors.Is(err, service.ErrAlreadyExited):
		problemType := problemTypeConflict
		detail := "visitor has already exited"
		httpjson.WriteProblem(w, httpjson.ProblemDetails{
			Type:   &problemType,
			Title:  "Conflict",
			Status: http.StatusConflict,
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
