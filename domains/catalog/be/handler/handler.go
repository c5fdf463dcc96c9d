package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	catalog "github.com/rlst8/rlst8/domains/catalog/be"
	"github.com/rlst8/rlst8/platform/go/httpjson"
)

// Handler serves the static dropdown catalogs.
type Handler struct{}

// New constructs a Handler instance.
func New() *Handler {
	return &Handler{}
}

// Routes mounts the catalog endpoint.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Catalogs)
}

type catalogsResponse struct {
	PropertyTypes         []catalog.Entry `json:"property_types"`
	UserRoles             []catalog.Entry `json:"user_roles"`
	PaymentMethods        []catalog.Entry `json:"payment_methods"`
	MaintenanceCategories []catalog.Entry `json:"maintenance_categories"`
	PriorityLevels        []catalog.Entry `json:"priority_levels"`
	UnitStatuses          []catalog.Entry `json:"unit_statuses"`
	ParkingSlotTypes      []catalog.Entry `json:"parking_slot_types"`
}

// Catalogs returns all dropdown lists in one payload.
func (h *Handler) Catalogs(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, catalogsResponse{
		PropertyTypes:         catalog.PropertyTypes,
		UserRoles:             catalog.UserRoles,
		PaymentMethods:        catalog.PaymentMethods,
		MaintenanceCategories: catalog.MaintenanceCategories,
		PriorityLevels:        catalog.PriorityLevels,
		UnitStatuses:          catalog.UnitStatuses,
		ParkingSlotTypes:      catalog.ParkingSlotTypes,
	})
}
