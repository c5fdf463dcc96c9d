// Package catalog serves the fixed dropdown lists used by the client forms.
// The lists are code, not database rows; they change with releases only.
package catalog

// Entry is one value/label dropdown pair.
type Entry struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// PropertyTypes is alphabetized.
var PropertyTypes = []Entry{
	{Value: "apartment", Label: "Apartment"},
	{Value: "bungalow", Label: "Bungalow"},
	{Value: "commercial_building", Label: "Commercial Building"},
	{Value: "duplex", Label: "Duplex"},
	{Value: "hostel", Label: "Hostel"},
	{Value: "maisonette", Label: "Maisonette"},
	{Value: "mixed_use_building", Label: "Mixed Use Building"},
	{Value: "office", Label: "Office"},
	{Value: "shop", Label: "Shop"},
	{Value: "studio", Label: "Studio"},
	{Value: "townhouse", Label: "Townhouse"},
	{Value: "warehouse", Label: "Warehouse"},
}

// UserRoles is ordered by privilege, matching the registration flow.
var UserRoles = []Entry{
	{Value: "company_admin", Label: "Company Admin"},
	{Value: "agent", Label: "Agent"},
	{Value: "landlord", Label: "Landlord"},
	{Value: "tenant", Label: "Tenant"},
	{Value: "maintenance_provider", Label: "Maintenance Provider"},
	{Value: "security_guard", Label: "Security Guard"},
	{Value: "caretaker", Label: "Caretaker"},
}

var PaymentMethods = []Entry{
	{Value: "mpesa", Label: "M-PESA"},
	{Value: "bank_transfer", Label: "Bank Transfer"},
	{Value: "cash", Label: "Cash"},
	{Value: "check", Label: "Check"},
	{Value: "card", Label: "Card Payment"},
}

var MaintenanceCategories = []Entry{
	{Value: "air_conditioning", Label: "Air Conditioning"},
	{Value: "cctv", Label: "CCTV"},
	{Value: "cleaning", Label: "Cleaning"},
	{Value: "electrical", Label: "Electrical"},
	{Value: "elevator", Label: "Elevator"},
	{Value: "gardening", Label: "Gardening"},
	{Value: "generator", Label: "Generator"},
	{Value: "garbage_collection", Label: "Garbage Collection"},
	{Value: "internet_isp", Label: "Internet/ISP"},
	{Value: "painting", Label: "Painting"},
	{Value: "pest_control", Label: "Pest Control"},
	{Value: "plumbing", Label: "Plumbing"},
	{Value: "pool", Label: "Pool"},
	{Value: "roof", Label: "Roof"},
	{Value: "security_system", Label: "Security System"},
	{Value: "water_supply", Label: "Water Supply"},
	{Value: "window_glass", Label: "Window/Glass"},
}

var PriorityLevels = []Entry{
	{Value: "low", Label: "Low"},
	{Value: "medium", Label: "Medium"},
	{Value: "high", Label: "High"},
	{Value: "urgent", Label: "Urgent"},
}

var UnitStatuses = []Entry{
	{Value: "vacant", Label: "Vacant"},
	{Value: "occupied", Label: "Occupied"},
	{Value: "on_notice", Label: "On Notice"},
	{Value: "under_maintenance", Label: "Under Maintenance"},
}

var ParkingSlotTypes = []Entry{
	{Value: "unit", Label: "Unit Assigned"},
	{Value: "visitor", Label: "Visitor"},
	{Value: "general", Label: "General"},
	{Value: "reserved", Label: "Reserved"},
	{Value: "disabled", Label: "Disabled Access"},
}
