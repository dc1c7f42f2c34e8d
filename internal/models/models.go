package models

import "time"

// Order statuses as stored in the orders table. Recibida and Confirmada are
// the terminal states that count toward delivery scoring.
const (
	OrderStatusPending   = "Pendiente"
	OrderStatusConfirmed = "Confirmada"
	OrderStatusReceived  = "Recibida"
	OrderStatusCancelled = "Cancelada"
)

// Claim statuses.
const (
	ClaimStatusPending    = "PENDIENTE"
	ClaimStatusInProgress = "EN_PROCESO"
	ClaimStatusResolved   = "RESUELTO"
)

const EquipmentStatusOperational = "OPERATIVO"

type Supplier struct {
	TaxID      int64      `json:"cuit"`
	LegalName  string     `json:"legal_name"`
	Phone      *string    `json:"phone"`
	Email      *string    `json:"email"`
	Categories string     `json:"categories"`
	Address    string     `json:"address"`
	Locality   *string    `json:"locality"`
	Province   *string    `json:"province"`
	Country    *string    `json:"country"`
	AvgRating  float64    `json:"avg_rating"`
	CreatedOn  time.Time  `json:"created_on"`
	RetiredOn  *time.Time `json:"retired_on,omitempty"`
}

type SupplierOption struct {
	TaxID     int64  `json:"cuit"`
	LegalName string `json:"legal_name"`
}

type Address struct {
	ID       int64  `json:"id"`
	TaxID    int64  `json:"cuit"`
	Kind     string `json:"kind"`
	Street   string `json:"street"`
	Number   *int   `json:"number"`
	Locality string `json:"locality"`
	Province string `json:"province"`
	Country  string `json:"country"`
}

type Order struct {
	ID           int64       `json:"id"`
	TaxID        int64       `json:"cuit"`
	SupplierName string      `json:"supplier_name"`
	EmployeeID   int64       `json:"employee_id"`
	OrderedOn    time.Time   `json:"ordered_on"`
	ReceivedOn   *time.Time  `json:"received_on"`
	Status       string      `json:"status"`
	Items        []OrderItem `json:"items"`
	Total        float64     `json:"total"`
}

type OrderItem struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"order_id"`
	EquipmentID *int64  `json:"equipment_id"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

type Equipment struct {
	ID            int64      `json:"id"`
	Serial        string     `json:"serial"`
	Model         *string    `json:"model"`
	Brand         *string    `json:"brand"`
	Status        string     `json:"status"`
	WarrantyUntil *time.Time `json:"warranty_until"`
}

type Technician struct {
	ID           int64   `json:"id"`
	TaxID        int64   `json:"cuit"`
	Name         string  `json:"name"`
	Phone        *string `json:"phone"`
	SupplierName *string `json:"supplier_name"`
}

type Claim struct {
	ID              int64     `json:"id"`
	EmployeeID      int64     `json:"employee_id"`
	EquipmentID     *int64    `json:"equipment_id"`
	OrderID         *int64    `json:"order_id"`
	ReportedOn      time.Time `json:"reported_on"`
	Description     *string   `json:"description"`
	Priority        string    `json:"priority"`
	Status          string    `json:"status"`
	ItemDescription *string   `json:"item_description"`
}

type Intervention struct {
	ID             int64     `json:"id"`
	ClaimID        *int64    `json:"claim_id"`
	EquipmentID    int64     `json:"equipment_id"`
	TechnicianID   int64     `json:"technician_id"`
	PerformedOn    time.Time `json:"performed_on"`
	Status         string    `json:"status"`
	Problem        *string   `json:"problem"`
	WorkDone       *string   `json:"work_done"`
	TechnicianName *string   `json:"technician_name"`
}

type Contract struct {
	ID           int64     `json:"id"`
	TaxID        int64     `json:"cuit"`
	SupplierName string    `json:"supplier_name"`
	StartsOn     time.Time `json:"starts_on"`
	ExpiresOn    time.Time `json:"expires_on"`
	Description  *string   `json:"description"`
	FilePath     *string   `json:"file_path"`
	ResponseTime *string   `json:"response_time"`
	Availability *float64  `json:"availability"`
}

// Rating is the persisted supplier rating row. One row per supplier,
// maintained by upsert; ID survives recalculation.
type Rating struct {
	ID                int64    `json:"id"`
	TaxID             int64    `json:"cuit"`
	SupplierName      string   `json:"supplier_name,omitempty"`
	DeliveryScore     *int     `json:"delivery_score"`
	QualityScore      *int     `json:"quality_score"`
	ResponseScore     *int     `json:"response_score"`
	AvailabilityScore *int     `json:"availability_score"`
	FinalScore        *float64 `json:"final_score"`
	Notes             *string  `json:"notes"`
}

// DeliveryStats aggregates received orders for one supplier.
// AvgDays is nil when no order qualifies.
type DeliveryStats struct {
	AvgDays *float64
	MinDays int
	MaxDays int
	Orders  int
}

// ResponseStats aggregates claim response times for one supplier.
type ResponseStats struct {
	AvgDays *float64
	Claims  int
}

type SupplierSpending struct {
	TaxID     int64   `json:"cuit"`
	LegalName string  `json:"legal_name"`
	Orders    int     `json:"orders"`
	Total     float64 `json:"total"`
}
