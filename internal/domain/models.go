package domain

import "time"

type Product struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Barcode           string    `json:"barcode,omitempty"`
	Description       string    `json:"description,omitempty"`
	Unit              string    `json:"unit,omitempty"`
	CategoryID        string    `json:"category_id,omitempty"`
	SupplierID        string    `json:"supplier_id,omitempty"`
	BuyingPriceCents  int64     `json:"buying_price_cents"`
	SellingPriceCents int64     `json:"selling_price_cents"`
	Stock             int       `json:"stock"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type ProductCreateRequest struct {
	Name              string `json:"name"`
	Barcode           string `json:"barcode,omitempty"`
	Description       string `json:"description,omitempty"`
	Unit              string `json:"unit,omitempty"`
	CategoryID        string `json:"category_id,omitempty"`
	SupplierID        string `json:"supplier_id,omitempty"`
	BuyingPriceCents  int64  `json:"buying_price_cents"`
	SellingPriceCents int64  `json:"selling_price_cents"`
	Stock             int    `json:"stock"`
}

type ProductUpdateRequest struct {
	Name              *string `json:"name,omitempty"`
	Barcode           *string `json:"barcode,omitempty"`
	Description       *string `json:"description,omitempty"`
	Unit              *string `json:"unit,omitempty"`
	CategoryID        *string `json:"category_id,omitempty"`
	SupplierID        *string `json:"supplier_id,omitempty"`
	BuyingPriceCents  *int64  `json:"buying_price_cents,omitempty"`
	SellingPriceCents *int64  `json:"selling_price_cents,omitempty"`
	Stock             *int    `json:"stock,omitempty"`
}

type ProductFilter struct {
	CategoryID string
	SupplierID string
	Query      string
	LowStockAt int
}

type ProductBulkRequest struct {
	Action     string   `json:"action"`
	ProductIDs []string `json:"product_ids"`
	Stock      *int     `json:"stock,omitempty"`
	PriceCents *int64   `json:"price_cents,omitempty"`
}

type ProductBulkResponse struct {
	Action   string `json:"action"`
	Affected int    `json:"affected"`
}

type ProductImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ProductHistory is an append-only trail of catalog mutations.
type ProductHistory struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Company   string    `json:"company,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SupplierCreateRequest struct {
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

type SupplierUpdateRequest struct {
	Name    *string `json:"name,omitempty"`
	Company *string `json:"company,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

type SupplierOrder struct {
	ID           string     `json:"id"`
	SupplierID   string     `json:"supplier_id"`
	ProductID    string     `json:"product_id"`
	Qty          int        `json:"qty"`
	CostCents    int64      `json:"cost_cents"`
	Status       string     `json:"status"`
	OrderDate    time.Time  `json:"order_date"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
}

type SupplierOrderCreateRequest struct {
	SupplierID string `json:"supplier_id"`
	ProductID  string `json:"product_id"`
	Qty        int    `json:"qty"`
	CostCents  int64  `json:"cost_cents"`
}

// Sale is immutable once recorded. Price and profit are snapshots taken at
// the moment of sale so later catalog edits never rewrite history.
type Sale struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	ProductName     string    `json:"product_name"`
	Qty             int       `json:"qty"`
	PaymentMethod   string    `json:"payment_method"`
	UnitPriceCents  int64     `json:"unit_price_cents"`
	TotalCents      int64     `json:"total_cents"`
	ProfitCents     int64     `json:"profit_cents"`
	CustomerName    string    `json:"customer_name,omitempty"`
	CustomerContact string    `json:"customer_contact,omitempty"`
	SoldBy          string    `json:"sold_by"`
	CreatedAt       time.Time `json:"created_at"`
}

type SaleRequest struct {
	ProductID       string `json:"product_id"`
	Qty             int    `json:"qty"`
	PaymentMethod   string `json:"payment_method"`
	CustomerName    string `json:"customer_name,omitempty"`
	CustomerContact string `json:"customer_contact,omitempty"`
}

type SaleFilter struct {
	From          time.Time
	To            time.Time
	PaymentMethod string
	ProductID     string
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UserRoleRequest struct {
	Role string `json:"role"`
}

type UserPasswordRequest struct {
	Password string `json:"password"`
}

type UserView struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

type Actor struct {
	Username string
	Role     string
}

type AuditLog struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type BestSeller struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	QtySold     int    `json:"qty_sold"`
	TotalCents  int64  `json:"total_cents"`
}

type MonthlyRevenue struct {
	Month        string `json:"month"`
	RevenueCents int64  `json:"revenue_cents"`
	ProfitCents  int64  `json:"profit_cents"`
	Sales        int    `json:"sales"`
}

type PaymentMethodStat struct {
	Method       string `json:"method"`
	Sales        int    `json:"sales"`
	RevenueCents int64  `json:"revenue_cents"`
}

type SupplierOutstanding struct {
	SupplierID   string `json:"supplier_id"`
	SupplierName string `json:"supplier_name"`
	AmountCents  int64  `json:"amount_cents"`
}

type SupplierPerformance struct {
	SupplierID    string `json:"supplier_id"`
	SupplierName  string `json:"supplier_name"`
	TotalOrders   int    `json:"total_orders"`
	TotalSupplied int    `json:"total_supplied"`
	Delivered     int    `json:"delivered"`
	OnTime        int    `json:"on_time"`
	OnTimePercent int    `json:"on_time_percent"`
}

type MonthlyCashFlow struct {
	Month         string `json:"month"`
	RevenueCents  int64  `json:"revenue_cents"`
	ExpensesCents int64  `json:"expenses_cents"`
	NetCents      int64  `json:"net_cents"`
}

type DashboardReport struct {
	GeneratedAt         string                `json:"generated_at"`
	TotalSales          int                   `json:"total_sales"`
	TotalProducts       int                   `json:"total_products"`
	TotalUsers          int                   `json:"total_users"`
	TotalRevenueCents   int64                 `json:"total_revenue_cents"`
	TotalProfitCents    int64                 `json:"total_profit_cents"`
	TotalExpensesCents  int64                 `json:"total_expenses_cents"`
	InventoryValueCents int64                 `json:"inventory_value_cents"`
	BestSellers         []BestSeller          `json:"best_sellers"`
	MonthlyTrend        []MonthlyRevenue      `json:"monthly_trend"`
	PaymentBreakdown    []PaymentMethodStat   `json:"payment_breakdown"`
	Outstanding         []SupplierOutstanding `json:"outstanding_payments"`
	SupplierPerformance []SupplierPerformance `json:"supplier_performance"`
	CashFlow            []MonthlyCashFlow     `json:"cash_flow"`
	LowStock            []Product             `json:"low_stock"`
}

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

const (
	HistoryCreated       = "created"
	HistoryPriceChanged  = "price_changed"
	HistoryStockAdjusted = "stock_adjusted"
	HistorySold          = "sold"
	HistoryDeleted       = "deleted"
)

const (
	BulkActionDelete   = "delete"
	BulkActionSetStock = "set_stock"
	BulkActionSetPrice = "set_price"
)

// ValidRole reports whether role is one of the closed set of account roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}
