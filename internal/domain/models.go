package domain

import "time"

// Enumerations
const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleStaff   UserRole = "staff"

	SaleDirect  SaleType = "direct"
	SaleInvoice SaleType = "invoice"

	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentOther    PaymentMethod = "other"

	LedgerRevenue LedgerEntryType = "revenue"
	LedgerExpense LedgerEntryType = "expense"

	EventAppointment EventType = "appointment"
	EventReminder    EventType = "reminder"
	EventMeeting     EventType = "meeting"

	LogInfo    ActivityLogType = "info"
	LogWarning ActivityLogType = "warning"
	LogError   ActivityLogType = "error"
)

type UserRole string
type SaleType string
type PaymentMethod string
type LedgerEntryType string
type EventType string
type ActivityLogType string

// Money is an amount in minor units.
type Money struct {
	Amount   int64
	Currency string
}

// User is both an account and a roster member for performance reporting.
// BaseSalary and BaseHours feed the hourly rate derivation.
type User struct {
	ID           int64
	CompanyID    *int64
	Name         string
	Email        string
	Phone        string
	Role         UserRole
	BaseSalary   Money
	BaseHours    int
	IsGoogle     bool
	PasswordHash *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

type Category struct {
	ID        int64
	CompanyID *int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type Product struct {
	ID            int64
	CompanyID     *int64
	Name          string
	Category      string
	CategoryID    int64
	Barcode       string
	SalePrice     Money
	PurchasePrice Money
	TrackStock    bool
	Stock         int
	MinStock      int
	ExpiryDate    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

type Customer struct {
	ID        int64
	CompanyID *int64
	Name      string
	Phone     string
	Email     string
	Address   string
	TaxID     string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type Supplier struct {
	ID        int64
	CompanyID *int64
	Name      string
	Contact   string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Sale is immutable once recorded; there is no update path.
type Sale struct {
	ID             int64
	CompanyID      *int64
	Code           string
	Date           time.Time
	Type           SaleType
	Total          Money
	PaymentMethod  PaymentMethod
	PaymentDetails string
	CustomerID     *int64
	CustomerName   string
	PerformedBy    string
	PerformedByID  *int64
	Items          []SaleItem
	CreatedAt      time.Time
	DeletedAt      *time.Time
}

type SaleItem struct {
	ID          int64
	SaleID      int64
	ProductID   *int64
	ProductName string
	UnitPrice   Money
	Qty         int
	Total       Money
	CreatedAt   time.Time
}

// WorkShift is open while EndTime is nil; duration runs against "now".
type WorkShift struct {
	ID        int64
	CompanyID *int64
	UserID    int64
	UserName  string
	StartTime time.Time
	EndTime   *time.Time
	CreatedAt time.Time
	DeletedAt *time.Time
}

type LedgerEntry struct {
	ID        int64
	CompanyID *int64
	Title     string
	Amount    Money
	Category  string
	Date      time.Time
	Type      LedgerEntryType
	Note      string
	SaleCode  *string
	Staff     *string
	CreatedAt time.Time
	DeletedAt *time.Time
}

type CalendarEvent struct {
	ID        int64
	CompanyID *int64
	Title     string
	Date      time.Time
	Time      string
	Type      EventType
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type ProcurementOrder struct {
	ID           int64
	CompanyID    *int64
	Code         string
	Date         time.Time
	SupplierID   *int64
	SupplierName string
	Total        Money
	PerformedBy  string
	Items        []SaleItem
	CreatedAt    time.Time
	DeletedAt    *time.Time
}

// RegisterClosing snapshots a register count against the system total for a day.
type RegisterClosing struct {
	ID           int64
	CompanyID    *int64
	Date         time.Time
	OperatorName string
	ShiftID      *int64
	SystemTotal  Money
	CountedTotal Money
	Difference   Money
	Note         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

type ActivityLog struct {
	ID        int64
	CompanyID *int64
	Title     string
	Message   string
	Actor     string
	Type      ActivityLogType
	LoggedAt  time.Time
	DeletedAt *time.Time
}

type Settings struct {
	CompanyID            *int64
	BusinessName         string
	BusinessAddress      string
	BusinessPhone        string
	ReceiptFooter        string
	DefaultPaymentMethod string
	TrackStock           bool
	CurrencyCode         string
	UpdatedAt            time.Time
}

type PasswordReset struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
