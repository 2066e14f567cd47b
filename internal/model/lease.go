package model

import "time"

// Lease status values.
const (
	LeaseActive     = "active"
	LeaseExpired    = "expired"
	LeaseTerminated = "terminated"
)

// ValidLeaseStatus reports whether s is a known lease status.
func ValidLeaseStatus(s string) bool {
	return s == LeaseActive || s == LeaseExpired || s == LeaseTerminated
}

// Payment status values. Payments default to completed when recorded without
// an explicit status.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	return s == PaymentPending || s == PaymentCompleted || s == PaymentFailed
}

// Lease binds a tenant to a room for a date range. Creating a lease marks
// the room occupied and deleting it frees the room again; both happen inside
// one database transaction so the room status always reflects at most one
// active lease.
//
// Fields:
//
//	ID          – primary key identifier.
//	RoomID      – leased room.
//	TenantID    – user renting the room.
//	StartDate   – first day of the lease.
//	EndDate     – day the lease ends (exclusive).
//	MonthlyRent – agreed monthly rent.
//	Deposit     – security deposit (nullable).
//	Status      – active | expired | terminated.
//	CreatedAt   – creation timestamp.
type Lease struct {
	ID          uint64    `json:"lease_id"`     // leases.id
	RoomID      uint64    `json:"room_id"`      // leases.room_id
	TenantID    uint64    `json:"tenant_id"`    // leases.tenant_id
	StartDate   time.Time `json:"start_date"`   // leases.start_date
	EndDate     time.Time `json:"end_date"`     // leases.end_date
	MonthlyRent float64   `json:"monthly_rent"` // leases.monthly_rent
	Deposit     *float64  `json:"deposit"`      // leases.deposit (nullable)
	Status      string    `json:"status"`       // leases.status
	CreatedAt   time.Time `json:"created_at"`   // leases.created_at
}

// Payment is an append-only ledger entry against a lease. Corresponds to the
// `payments` table.
type Payment struct {
	ID            uint64    `json:"payment_id"`     // payments.id
	LeaseID       uint64    `json:"lease_id"`       // payments.lease_id
	PaymentDate   time.Time `json:"payment_date"`   // payments.payment_date
	Amount        float64   `json:"amount"`         // payments.amount
	PaymentMethod string    `json:"payment_method"` // payments.payment_method
	Status        string    `json:"status"`         // payments.status
}
