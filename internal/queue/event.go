package queue

// LeaseActivatedEvent is published when a lease has been created and its
// room marked occupied. It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type LeaseActivatedEvent struct {
	LeaseID     uint64  `json:"lease_id"`
	TenantID    uint64  `json:"tenant_id"`
	TenantEmail string  `json:"tenant_email"`
	RoomID      uint64  `json:"room_id"`
	RoomNumber  string  `json:"room_number"`
	MonthlyRent float64 `json:"monthly_rent"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	ActivatedAt string  `json:"activated_at"`
}
