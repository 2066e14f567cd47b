package model

import "time"

// Maintenance request status values.
const (
	RequestPending    = "pending"
	RequestInProgress = "in_progress"
	RequestResolved   = "resolved"
	RequestRejected   = "rejected"
)

// ValidRequestStatus reports whether s is a known maintenance status.
func ValidRequestStatus(s string) bool {
	switch s {
	case RequestPending, RequestInProgress, RequestResolved, RequestRejected:
		return true
	}
	return false
}

// Maintenance priority values.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidPriority reports whether s is a known priority level.
func ValidPriority(s string) bool {
	return s == PriorityLow || s == PriorityMedium || s == PriorityHigh
}

// MaintenanceRequest is a tenant-raised issue against a room. ResolvedAt is
// stamped by the server the moment an update moves status to resolved and is
// left untouched by any other edit.
type MaintenanceRequest struct {
	ID          uint64     `json:"request_id"`  // maintenance_requests.id
	RoomID      uint64     `json:"room_id"`     // maintenance_requests.room_id
	TenantID    uint64     `json:"tenant_id"`   // maintenance_requests.tenant_id
	Description string     `json:"description"` // maintenance_requests.description
	Priority    string     `json:"priority"`    // maintenance_requests.priority
	Status      string     `json:"status"`      // maintenance_requests.status
	CreatedAt   time.Time  `json:"created_at"`  // maintenance_requests.created_at
	ResolvedAt  *time.Time `json:"resolved_at"` // maintenance_requests.resolved_at (nullable)
}

// Review is a user's rating and comment on a room. Rating is constrained to
// 1..5 at the handler boundary.
type Review struct {
	ID        uint64    `json:"review_id"`  // reviews.id
	UserID    uint64    `json:"user_id"`    // reviews.user_id
	RoomID    uint64    `json:"room_id"`    // reviews.room_id
	Rating    int       `json:"rating"`     // reviews.rating
	Comment   string    `json:"comment"`    // reviews.comment
	CreatedAt time.Time `json:"created_at"` // reviews.created_at
}

// Favorite marks a room saved by a user. The (UserID, RoomID) pair is unique
// in the database, enforced both by a constraint and by the repository.
type Favorite struct {
	ID     uint64 `json:"favorite_id"` // favorites.id
	UserID uint64 `json:"user_id"`     // favorites.user_id
	RoomID uint64 `json:"room_id"`     // favorites.room_id
}
