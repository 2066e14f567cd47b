package model

import "time"

// Role values stored in users.role. Roles are plain strings in the database;
// the policy package is the single place that interprets them.
const (
	RoleAdmin    = "admin"
	RoleLandlord = "landlord"
	RoleUser     = "user"
)

// ValidRole reports whether s is one of the three known roles.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleLandlord || s == RoleUser
}

// User represents an application user record as stored in the `users` table.
// PasswordHash is never serialized; handlers define separate response types
// with appropriate JSON tags.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	FullName     – display name.
//	Email        – unique email address.
//	Phone        – optional contact phone.
//	Role         – one of admin, landlord, user.
//	PasswordHash – bcrypt hashed password.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	FullName     string    // users.full_name
	Email        string    // users.email
	Phone        string    // users.phone
	Role         string    // users.role
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each refresh
// token belongs to a user and contains metadata for expiry and revocation.
// The plain token is not stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
