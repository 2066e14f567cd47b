// Package policy is the single place where the permission matrix lives.
// Every handler consults Allow before mutating or returning restricted data,
// so role rules cannot drift between endpoints. The decision function is
// pure: it looks only at the caller's role and ID, the requested operation
// and the owner of the target resource.
package policy

import "github.com/iliyamo/premises-rental/internal/model"

// Op enumerates every guarded operation in the API. Operations that act on
// a concrete resource pass the resource's owner ID to Allow; global
// operations pass zero.
type Op int

const (
	// Admin-only catalogue management: companies and rooms (create,
	// update, delete), room categories and room photos.
	OpCompanyWrite Op = iota
	OpRoomWrite
	OpCategoryWrite
	OpPhotoWrite

	// Building management is the one landlord carve-out.
	OpBuildingWrite

	// Tenant-level creates, open to any authenticated caller.
	OpLeaseCreate
	OpPaymentCreate
	OpMaintenanceCreate
	OpReviewCreate
	OpFavoriteCreate

	// Owner-scoped reads and deletes: allowed for admins and for the
	// resource owner.
	OpLeaseRead
	OpPaymentRead
	OpMaintenanceRead
	OpReviewDelete
	OpFavoriteDelete

	// Admin-only lifecycle mutations.
	OpLeaseUpdate
	OpLeaseDelete
	OpMaintenanceUpdate
	OpMaintenanceDelete

	// OpListAll gates unscoped listing of leases and maintenance requests.
	// When denied, handlers restrict the query to the caller's own rows.
	OpListAll
)

// Allow reports whether a caller with the given role and ID may perform op
// against a resource owned by ownerID. For operations without a target
// resource, ownerID is ignored.
func Allow(role string, callerID uint64, op Op, ownerID uint64) bool {
	// Admins may do everything unconditionally.
	if role == model.RoleAdmin {
		return true
	}

	switch op {
	case OpBuildingWrite:
		return role == model.RoleLandlord
	case OpLeaseCreate, OpPaymentCreate, OpMaintenanceCreate, OpReviewCreate, OpFavoriteCreate:
		// Any authenticated caller; landlords keep user-level rights.
		return role == model.RoleUser || role == model.RoleLandlord
	case OpLeaseRead, OpPaymentRead, OpMaintenanceRead, OpReviewDelete, OpFavoriteDelete:
		// Ownership check: exact match on the resource's owner field.
		return callerID != 0 && callerID == ownerID
	}
	// Everything else (catalogue writes, lease/maintenance lifecycle
	// mutations, unscoped listing) is admin-only.
	return false
}
