// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between failure scenarios: ErrRoomUnavailable signals a
// business-rule violation that maps to HTTP 400, while the various NotFound
// sentinels map to 404. None of them should crash the process.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned by UserRepo.Create when the email address is
// already registered.
var ErrEmailExists = errors.New("email already exists")

// ErrRoomNotFound is returned when a room ID does not resolve.
var ErrRoomNotFound = errors.New("room not found")

// ErrRoomUnavailable is returned by LeaseRepo.Create when the target room is
// not in status 'available'. The room may be occupied by another lease or
// under maintenance.
var ErrRoomUnavailable = errors.New("room is not available")

// ErrLeaseNotFound is returned when a lease ID does not resolve.
var ErrLeaseNotFound = errors.New("lease not found")

// ErrAlreadyFavorited is returned by FavoriteRepo.Create when the caller has
// already saved the room. The (user_id, room_id) pair is unique.
var ErrAlreadyFavorited = errors.New("room already in favorites")
