package model

// Room status values. Status is a small state machine: leases flip a room
// between available and occupied; maintenance is set manually by admins.
const (
	RoomAvailable   = "available"
	RoomOccupied    = "occupied"
	RoomMaintenance = "maintenance"
)

// ValidRoomStatus reports whether s is a known room status.
func ValidRoomStatus(s string) bool {
	return s == RoomAvailable || s == RoomOccupied || s == RoomMaintenance
}

// Room is a rentable unit. It optionally belongs to a building and carries a
// category tag. Corresponds to a row in the `rooms` table.
//
// Fields:
//
//	ID            – primary key identifier.
//	BuildingID    – owning building, nil for standalone rooms.
//	CategoryID    – room category tag.
//	RoomNumber    – human-readable unit number within the building.
//	Floor         – floor number (nullable).
//	Area          – floor area in square meters (nullable).
//	PricePerMonth – monthly rent asked for the unit.
//	Status        – available | occupied | maintenance.
//	Description   – free-form description.
type Room struct {
	ID            uint64   `json:"room_id"`         // rooms.id
	BuildingID    *uint64  `json:"building_id"`     // rooms.building_id (nullable)
	CategoryID    *uint64  `json:"category_id"`     // rooms.category_id (nullable)
	RoomNumber    string   `json:"room_number"`     // rooms.room_number
	Floor         *int     `json:"floor"`           // rooms.floor (nullable)
	Area          *float64 `json:"area"`            // rooms.area (nullable)
	PricePerMonth float64  `json:"price_per_month"` // rooms.price_per_month
	Status        string   `json:"status"`          // rooms.status
	Description   string   `json:"description"`     // rooms.description

	// Favorited is only populated on personalized listings for an
	// authenticated caller; it does not map to a column.
	Favorited bool `json:"favorited,omitempty"`
}

// RoomFilter carries the optional query parameters accepted by the public
// room listing. Zero/nil values mean "no constraint".
type RoomFilter struct {
	Status     string
	CategoryID uint64
	BuildingID uint64
	MinPrice   *float64
	MaxPrice   *float64
	Skip       int
	Limit      int
}

// RoomPhoto is metadata for one uploaded photo of a room. The binary lives on
// disk under the configured upload directory; PhotoURL is the public path.
type RoomPhoto struct {
	ID          uint64 `json:"photo_id"`    // room_photos.id
	RoomID      uint64 `json:"room_id"`     // room_photos.room_id
	PhotoURL    string `json:"photo_url"`   // room_photos.photo_url
	Description string `json:"description"` // room_photos.description
}
