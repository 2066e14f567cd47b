package model

// Company is the top of the ownership hierarchy: a company owns buildings,
// buildings contain rooms. This struct corresponds to a row in the
// `companies` table.
//
// Fields:
//
//	ID            – primary key identifier.
//	Name          – company display name.
//	TaxID         – unique tax registration number.
//	Address       – registered address.
//	ContactPerson – name of the main contact.
//	Phone         – contact phone number.
//	Email         – contact email.
//	Description   – free-form description.
type Company struct {
	ID            uint64 `json:"company_id"`     // companies.id
	Name          string `json:"name"`           // companies.name
	TaxID         string `json:"tax_id"`         // companies.tax_id
	Address       string `json:"address"`        // companies.address
	ContactPerson string `json:"contact_person"` // companies.contact_person
	Phone         string `json:"phone"`          // companies.phone
	Email         string `json:"email"`          // companies.email
	Description   string `json:"description"`    // companies.description
}

// Building groups rooms under a company. BuildingID on rooms is optional, so
// a room may exist without a building. Corresponds to the `buildings` table.
type Building struct {
	ID          uint64   `json:"building_id"` // buildings.id
	CompanyID   uint64   `json:"company_id"`  // buildings.company_id
	Name        string   `json:"name"`        // buildings.name
	Address     string   `json:"address"`     // buildings.address
	YearBuilt   *int     `json:"year_built"`  // buildings.year_built (nullable)
	TotalArea   *float64 `json:"total_area"`  // buildings.total_area (nullable)
	Description string   `json:"description"` // buildings.description
}

// RoomCategory is an admin-managed tag applied to rooms (office, retail,
// warehouse, ...). Corresponds to the `room_categories` table.
type RoomCategory struct {
	ID          uint64 `json:"category_id"` // room_categories.id
	Name        string `json:"name"`        // room_categories.name
	Description string `json:"description"` // room_categories.description
}
