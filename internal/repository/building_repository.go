package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/premises-rental/internal/model"
)

// ErrBuildingNotFound is returned when a building cannot be found in the DB.
var ErrBuildingNotFound = errors.New("building not found")

// BuildingRepo encapsulates all database queries related to buildings.
// Buildings are the landlord carve-out: landlords and admins may write them,
// everyone may read them.
type BuildingRepo struct {
	db *sql.DB
}

func NewBuildingRepo(db *sql.DB) *BuildingRepo { return &BuildingRepo{db: db} }

const buildingCols = "id, company_id, name, address, year_built, total_area, description"

func scanBuilding(row interface{ Scan(...any) error }, b *model.Building) error {
	var year sql.NullInt64
	var area sql.NullFloat64
	var desc sql.NullString
	if err := row.Scan(&b.ID, &b.CompanyID, &b.Name, &b.Address, &year, &area, &desc); err != nil {
		return err
	}
	if year.Valid {
		y := int(year.Int64)
		b.YearBuilt = &y
	}
	if area.Valid {
		a := area.Float64
		b.TotalArea = &a
	}
	b.Description = desc.String
	return nil
}

// Create inserts a new building and populates the generated ID.
func (r *BuildingRepo) Create(ctx context.Context, b *model.Building) error {
	const q = `INSERT INTO buildings (company_id, name, address, year_built, total_area, description)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, b.CompanyID, b.Name, b.Address, b.YearBuilt, b.TotalArea, nullStr(b.Description))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID fetches a building by its ID or returns ErrBuildingNotFound.
func (r *BuildingRepo) GetByID(ctx context.Context, id uint64) (*model.Building, error) {
	var b model.Building
	row := r.db.QueryRowContext(ctx, "SELECT "+buildingCols+" FROM buildings WHERE id = ?", id)
	if err := scanBuilding(row, &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBuildingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// List returns buildings ordered by id with skip/limit pagination.
func (r *BuildingRepo) List(ctx context.Context, skip, limit int) ([]*model.Building, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+buildingCols+" FROM buildings ORDER BY id LIMIT ? OFFSET ?", limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Building{}
	for rows.Next() {
		b := new(model.Building)
		if err := scanBuilding(rows, b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a building.
func (r *BuildingRepo) Update(ctx context.Context, b *model.Building) error {
	const q = `UPDATE buildings
	           SET company_id = ?, name = ?, address = ?, year_built = ?, total_area = ?, description = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, b.CompanyID, b.Name, b.Address, b.YearBuilt, b.TotalArea, nullStr(b.Description), b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, b.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a building row. ErrBuildingNotFound when nothing was deleted.
func (r *BuildingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM buildings WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBuildingNotFound
	}
	return nil
}

// CountAll returns the number of buildings, used by the stats endpoint.
func (r *BuildingRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM buildings").Scan(&n)
	return n, err
}
