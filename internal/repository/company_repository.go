// This file defines repository methods for companies. A company sits at the
// top of the ownership hierarchy and is managed by admins only; the policy
// check happens in the handler, the repository only touches rows.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/premises-rental/internal/model"
)

// ErrCompanyNotFound is returned when a company cannot be found in the DB.
var ErrCompanyNotFound = errors.New("company not found")

// ErrTaxIDExists is returned when an insert or update collides with the
// unique index on companies.tax_id.
var ErrTaxIDExists = errors.New("tax id already exists")

// CompanyRepo encapsulates all database queries related to companies.
type CompanyRepo struct {
	db *sql.DB
}

// NewCompanyRepo constructs a CompanyRepo with the provided DB handle.
func NewCompanyRepo(db *sql.DB) *CompanyRepo {
	return &CompanyRepo{db: db}
}

const companyCols = "id, name, tax_id, address, contact_person, phone, email, description"

func scanCompany(row interface{ Scan(...any) error }, c *model.Company) error {
	var taxID, address, contact, phone, email, desc sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &taxID, &address, &contact, &phone, &email, &desc); err != nil {
		return err
	}
	c.TaxID = taxID.String
	c.Address = address.String
	c.ContactPerson = contact.String
	c.Phone = phone.String
	c.Email = email.String
	c.Description = desc.String
	return nil
}

// Create inserts a new company. On success the ID field is populated with
// the auto-generated value.
func (r *CompanyRepo) Create(ctx context.Context, c *model.Company) error {
	const q = `INSERT INTO companies (name, tax_id, address, contact_person, phone, email, description)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		c.Name, nullStr(c.TaxID), nullStr(c.Address), nullStr(c.ContactPerson),
		nullStr(c.Phone), nullStr(c.Email), nullStr(c.Description))
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrTaxIDExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID fetches a company by its ID. It returns ErrCompanyNotFound if no
// row is found.
func (r *CompanyRepo) GetByID(ctx context.Context, id uint64) (*model.Company, error) {
	var c model.Company
	row := r.db.QueryRowContext(ctx, "SELECT "+companyCols+" FROM companies WHERE id = ?", id)
	if err := scanCompany(row, &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns companies ordered by id with skip/limit pagination.
func (r *CompanyRepo) List(ctx context.Context, skip, limit int) ([]*model.Company, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+companyCols+" FROM companies ORDER BY id LIMIT ? OFFSET ?", limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Company{}
	for rows.Next() {
		c := new(model.Company)
		if err := scanCompany(rows, c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a company. It returns
// ErrCompanyNotFound when no row is affected.
func (r *CompanyRepo) Update(ctx context.Context, c *model.Company) error {
	const q = `UPDATE companies
	           SET name = ?, tax_id = ?, address = ?, contact_person = ?, phone = ?, email = ?, description = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		c.Name, nullStr(c.TaxID), nullStr(c.Address), nullStr(c.ContactPerson),
		nullStr(c.Phone), nullStr(c.Email), nullStr(c.Description), c.ID)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrTaxIDExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero rows can also mean an identical update; confirm existence.
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a company row. ErrCompanyNotFound when nothing was deleted.
func (r *CompanyRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM companies WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// nullStr converts an empty string to a NULL database value.
func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
