package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/premises-rental/internal/model"
)

// PaymentRepo manages the append-only payments ledger. Payments are never
// updated or deleted; corrections are recorded as new entries.
type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Create inserts a payment row for a lease. PaymentDate defaults to NOW()
// in the database when the zero value is passed.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	if p.Status == "" {
		p.Status = model.PaymentCompleted
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (lease_id, payment_date, amount, payment_method, status)
		 VALUES (?, COALESCE(?, NOW()), ?, ?, ?)`,
		p.LeaseID, nullTime(p.PaymentDate), p.Amount, nullStr(p.PaymentMethod), p.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	return r.db.QueryRowContext(ctx,
		"SELECT payment_date FROM payments WHERE id = ?", p.ID).Scan(&p.PaymentDate)
}

// ListByLease returns all payments recorded against a lease, oldest first.
func (r *PaymentRepo) ListByLease(ctx context.Context, leaseID uint64) ([]*model.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, lease_id, payment_date, amount, payment_method, status
		 FROM payments WHERE lease_id = ? ORDER BY id`, leaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Payment{}
	for rows.Next() {
		p := new(model.Payment)
		var method sql.NullString
		if err := rows.Scan(&p.ID, &p.LeaseID, &p.PaymentDate, &p.Amount, &method, &p.Status); err != nil {
			return nil, err
		}
		p.PaymentMethod = method.String
		out = append(out, p)
	}
	return out, rows.Err()
}

// nullTime converts the zero time to a NULL database value so COALESCE can
// apply the server-side default.
func nullTime(t interface{ IsZero() bool }) any {
	if t.IsZero() {
		return nil
	}
	return t
}
