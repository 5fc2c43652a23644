package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinixnote/backend/internal/model"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) Create(ctx context.Context, p *model.Payment) error {
	query := `
		INSERT INTO payments (tran_id, amount, currency, status, doctor_name, patient_name, patient_contact)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		p.TranID,
		p.Amount,
		p.Currency,
		p.Status,
		p.DoctorName,
		p.PatientName,
		p.PatientContact,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, tranID string, status model.PaymentStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE payments SET status = $1 WHERE tran_id = $2`, status, tranID)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PaymentRepository) List(ctx context.Context) ([]*model.Payment, error) {
	query := `
		SELECT id, tran_id, amount, currency, status, doctor_name, patient_name, patient_contact, created_at
		FROM payments
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []*model.Payment
	for rows.Next() {
		var p model.Payment
		err := rows.Scan(
			&p.ID,
			&p.TranID,
			&p.Amount,
			&p.Currency,
			&p.Status,
			&p.DoctorName,
			&p.PatientName,
			&p.PatientContact,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

// HasPaid reports whether a paid payment exists for the patient identified
// by name and contact, used to annotate appointment listings.
func (r *PaymentRepository) HasPaid(ctx context.Context, patientName, contact string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM payments
			WHERE patient_name = $1 AND patient_contact = $2 AND status = $3
		)
	`, patientName, contact, model.PaymentStatusPaid).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check payment: %w", err)
	}
	return exists, nil
}

func (r *PaymentRepository) TotalRevenue(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = $1`,
		model.PaymentStatusPaid).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total revenue: %w", err)
	}
	return total, nil
}
