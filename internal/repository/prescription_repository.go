package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinixnote/backend/internal/model"
)

type PrescriptionRepository struct {
	pool *pgxpool.Pool
}

func NewPrescriptionRepository(pool *pgxpool.Pool) *PrescriptionRepository {
	return &PrescriptionRepository{pool: pool}
}

func (r *PrescriptionRepository) Create(ctx context.Context, p *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (patient_name, contact, doctor_name, issued_date, issued_time, body)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		p.PatientName,
		p.Contact,
		p.DoctorName,
		p.Date,
		p.Time,
		p.Text,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		return fmt.Errorf("create prescription: %w", err)
	}
	return nil
}

func (r *PrescriptionRepository) ListByContact(ctx context.Context, contact string) ([]*model.Prescription, error) {
	query := `
		SELECT id, patient_name, contact, doctor_name, issued_date, issued_time, body, created_at
		FROM prescriptions
		WHERE contact = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, contact)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}
	defer rows.Close()

	var prescriptions []*model.Prescription
	for rows.Next() {
		var p model.Prescription
		err := rows.Scan(
			&p.ID,
			&p.PatientName,
			&p.Contact,
			&p.DoctorName,
			&p.Date,
			&p.Time,
			&p.Text,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan prescription: %w", err)
		}
		prescriptions = append(prescriptions, &p)
	}
	return prescriptions, rows.Err()
}
