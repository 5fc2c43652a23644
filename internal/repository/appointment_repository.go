package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinixnote/backend/internal/model"
	"github.com/clinixnote/backend/internal/repository/base"
)

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

const appointmentColumns = `a.id, a.patient_name, a.contact, a.doctor_id, a.preferred_date,
	a.preferred_time, a.save_info, a.status, a.doctor_confirmed, a.unresolved_conflict, a.created_at, u.name`

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var appt model.Appointment
	err := row.Scan(
		&appt.ID,
		&appt.PatientName,
		&appt.Contact,
		&appt.DoctorID,
		&appt.PreferredDate,
		&appt.PreferredTime,
		&appt.SaveInfo,
		&appt.Status,
		&appt.DoctorConfirmed,
		&appt.UnresolvedConflict,
		&appt.CreatedAt,
		&appt.DoctorName,
	)
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *AppointmentRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*model.Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []*model.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appts = append(appts, appt)
	}
	return appts, rows.Err()
}

func (r *AppointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	query := `
		INSERT INTO appointments (patient_name, contact, doctor_id, preferred_date, preferred_time, save_info, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		appt.PatientName,
		appt.Contact,
		appt.DoctorID,
		appt.PreferredDate,
		appt.PreferredTime,
		appt.SaveInfo,
		appt.Status,
	).Scan(&appt.ID, &appt.CreatedAt)

	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a JOIN users u ON u.id = a.doctor_id
		WHERE a.id = $1
	`

	appt, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}
	return appt, nil
}

func (r *AppointmentRepository) ListAll(ctx context.Context) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a JOIN users u ON u.id = a.doctor_id
		ORDER BY a.created_at DESC
	`

	appts, err := r.queryMany(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

func (r *AppointmentRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a JOIN users u ON u.id = a.doctor_id
		WHERE a.doctor_id = $1
		ORDER BY a.preferred_date
	`

	appts, err := r.queryMany(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list appointments by doctor: %w", err)
	}
	return appts, nil
}

func (r *AppointmentRepository) ListByContact(ctx context.Context, contact string) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a JOIN users u ON u.id = a.doctor_id
		WHERE a.contact = $1
		ORDER BY a.preferred_date
	`

	appts, err := r.queryMany(ctx, query, contact)
	if err != nil {
		return nil, fmt.Errorf("list appointments by contact: %w", err)
	}
	return appts, nil
}

// ListByDoctorDateRange returns the doctor's appointments whose preferred
// date falls inside [from, to] inclusive.
func (r *AppointmentRepository) ListByDoctorDateRange(ctx context.Context, doctorID int64, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a JOIN users u ON u.id = a.doctor_id
		WHERE a.doctor_id = $1
		  AND a.preferred_date BETWEEN $2 AND $3
		ORDER BY a.preferred_date, a.preferred_time
	`

	appts, err := r.queryMany(ctx, query, doctorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list appointments in range: %w", err)
	}
	return appts, nil
}

// Reassign rewrites the preferred time after a schedule edit displaced the
// original slot, and records whether the conflict stayed unresolved.
func (r *AppointmentRepository) Reassign(ctx context.Context, id int64, preferredTime string, unresolved bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments SET preferred_time = $1, unresolved_conflict = $2 WHERE id = $3
	`, preferredTime, unresolved, id)
	if err != nil {
		return fmt.Errorf("reassign appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkUnresolved flags an appointment left without any replacement slot.
func (r *AppointmentRepository) MarkUnresolved(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments SET unresolved_conflict = TRUE WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("mark appointment unresolved: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetDoctorConfirmed records that the doctor turned the appointment into
// a patient record.
func (r *AppointmentRepository) SetDoctorConfirmed(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE appointments SET doctor_confirmed = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("confirm appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AppointmentRepository) SetStatus(ctx context.Context, id int64, status model.AppointmentStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE appointments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("set appointment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AppointmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	return count, nil
}
