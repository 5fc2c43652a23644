package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinixnote/backend/internal/model"
	"github.com/clinixnote/backend/internal/repository/base"
)

type ScheduleRepository struct {
	pool *pgxpool.Pool
}

func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

// Create stores a new schedule definition. Day rules go in as jsonb.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *model.DoctorSchedule) error {
	rules, err := json.Marshal(schedule.DayRules)
	if err != nil {
		return fmt.Errorf("marshal day rules: %w", err)
	}

	query := `
		INSERT INTO doctor_schedules (doctor_id, mode, day_rules, slot_duration_minutes, valid_from, valid_to)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err = r.pool.QueryRow(
		ctx, query,
		schedule.DoctorID,
		schedule.Mode,
		rules,
		schedule.SlotDurationMinutes,
		schedule.ValidFrom,
		schedule.ValidTo,
	).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// GetByID returns the schedule or nil when it does not exist.
func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*model.DoctorSchedule, error) {
	query := `
		SELECT id, doctor_id, mode, day_rules, slot_duration_minutes, valid_from, valid_to, created_at, updated_at
		FROM doctor_schedules
		WHERE id = $1
	`

	schedule, err := r.scanSchedule(r.pool.QueryRow(ctx, query, id))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule by id: %w", err)
	}
	return schedule, nil
}

// GetByDoctorID returns every schedule owned by the doctor.
func (r *ScheduleRepository) GetByDoctorID(ctx context.Context, doctorID int64) ([]*model.DoctorSchedule, error) {
	query := `
		SELECT id, doctor_id, mode, day_rules, slot_duration_minutes, valid_from, valid_to, created_at, updated_at
		FROM doctor_schedules
		WHERE doctor_id = $1
		ORDER BY valid_from
	`

	rows, err := r.pool.Query(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("get schedules by doctor: %w", err)
	}
	defer rows.Close()

	var schedules []*model.DoctorSchedule
	for rows.Next() {
		schedule, err := r.scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, schedule)
	}
	return schedules, rows.Err()
}

// Update rewrites a schedule's definition fields in place.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *model.DoctorSchedule) error {
	rules, err := json.Marshal(schedule.DayRules)
	if err != nil {
		return fmt.Errorf("marshal day rules: %w", err)
	}

	query := `
		UPDATE doctor_schedules
		SET mode = $1, day_rules = $2, slot_duration_minutes = $3, valid_from = $4, valid_to = $5, updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`

	err = r.pool.QueryRow(
		ctx, query,
		schedule.Mode,
		rules,
		schedule.SlotDurationMinutes,
		schedule.ValidFrom,
		schedule.ValidTo,
		schedule.ID,
	).Scan(&schedule.UpdatedAt)

	if base.IsNotFound(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) scanSchedule(row pgx.Row) (*model.DoctorSchedule, error) {
	var (
		schedule model.DoctorSchedule
		rules    []byte
	)
	err := row.Scan(
		&schedule.ID,
		&schedule.DoctorID,
		&schedule.Mode,
		&rules,
		&schedule.SlotDurationMinutes,
		&schedule.ValidFrom,
		&schedule.ValidTo,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rules, &schedule.DayRules); err != nil {
		return nil, fmt.Errorf("unmarshal day rules: %w", err)
	}
	return &schedule, nil
}
