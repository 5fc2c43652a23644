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

type SlotRepository struct {
	pool *pgxpool.Pool
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

const slotColumns = `id, doctor_id, slot_date, start_time, end_time, is_booked, booked_by, created_at`

func scanSlot(row pgx.Row) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	err := row.Scan(
		&slot.ID,
		&slot.DoctorID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsBooked,
		&slot.BookedBy,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// GetByID returns the slot or nil when it does not exist.
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.TimeSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE id = $1`

	slot, err := scanSlot(r.pool.QueryRow(ctx, query, id))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get slot by id: %w", err)
	}
	return slot, nil
}

// FindAvailable returns the unbooked slots of a doctor on one day, ordered
// by start time.
func (r *SlotRepository) FindAvailable(ctx context.Context, doctorID int64, date time.Time) ([]*model.TimeSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE doctor_id = $1
		  AND slot_date = $2
		  AND NOT is_booked
		ORDER BY start_time
	`

	rows, err := r.pool.Query(ctx, query, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("find available slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.TimeSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// FindExactAvailable returns the unbooked slot with the given start time on
// the given day, or nil when none exists.
func (r *SlotRepository) FindExactAvailable(ctx context.Context, doctorID int64, date time.Time, startTime string) (*model.TimeSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE doctor_id = $1
		  AND slot_date = $2
		  AND start_time = $3
		  AND NOT is_booked
	`

	slot, err := scanSlot(r.pool.QueryRow(ctx, query, doctorID, date, startTime))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find exact slot: %w", err)
	}
	return slot, nil
}

// ListByDoctorRange returns all slots of a doctor between two dates
// inclusive, booked or not, ordered chronologically.
func (r *SlotRepository) ListByDoctorRange(ctx context.Context, doctorID int64, from, to time.Time) ([]*model.TimeSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE doctor_id = $1
		  AND slot_date BETWEEN $2 AND $3
		ORDER BY slot_date, start_time
	`

	rows, err := r.pool.Query(ctx, query, doctorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list slots by doctor: %w", err)
	}
	defer rows.Close()

	var slots []*model.TimeSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// Book marks a slot as taken by bookedBy. The conditional update is the
// exclusivity guarantee: of two concurrent callers exactly one sees an
// affected row, the other gets ErrAlreadyBooked.
func (r *SlotRepository) Book(ctx context.Context, slotID, bookedBy int64) error {
	query := `
		UPDATE time_slots
		SET is_booked = TRUE, booked_by = $1
		WHERE id = $2 AND NOT is_booked
	`

	tag, err := r.pool.Exec(ctx, query, bookedBy, slotID)
	if err != nil {
		return fmt.Errorf("book slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM time_slots WHERE id = $1)`, slotID).Scan(&exists); err != nil {
			return fmt.Errorf("book slot: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrAlreadyBooked
	}
	return nil
}

// ReplaceRange removes every slot of the doctor between from and to
// inclusive and inserts newSlots, all inside one transaction so stale slots
// never coexist with the regenerated set.
func (r *SlotRepository) ReplaceRange(ctx context.Context, doctorID int64, from, to time.Time, newSlots []*model.TimeSlot) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin replace range: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM time_slots
		WHERE doctor_id = $1 AND slot_date BETWEEN $2 AND $3
	`, doctorID, from, to)
	if err != nil {
		return 0, fmt.Errorf("delete stale slots: %w", err)
	}

	inserted, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"time_slots"},
		[]string{"doctor_id", "slot_date", "start_time", "end_time", "is_booked"},
		pgx.CopyFromSlice(len(newSlots), func(i int) ([]interface{}, error) {
			s := newSlots[i]
			return []interface{}{s.DoctorID, s.Date, s.StartTime, s.EndTime, s.IsBooked}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("insert slots: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit replace range: %w", err)
	}
	return int(inserted), nil
}

// DeleteFreeBefore drops unbooked slots older than the cutoff date. Booked
// slots stay, they back appointment history.
func (r *SlotRepository) DeleteFreeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM time_slots
		WHERE slot_date < $1 AND NOT is_booked
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired slots: %w", err)
	}
	return tag.RowsAffected(), nil
}
