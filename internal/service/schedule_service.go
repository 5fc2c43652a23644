package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/clinixnote/backend/internal/model"
)

// ScheduleService owns the schedule definition lifecycle: expansion of a
// definition into time slots, regeneration, and reconciliation of existing
// appointments after an edit.
type ScheduleService struct {
	schedules    ScheduleStore
	slots        SlotStore
	appointments AppointmentStore
	mailer       Mailer
	locks        *DoctorLocks
	logger       *zap.Logger
}

func NewScheduleService(
	schedules ScheduleStore,
	slots SlotStore,
	appointments AppointmentStore,
	mailer Mailer,
	locks *DoctorLocks,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		schedules:    schedules,
		slots:        slots,
		appointments: appointments,
		mailer:       mailer,
		locks:        locks,
		logger:       logger,
	}
}

// CreateSchedule validates and stores a new schedule definition, then
// materializes its slots. Returns the schedule and the number of slots
// written.
func (s *ScheduleService) CreateSchedule(ctx context.Context, doctorID int64, rules []model.DayRule, slotDuration int, validFrom, validTo time.Time) (*model.DoctorSchedule, int, error) {
	if doctorID == 0 {
		return nil, 0, validationf("missing doctor id")
	}

	schedule := &model.DoctorSchedule{
		DoctorID:            doctorID,
		DayRules:            rules,
		SlotDurationMinutes: slotDuration,
		ValidFrom:           validFrom,
		ValidTo:             validTo,
	}
	if err := schedule.Validate(); err != nil {
		return nil, 0, validationf("invalid schedule: %v", err)
	}

	// Expand before any write so a bad rule aborts cleanly.
	newSlots, err := ExpandSchedule(schedule)
	if err != nil {
		return nil, 0, err
	}

	unlock := s.locks.Lock(doctorID)
	defer unlock()

	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, 0, err
	}

	count, err := s.slots.ReplaceRange(ctx, doctorID, dayOf(validFrom), dayOf(validTo), newSlots)
	if err != nil {
		s.logger.Error("slot generation failed after schedule create",
			zap.Int64("doctor_id", doctorID),
			zap.Int64("schedule_id", schedule.ID),
			zap.Error(err),
		)
		return nil, 0, fmt.Errorf("generate slots: %w", err)
	}

	s.logger.Info("schedule created",
		zap.Int64("doctor_id", doctorID),
		zap.Int64("schedule_id", schedule.ID),
		zap.String("mode", string(schedule.Mode)),
		zap.Int("slots", count),
	)
	return schedule, count, nil
}

// RegenerateSlots rebuilds the full slot set of an existing schedule,
// wiping whatever the range held before.
func (s *ScheduleService) RegenerateSlots(ctx context.Context, scheduleID int64) (int, error) {
	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return 0, err
	}
	if schedule == nil {
		return 0, ErrNotFound
	}

	newSlots, err := ExpandSchedule(schedule)
	if err != nil {
		return 0, err
	}

	unlock := s.locks.Lock(schedule.DoctorID)
	defer unlock()

	count, err := s.slots.ReplaceRange(ctx, schedule.DoctorID, dayOf(schedule.ValidFrom), dayOf(schedule.ValidTo), newSlots)
	if err != nil {
		s.logger.Error("slot regeneration failed",
			zap.Int64("doctor_id", schedule.DoctorID),
			zap.Int64("schedule_id", scheduleID),
			zap.Time("valid_from", schedule.ValidFrom),
			zap.Time("valid_to", schedule.ValidTo),
			zap.Error(err),
		)
		return 0, fmt.Errorf("regenerate slots: %w", err)
	}

	s.logger.Info("slots regenerated",
		zap.Int64("schedule_id", scheduleID),
		zap.Int("slots", count),
	)
	return count, nil
}

// UpdateSchedule rewrites a schedule definition, replaces the slots across
// the old and new validity ranges and repairs the appointments that fall
// inside them.
func (s *ScheduleService) UpdateSchedule(ctx context.Context, scheduleID, doctorID int64, rules []model.DayRule, slotDuration int, validFrom, validTo time.Time) (*model.DoctorSchedule, error) {
	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, ErrNotFound
	}
	if schedule.DoctorID != doctorID {
		return nil, ErrForbidden
	}

	// The old validity range must be wiped too, or narrowing the range
	// would leave stale bookable slots behind with no backing schedule.
	wipeFrom, wipeTo := unionRange(schedule.ValidFrom, schedule.ValidTo, validFrom, validTo)

	schedule.DayRules = rules
	schedule.SlotDurationMinutes = slotDuration
	schedule.ValidFrom = validFrom
	schedule.ValidTo = validTo
	if err := schedule.Validate(); err != nil {
		return nil, validationf("invalid schedule: %v", err)
	}

	newSlots, err := ExpandSchedule(schedule)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(doctorID)
	defer unlock()

	if err := s.schedules.Update(ctx, schedule); err != nil {
		return nil, err
	}

	if _, err := s.slots.ReplaceRange(ctx, doctorID, wipeFrom, wipeTo, newSlots); err != nil {
		s.logger.Error("slot regeneration failed after schedule update",
			zap.Int64("doctor_id", doctorID),
			zap.Int64("schedule_id", scheduleID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("regenerate slots: %w", err)
	}

	s.reconcileAppointments(ctx, schedule, wipeFrom, wipeTo)

	return schedule, nil
}

// unionRange spans both validity ranges, normalized to whole days.
func unionRange(oldFrom, oldTo, newFrom, newTo time.Time) (time.Time, time.Time) {
	from := dayOf(newFrom)
	if of := dayOf(oldFrom); of.Before(from) {
		from = of
	}
	to := dayOf(newTo)
	if ot := dayOf(oldTo); ot.After(to) {
		to = ot
	}
	return from, to
}

// reconcileAppointments repairs every appointment displaced by a schedule
// edit. Repairs are independent: one failure is logged and the walk goes
// on. An appointment whose exact slot survived is left alone; one with a
// replacement slot the same day moves to the earliest free start and the
// patient is mailed; one with no free slot that day keeps its time but is
// flagged unresolved, with no mail.
func (s *ScheduleService) reconcileAppointments(ctx context.Context, schedule *model.DoctorSchedule, from, to time.Time) {
	appts, err := s.appointments.ListByDoctorDateRange(ctx, schedule.DoctorID, from, to)
	if err != nil {
		s.logger.Error("reconcile: listing affected appointments failed",
			zap.Int64("doctor_id", schedule.DoctorID),
			zap.Error(err),
		)
		return
	}

	for _, appt := range appts {
		if err := s.reconcileOne(ctx, appt); err != nil {
			s.logger.Error("reconcile: appointment repair failed",
				zap.Int64("appointment_id", appt.ID),
				zap.Error(err),
			)
		}
	}
}

func (s *ScheduleService) reconcileOne(ctx context.Context, appt *model.Appointment) error {
	exact, err := s.slots.FindExactAvailable(ctx, appt.DoctorID, dayOf(appt.PreferredDate), appt.PreferredTime)
	if err != nil {
		return err
	}
	if exact != nil {
		// Slot survived the regeneration, nothing to repair.
		return nil
	}

	free, err := s.slots.FindAvailable(ctx, appt.DoctorID, dayOf(appt.PreferredDate))
	if err != nil {
		return err
	}

	if len(free) == 0 {
		if err := s.appointments.MarkUnresolved(ctx, appt.ID); err != nil {
			return err
		}
		s.logger.Warn("reconcile: no replacement slot, appointment left unresolved",
			zap.Int64("appointment_id", appt.ID),
			zap.Time("date", appt.PreferredDate),
		)
		return nil
	}

	oldTime := appt.PreferredTime
	newTime := free[0].StartTime
	if err := s.appointments.Reassign(ctx, appt.ID, newTime, false); err != nil {
		return err
	}

	s.logger.Info("reconcile: appointment moved",
		zap.Int64("appointment_id", appt.ID),
		zap.String("old_time", oldTime),
		zap.String("new_time", newTime),
	)

	subject := "Appointment Time Updated"
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>Your appointment has been rescheduled due to a change in the doctor's schedule.</p>
<p><strong>Old Time:</strong> %s</p>
<p><strong>New Time:</strong> %s</p>
<p>Thank you for understanding.</p>`, appt.PatientName, oldTime, newTime)

	if err := s.mailer.Send(ctx, appt.Contact, subject, body); err != nil {
		// Best effort, the rewrite above stays persisted.
		s.logger.Warn("reconcile: reschedule notification failed",
			zap.Int64("appointment_id", appt.ID),
			zap.String("contact", appt.Contact),
			zap.Error(err),
		)
	}
	return nil
}

// SchedulesByDoctor lists a doctor's schedule definitions.
func (s *ScheduleService) SchedulesByDoctor(ctx context.Context, doctorID int64) ([]*model.DoctorSchedule, error) {
	return s.schedules.GetByDoctorID(ctx, doctorID)
}

// AvailableSlots lists a doctor's unbooked slots on one day.
func (s *ScheduleService) AvailableSlots(ctx context.Context, doctorID int64, date time.Time) ([]*model.TimeSlot, error) {
	if doctorID == 0 {
		return nil, validationf("missing doctorId")
	}
	return s.slots.FindAvailable(ctx, doctorID, dayOf(date))
}

// WeekSlots lists every slot of the doctor in the week containing date,
// booked or not, for the weekly schedule rendering.
func (s *ScheduleService) WeekSlots(ctx context.Context, doctorID int64, date time.Time) ([]*model.TimeSlot, error) {
	day := dayOf(date)
	// back up to Monday
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6)
	return s.slots.ListByDoctorRange(ctx, doctorID, monday, sunday)
}

// PruneExpiredSlots drops free slots dated before today. Run by the
// background janitor.
func (s *ScheduleService) PruneExpiredSlots(ctx context.Context) (int64, error) {
	removed, err := s.slots.DeleteFreeBefore(ctx, dayOf(time.Now()))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("pruned expired free slots", zap.Int64("removed", removed))
	}
	return removed, nil
}
