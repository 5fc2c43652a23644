package service

import (
	"fmt"
	"time"

	"github.com/clinixnote/backend/internal/model"
)

// parseClock parses an HH:MM string into minutes since midnight.
func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("parse time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return h*60 + m, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// dayOf normalizes a timestamp to midnight UTC of its calendar day.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BuildSlots materializes the bookable slots of one day rule on one date.
// A cursor walks from the rule's start in durationMinutes steps; a slot
// whose end would pass the rule's end is not emitted, so an uneven
// remainder at the tail simply stays unused.
func BuildSlots(doctorID int64, date time.Time, rule model.DayRule, durationMinutes int) ([]*model.TimeSlot, error) {
	if durationMinutes <= 0 {
		return nil, validationf("slot duration must be positive, got %d", durationMinutes)
	}
	start, err := parseClock(rule.StartTime)
	if err != nil {
		return nil, validationf("invalid start time: %v", err)
	}
	end, err := parseClock(rule.EndTime)
	if err != nil {
		return nil, validationf("invalid end time: %v", err)
	}
	if start >= end {
		return nil, validationf("start time %s must be before end time %s", rule.StartTime, rule.EndTime)
	}

	day := dayOf(date)
	var slots []*model.TimeSlot
	for cursor := start; cursor+durationMinutes <= end; cursor += durationMinutes {
		slots = append(slots, &model.TimeSlot{
			DoctorID:  doctorID,
			Date:      day,
			StartTime: formatClock(cursor),
			EndTime:   formatClock(cursor + durationMinutes),
			IsBooked:  false,
		})
	}
	return slots, nil
}

// ExpandSchedule walks every calendar date of the schedule's validity range
// inclusive and builds the slots of each date that a rule applies to.
func ExpandSchedule(schedule *model.DoctorSchedule) ([]*model.TimeSlot, error) {
	from := dayOf(schedule.ValidFrom)
	to := dayOf(schedule.ValidTo)
	if from.After(to) {
		return nil, validationf("validFrom %s is after validTo %s",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	var slots []*model.TimeSlot
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		rule, ok := schedule.RuleFor(d)
		if !ok {
			continue
		}
		daySlots, err := BuildSlots(schedule.DoctorID, d, rule, schedule.SlotDurationMinutes)
		if err != nil {
			return nil, err
		}
		slots = append(slots, daySlots...)
	}
	return slots, nil
}
