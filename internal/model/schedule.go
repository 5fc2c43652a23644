package model

import (
	"errors"
	"time"
)

// ScheduleMode tells how the day rules of a schedule are applied. It is
// decided once, when the schedule is created or updated, never re-detected
// on expansion.
type ScheduleMode string

const (
	// ScheduleModePerWeekday: every rule names a weekday, dates without a
	// matching rule get no slots.
	ScheduleModePerWeekday ScheduleMode = "per_weekday"
	// ScheduleModeUniform: a single rule without a weekday applies to every
	// date in the validity range.
	ScheduleModeUniform ScheduleMode = "uniform"
)

// DayRule is one availability window. Day is a weekday name ("Monday") in
// per-weekday mode and empty in uniform mode. Times are HH:MM.
type DayRule struct {
	Day       string `json:"day,omitempty"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type DoctorSchedule struct {
	ID                  int64        `json:"id"`
	DoctorID            int64        `json:"doctor_id"`
	Mode                ScheduleMode `json:"mode"`
	DayRules            []DayRule    `json:"days"`
	SlotDurationMinutes int          `json:"slot_duration"`
	ValidFrom           time.Time    `json:"valid_from"`
	ValidTo             time.Time    `json:"valid_to"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

var (
	ErrNoDayRules      = errors.New("schedule needs at least one day rule")
	ErrMixedDayRules   = errors.New("day rules must either all name a weekday or none")
	ErrUniformRuleSet  = errors.New("uniform schedule takes exactly one day rule")
	ErrInvalidDuration = errors.New("slot duration must be a positive number of minutes")
	ErrInvalidRange    = errors.New("validFrom must not be after validTo")
)

// DetectMode classifies a rule set as per-weekday or uniform. Mixed rule
// sets (some with a weekday, some without) are rejected.
func DetectMode(rules []DayRule) (ScheduleMode, error) {
	if len(rules) == 0 {
		return "", ErrNoDayRules
	}
	withDay := 0
	for _, r := range rules {
		if r.Day != "" {
			withDay++
		}
	}
	switch {
	case withDay == len(rules):
		return ScheduleModePerWeekday, nil
	case withDay == 0:
		if len(rules) != 1 {
			return "", ErrUniformRuleSet
		}
		return ScheduleModeUniform, nil
	default:
		return "", ErrMixedDayRules
	}
}

// Validate checks the schedule invariants shared by create and update.
func (s *DoctorSchedule) Validate() error {
	mode, err := DetectMode(s.DayRules)
	if err != nil {
		return err
	}
	s.Mode = mode
	if s.SlotDurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	if s.ValidFrom.After(s.ValidTo) {
		return ErrInvalidRange
	}
	return nil
}

// RuleFor returns the rule applying to the given date, or false when the
// date contributes no slots.
func (s *DoctorSchedule) RuleFor(date time.Time) (DayRule, bool) {
	if s.Mode == ScheduleModeUniform {
		return s.DayRules[0], true
	}
	weekday := date.Weekday().String()
	for _, r := range s.DayRules {
		if r.Day == weekday {
			return r, true
		}
	}
	return DayRule{}, false
}
