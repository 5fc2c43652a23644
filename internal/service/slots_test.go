package service

import (
	"testing"
	"time"

	"github.com/clinixnote/backend/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildSlotsDiscardsPartialTail(t *testing.T) {
	rule := model.DayRule{StartTime: "09:00", EndTime: "09:50"}

	slots, err := BuildSlots(1, date(2024, time.June, 3), rule, 20)
	if err != nil {
		t.Fatalf("BuildSlots: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	want := [][2]string{{"09:00", "09:20"}, {"09:20", "09:40"}}
	for i, slot := range slots {
		if slot.StartTime != want[i][0] || slot.EndTime != want[i][1] {
			t.Errorf("slot %d: got %s-%s, want %s-%s", i, slot.StartTime, slot.EndTime, want[i][0], want[i][1])
		}
		if slot.IsBooked {
			t.Errorf("slot %d: new slot must be free", i)
		}
	}
}

func TestBuildSlotsExactFit(t *testing.T) {
	rule := model.DayRule{StartTime: "10:00", EndTime: "12:00"}

	slots, err := BuildSlots(1, date(2024, time.June, 3), rule, 30)
	if err != nil {
		t.Fatalf("BuildSlots: %v", err)
	}
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}
	if last := slots[3]; last.EndTime != "12:00" {
		t.Errorf("last slot ends at %s, want 12:00", last.EndTime)
	}
}

func TestBuildSlotsWindowShorterThanDuration(t *testing.T) {
	rule := model.DayRule{StartTime: "09:00", EndTime: "09:15"}

	slots, err := BuildSlots(1, date(2024, time.June, 3), rule, 30)
	if err != nil {
		t.Fatalf("BuildSlots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots, got %d", len(slots))
	}
}

func TestBuildSlotsRejectsBadInput(t *testing.T) {
	cases := []struct {
		name     string
		rule     model.DayRule
		duration int
	}{
		{"zero duration", model.DayRule{StartTime: "09:00", EndTime: "10:00"}, 0},
		{"negative duration", model.DayRule{StartTime: "09:00", EndTime: "10:00"}, -15},
		{"inverted window", model.DayRule{StartTime: "17:00", EndTime: "09:00"}, 30},
		{"equal bounds", model.DayRule{StartTime: "09:00", EndTime: "09:00"}, 30},
		{"garbage start", model.DayRule{StartTime: "morning", EndTime: "10:00"}, 30},
		{"out of range hour", model.DayRule{StartTime: "25:00", EndTime: "26:00"}, 30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := BuildSlots(1, date(2024, time.June, 3), tc.rule, tc.duration); !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestExpandSchedulePerWeekday(t *testing.T) {
	schedule := &model.DoctorSchedule{
		DoctorID: 7,
		Mode:     model.ScheduleModePerWeekday,
		DayRules: []model.DayRule{
			{Day: "Monday", StartTime: "09:00", EndTime: "10:00"},
			{Day: "Wednesday", StartTime: "14:00", EndTime: "15:00"},
		},
		SlotDurationMinutes: 30,
		ValidFrom:           date(2024, time.June, 3), // Monday
		ValidTo:             date(2024, time.June, 9), // Sunday
	}

	slots, err := ExpandSchedule(schedule)
	if err != nil {
		t.Fatalf("ExpandSchedule: %v", err)
	}
	// Two rule days in the week, two slots each.
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}

	byDate := make(map[string]int)
	for _, slot := range slots {
		byDate[slot.Date.Format("2006-01-02")]++
	}
	if byDate["2024-06-03"] != 2 {
		t.Errorf("Monday: got %d slots, want 2", byDate["2024-06-03"])
	}
	if byDate["2024-06-05"] != 2 {
		t.Errorf("Wednesday: got %d slots, want 2", byDate["2024-06-05"])
	}
	if len(byDate) != 2 {
		t.Errorf("slots generated on %d distinct dates, want 2", len(byDate))
	}
}

func TestExpandScheduleUniform(t *testing.T) {
	schedule := &model.DoctorSchedule{
		DoctorID:            7,
		Mode:                model.ScheduleModeUniform,
		DayRules:            []model.DayRule{{StartTime: "09:00", EndTime: "10:00"}},
		SlotDurationMinutes: 30,
		ValidFrom:           date(2024, time.June, 3),
		ValidTo:             date(2024, time.June, 5),
	}

	slots, err := ExpandSchedule(schedule)
	if err != nil {
		t.Fatalf("ExpandSchedule: %v", err)
	}
	// Three days, two slots each.
	if len(slots) != 6 {
		t.Fatalf("expected 6 slots, got %d", len(slots))
	}
}

func TestExpandScheduleSingleDayRange(t *testing.T) {
	schedule := &model.DoctorSchedule{
		DoctorID:            7,
		Mode:                model.ScheduleModeUniform,
		DayRules:            []model.DayRule{{StartTime: "09:00", EndTime: "09:30"}},
		SlotDurationMinutes: 30,
		ValidFrom:           date(2024, time.June, 3),
		ValidTo:             date(2024, time.June, 3),
	}

	slots, err := ExpandSchedule(schedule)
	if err != nil {
		t.Fatalf("ExpandSchedule: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot on a single-day range, got %d", len(slots))
	}
}

func TestParseClock(t *testing.T) {
	if _, err := parseClock("09:60"); err == nil {
		t.Error("expected error for minute 60")
	}
	got, err := parseClock("13:45")
	if err != nil {
		t.Fatalf("parseClock: %v", err)
	}
	if got != 13*60+45 {
		t.Errorf("parseClock(13:45) = %d", got)
	}
	if formatClock(got) != "13:45" {
		t.Errorf("formatClock round trip = %s", formatClock(got))
	}
}
