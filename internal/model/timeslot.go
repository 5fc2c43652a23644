package model

import "time"

// TimeSlot is one bookable unit derived from a doctor's schedule. Date is
// normalized to midnight of the slot's day, StartTime/EndTime are HH:MM.
type TimeSlot struct {
	ID        int64     `json:"id"`
	DoctorID  int64     `json:"doctor_id"`
	Date      time.Time `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	IsBooked  bool      `json:"isBooked"`
	BookedBy  *int64    `json:"bookedBy"`
	CreatedAt time.Time `json:"created_at"`
}
