package model

import "time"

// Prescription lives in the relational store, separate from the nested
// prescription entries embedded in patient reports.
type Prescription struct {
	ID          int64     `json:"id"`
	PatientName string    `json:"patientName"`
	Contact     string    `json:"contact"`
	DoctorName  string    `json:"doctorName"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Text        string    `json:"prescriptionText"`
	CreatedAt   time.Time `json:"createdAt"`
}
