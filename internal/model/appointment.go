package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "Pending"
	AppointmentStatusConfirmed AppointmentStatus = "Confirmed"
)

// Appointment is a quick appointment request made by a patient. Contact is
// the patient's email and doubles as the notification address.
type Appointment struct {
	ID            int64             `json:"id"`
	PatientName   string            `json:"name"`
	Contact       string            `json:"contact"`
	DoctorID      int64             `json:"doctor_id"`
	PreferredDate time.Time         `json:"preferredDate"`
	PreferredTime string            `json:"preferredTime"`
	SaveInfo      bool              `json:"saveInfo"`
	Status        AppointmentStatus `json:"status"`
	// DoctorConfirmed is set when the doctor turns the appointment into a
	// patient record.
	DoctorConfirmed bool `json:"doctorConfirmed"`
	// UnresolvedConflict marks an appointment whose slot vanished after a
	// schedule edit and no replacement existed that day.
	UnresolvedConflict bool      `json:"unresolvedConflict"`
	CreatedAt          time.Time `json:"created_at"`

	// Convenience, populated on listings.
	DoctorName    string `json:"doctor,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
}
