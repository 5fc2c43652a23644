package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Patient is the record a doctor creates out of a confirmed appointment,
// stored in the document database alongside the reports.
type Patient struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Contact         string             `bson:"contact" json:"contact"`
	Doctor          string             `bson:"doctor" json:"doctor"`
	AppointmentDate time.Time          `bson:"appointmentDate" json:"appointmentDate"`
	AppointmentTime string             `bson:"appointmentTime" json:"appointmentTime"`
	Image           string             `bson:"image" json:"image"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// PatientKey identifies a patient record by its full details when no id
// is at hand, as the delete endpoint does.
type PatientKey struct {
	Name            string    `json:"name"`
	Contact         string    `json:"contact"`
	Doctor          string    `json:"doctor"`
	AppointmentDate time.Time `json:"appointmentDate"`
	AppointmentTime string    `json:"appointmentTime"`
}
