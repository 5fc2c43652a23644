package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "Pending"
	PaymentStatusPaid     PaymentStatus = "Paid"
	PaymentStatusFailed   PaymentStatus = "Failed"
	PaymentStatusCanceled PaymentStatus = "Canceled"
)

type Payment struct {
	ID             int64         `json:"id"`
	TranID         string        `json:"tran_id"`
	Amount         int64         `json:"amount"`
	Currency       string        `json:"currency"`
	Status         PaymentStatus `json:"status"`
	DoctorName     string        `json:"user"`
	PatientName    string        `json:"patient_name"`
	PatientContact string        `json:"patient_contact"`
	CreatedAt      time.Time     `json:"createdAt"`
}
