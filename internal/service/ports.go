package service

import (
	"context"
	"time"

	"github.com/clinixnote/backend/internal/model"
)

// Store interfaces consumed by the services. The pgx repositories satisfy
// them in production, the tests use in-memory fakes.

type ScheduleStore interface {
	Create(ctx context.Context, schedule *model.DoctorSchedule) error
	GetByID(ctx context.Context, id int64) (*model.DoctorSchedule, error)
	GetByDoctorID(ctx context.Context, doctorID int64) ([]*model.DoctorSchedule, error)
	Update(ctx context.Context, schedule *model.DoctorSchedule) error
}

type SlotStore interface {
	GetByID(ctx context.Context, id int64) (*model.TimeSlot, error)
	FindAvailable(ctx context.Context, doctorID int64, date time.Time) ([]*model.TimeSlot, error)
	FindExactAvailable(ctx context.Context, doctorID int64, date time.Time, startTime string) (*model.TimeSlot, error)
	ListByDoctorRange(ctx context.Context, doctorID int64, from, to time.Time) ([]*model.TimeSlot, error)
	Book(ctx context.Context, slotID, bookedBy int64) error
	ReplaceRange(ctx context.Context, doctorID int64, from, to time.Time, newSlots []*model.TimeSlot) (int, error)
	DeleteFreeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type AppointmentStore interface {
	Create(ctx context.Context, appt *model.Appointment) error
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	ListAll(ctx context.Context) ([]*model.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Appointment, error)
	ListByContact(ctx context.Context, contact string) ([]*model.Appointment, error)
	ListByDoctorDateRange(ctx context.Context, doctorID int64, from, to time.Time) ([]*model.Appointment, error)
	Reassign(ctx context.Context, id int64, preferredTime string, unresolved bool) error
	MarkUnresolved(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status model.AppointmentStatus) error
	SetDoctorConfirmed(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByEmailAndRole(ctx context.Context, email string, role model.Role) (*model.User, error)
	ListByRole(ctx context.Context, role model.Role, status model.DoctorStatus) ([]*model.User, error)
	GetByVerifyToken(ctx context.Context, token string) (*model.User, error)
	GetByResetToken(ctx context.Context, token string) (*model.User, error)
	MarkVerified(ctx context.Context, id int64) error
	Approve(ctx context.Context, id int64, passwordHash string) error
	SetResetToken(ctx context.Context, id int64, token string, expires time.Time) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	CountByRole(ctx context.Context, role model.Role) (int64, error)
}

type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	UpdateStatus(ctx context.Context, tranID string, status model.PaymentStatus) error
	List(ctx context.Context) ([]*model.Payment, error)
	HasPaid(ctx context.Context, patientName, contact string) (bool, error)
	TotalRevenue(ctx context.Context) (int64, error)
}

type PrescriptionStore interface {
	Create(ctx context.Context, p *model.Prescription) error
	ListByContact(ctx context.Context, contact string) ([]*model.Prescription, error)
}

type PatientStore interface {
	Create(ctx context.Context, p *model.Patient) error
	ListByDoctor(ctx context.Context, doctorName string) ([]*model.Patient, error)
	ListAll(ctx context.Context) ([]*model.Patient, error)
	SetImage(ctx context.Context, id, image string) error
	DeleteByDetails(ctx context.Context, key model.PatientKey) error
}

type ReportStore interface {
	Upsert(ctx context.Context, patientID string, upd model.ReportUpdate) (*model.PatientReport, error)
	FindByPatientID(ctx context.Context, patientID string) ([]*model.PatientReport, error)
}

// Mailer delivers best-effort notification email. Failures are logged by
// the caller, never propagated into the triggering operation.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// PaymentSession is the data handed to the payment gateway when a checkout
// session is opened.
type PaymentSession struct {
	TranID        string
	Amount        int64
	Currency      string
	CustomerName  string
	CustomerPhone string
	ProductName   string
	SuccessURL    string
	FailURL       string
	CancelURL     string
}

// PaymentGateway opens a hosted checkout session and returns the redirect
// URL for the customer.
type PaymentGateway interface {
	CreateSession(ctx context.Context, s PaymentSession) (string, error)
}
