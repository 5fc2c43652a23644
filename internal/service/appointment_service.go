package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/clinixnote/backend/internal/model"
)

// AppointmentService covers the quick-appointment surface outside booking:
// creation, listings with payment status, declines.
type AppointmentService struct {
	appointments AppointmentStore
	payments     PaymentStore
	mailer       Mailer
	logger       *zap.Logger
}

func NewAppointmentService(
	appointments AppointmentStore,
	payments PaymentStore,
	mailer Mailer,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		payments:     payments,
		mailer:       mailer,
		logger:       logger,
	}
}

func (as *AppointmentService) CreateQuick(ctx context.Context, name, contact string, doctorID int64, preferredDate time.Time, preferredTime string, saveInfo bool) (*model.Appointment, error) {
	if name == "" || contact == "" || doctorID == 0 {
		return nil, validationf("name, contact and doctor are required")
	}
	if _, err := parseClock(preferredTime); err != nil {
		return nil, validationf("invalid preferred time: %v", err)
	}

	appt := &model.Appointment{
		PatientName:   name,
		Contact:       contact,
		DoctorID:      doctorID,
		PreferredDate: dayOf(preferredDate),
		PreferredTime: preferredTime,
		SaveInfo:      saveInfo,
		Status:        model.AppointmentStatusPending,
	}
	if err := as.appointments.Create(ctx, appt); err != nil {
		return nil, err
	}

	as.logger.Info("quick appointment created",
		zap.Int64("appointment_id", appt.ID),
		zap.Int64("doctor_id", doctorID),
		zap.Time("date", appt.PreferredDate),
	)
	return appt, nil
}

// ListAll returns every appointment annotated with a Paid/Unpaid payment
// status resolved against the payment records.
func (as *AppointmentService) ListAll(ctx context.Context) ([]*model.Appointment, error) {
	appts, err := as.appointments.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, appt := range appts {
		paid, err := as.payments.HasPaid(ctx, appt.PatientName, appt.Contact)
		if err != nil {
			as.logger.Warn("payment status lookup failed",
				zap.Int64("appointment_id", appt.ID),
				zap.Error(err),
			)
			continue
		}
		if paid {
			appt.PaymentStatus = "Paid"
		} else {
			appt.PaymentStatus = "Unpaid"
		}
	}
	return appts, nil
}

func (as *AppointmentService) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Appointment, error) {
	return as.appointments.ListByDoctor(ctx, doctorID)
}

func (as *AppointmentService) ListByContact(ctx context.Context, contact string) ([]*model.Appointment, error) {
	return as.appointments.ListByContact(ctx, contact)
}

// Decline deletes the appointment and mails the patient a cancellation
// notice. The mail is best effort.
func (as *AppointmentService) Decline(ctx context.Context, id int64) error {
	appt, err := as.appointments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if appt == nil {
		return ErrNotFound
	}

	if err := as.appointments.Delete(ctx, id); err != nil {
		return err
	}

	as.logger.Info("appointment declined", zap.Int64("appointment_id", id))

	subject := "Appointment Cancelled"
	body := fmt.Sprintf(`<p>Dear %s,</p>
<p>We regret to inform you that your appointment with Dr. %s scheduled for %s at %s has been cancelled.
Please select another preferred time for your appointment.</p>
<p>Regards,<br>Clinic Admin</p>`,
		appt.PatientName, appt.DoctorName, appt.PreferredDate.Format("January 2, 2006"), appt.PreferredTime)

	if err := as.mailer.Send(ctx, appt.Contact, subject, body); err != nil {
		as.logger.Warn("cancellation email failed",
			zap.Int64("appointment_id", id),
			zap.Error(err),
		)
	}
	return nil
}

func (as *AppointmentService) Count(ctx context.Context) (int64, error) {
	return as.appointments.Count(ctx)
}
