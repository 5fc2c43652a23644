package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/clinixnote/backend/internal/model"
)

// BookingService handles slot booking and appointment confirmation.
type BookingService struct {
	slots        SlotStore
	appointments AppointmentStore
	users        UserStore
	mailer       Mailer
	locks        *DoctorLocks
	logger       *zap.Logger
}

func NewBookingService(
	slots SlotStore,
	appointments AppointmentStore,
	users UserStore,
	mailer Mailer,
	locks *DoctorLocks,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		slots:        slots,
		appointments: appointments,
		users:        users,
		mailer:       mailer,
		locks:        locks,
		logger:       logger,
	}
}

// BookSlot books a slot for a patient. The doctor lock keeps the booking
// from racing a concurrent schedule regeneration; the conditional update in
// the store keeps two bookers of the same slot from both winning.
func (bs *BookingService) BookSlot(ctx context.Context, slotID, bookedBy int64) (*model.TimeSlot, error) {
	if bookedBy == 0 {
		return nil, validationf("missing bookedBy")
	}

	slot, err := bs.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, ErrNotFound
	}

	unlock := bs.locks.Lock(slot.DoctorID)
	defer unlock()

	if err := bs.slots.Book(ctx, slotID, bookedBy); err != nil {
		return nil, err
	}

	bs.logger.Info("slot booked",
		zap.Int64("slot_id", slotID),
		zap.Int64("doctor_id", slot.DoctorID),
		zap.Int64("booked_by", bookedBy),
	)

	slot.IsBooked = true
	slot.BookedBy = &bookedBy
	return slot, nil
}

// ConfirmAppointment books the slot matching a quick appointment's
// preferred date and time, marks the appointment confirmed and mails the
// patient. The patient must have an account under the appointment's
// contact address.
func (bs *BookingService) ConfirmAppointment(ctx context.Context, appointmentID int64) (*model.Appointment, error) {
	appt, err := bs.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrNotFound
	}

	patient, err := bs.users.GetByEmail(ctx, appt.Contact)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrNotFound
	}

	unlock := bs.locks.Lock(appt.DoctorID)
	defer unlock()

	slot, err := bs.slots.FindExactAvailable(ctx, appt.DoctorID, dayOf(appt.PreferredDate), appt.PreferredTime)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, ErrNotFound
	}

	if err := bs.slots.Book(ctx, slot.ID, patient.ID); err != nil {
		return nil, err
	}

	if err := bs.appointments.SetStatus(ctx, appointmentID, model.AppointmentStatusConfirmed); err != nil {
		return nil, err
	}
	appt.Status = model.AppointmentStatusConfirmed

	bs.logger.Info("appointment confirmed",
		zap.Int64("appointment_id", appointmentID),
		zap.Int64("slot_id", slot.ID),
		zap.Int64("patient_id", patient.ID),
	)

	subject := "Appointment Confirmed"
	body := fmt.Sprintf(`<h3>Appointment Confirmed</h3>
<p>Hello %s,</p>
<p>Your appointment with <strong>Dr. %s</strong> has been confirmed.</p>
<p><strong>Date:</strong> %s</p>
<p><strong>Time:</strong> %s</p>
<p><strong>Status:</strong> Confirmed</p>
<p>Thank you for using our service.</p>`,
		patient.Name, appt.DoctorName, appt.PreferredDate.Format("January 2, 2006"), appt.PreferredTime)

	if err := bs.mailer.Send(ctx, patient.Email, subject, body); err != nil {
		bs.logger.Warn("confirmation email failed",
			zap.Int64("appointment_id", appointmentID),
			zap.Error(err),
		)
	}

	return appt, nil
}
