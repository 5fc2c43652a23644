package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/clinixnote/backend/internal/model"
)

// PatientService manages the patient records doctors build out of
// confirmed appointments.
type PatientService struct {
	patients     PatientStore
	appointments AppointmentStore
	users        UserStore
	reports      ReportStore
	logger       *zap.Logger
}

func NewPatientService(
	patients PatientStore,
	appointments AppointmentStore,
	users UserStore,
	reports ReportStore,
	logger *zap.Logger,
) *PatientService {
	return &PatientService{
		patients:     patients,
		appointments: appointments,
		users:        users,
		reports:      reports,
		logger:       logger,
	}
}

// AddFromAppointment copies the appointment's details into a new patient
// record and marks the appointment doctor-confirmed. A patient is unique
// by name and contact, a second add returns ErrDuplicate.
func (ps *PatientService) AddFromAppointment(ctx context.Context, appointmentID int64) (*model.Patient, error) {
	appt, err := ps.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrNotFound
	}

	patient := &model.Patient{
		Name:            appt.PatientName,
		Contact:         appt.Contact,
		Doctor:          appt.DoctorName,
		AppointmentDate: dayOf(appt.PreferredDate),
		AppointmentTime: appt.PreferredTime,
	}
	if err := ps.patients.Create(ctx, patient); err != nil {
		return nil, err
	}

	if err := ps.appointments.SetDoctorConfirmed(ctx, appointmentID); err != nil {
		return nil, err
	}

	ps.logger.Info("patient added from appointment",
		zap.Int64("appointment_id", appointmentID),
		zap.String("patient", patient.Name),
	)
	return patient, nil
}

// MyPatients returns the calling doctor's patients ordered by appointment
// date then time.
func (ps *PatientService) MyPatients(ctx context.Context, doctorID int64) ([]*model.Patient, error) {
	doctor, err := ps.users.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrNotFound
	}
	return ps.patients.ListByDoctor(ctx, doctor.Name)
}

func (ps *PatientService) ListAll(ctx context.Context) ([]*model.Patient, error) {
	return ps.patients.ListAll(ctx)
}

// SetImage stores an uploaded image filename on the patient record.
func (ps *PatientService) SetImage(ctx context.Context, patientID, image string) error {
	if patientID == "" || image == "" {
		return validationf("patient id and image are required")
	}
	return ps.patients.SetImage(ctx, patientID, image)
}

// Remove deletes the patient matching every field of the key.
func (ps *PatientService) Remove(ctx context.Context, key model.PatientKey) error {
	if key.Name == "" || key.Contact == "" {
		return validationf("name and contact are required")
	}
	key.AppointmentDate = dayOf(key.AppointmentDate)
	if err := ps.patients.DeleteByDetails(ctx, key); err != nil {
		return err
	}
	ps.logger.Info("patient removed", zap.String("patient", key.Name))
	return nil
}

// ExamFindings returns the exam findings from the patient's report
// document.
func (ps *PatientService) ExamFindings(ctx context.Context, patientID string) ([]model.TextEntry, error) {
	reports, err := ps.reports.FindByPatientID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, ErrNotFound
	}
	return reports[0].ExamFindings, nil
}
