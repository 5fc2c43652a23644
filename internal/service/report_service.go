package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/clinixnote/backend/internal/model"
)

// ReportService appends visit data to patient reports in the document
// store and saves standalone prescriptions in the relational store.
type ReportService struct {
	reports       ReportStore
	prescriptions PrescriptionStore
	logger        *zap.Logger
}

func NewReportService(reports ReportStore, prescriptions PrescriptionStore, logger *zap.Logger) *ReportService {
	return &ReportService{
		reports:       reports,
		prescriptions: prescriptions,
		logger:        logger,
	}
}

// SaveReport upserts the patient's report document with one visit's
// additions.
func (rs *ReportService) SaveReport(ctx context.Context, patientID string, upd model.ReportUpdate) (*model.PatientReport, error) {
	if patientID == "" {
		return nil, validationf("patientId is required")
	}

	report, err := rs.reports.Upsert(ctx, patientID, upd)
	if err != nil {
		return nil, err
	}

	rs.logger.Info("patient report saved",
		zap.String("patient_id", patientID),
		zap.Int("documents", len(upd.Documents)),
		zap.Int("audio", len(upd.Audio)),
	)
	return report, nil
}

func (rs *ReportService) ReportsByPatient(ctx context.Context, patientID string) ([]*model.PatientReport, error) {
	return rs.reports.FindByPatientID(ctx, patientID)
}

// SavePrescription stores a prescription row in the relational store.
func (rs *ReportService) SavePrescription(ctx context.Context, p *model.Prescription) error {
	if p.PatientName == "" || p.Contact == "" || p.DoctorName == "" || p.Time == "" {
		return validationf("missing required fields")
	}
	if err := rs.prescriptions.Create(ctx, p); err != nil {
		return err
	}
	rs.logger.Info("prescription saved",
		zap.Int64("prescription_id", p.ID),
		zap.String("doctor", p.DoctorName),
	)
	return nil
}

func (rs *ReportService) PrescriptionsByContact(ctx context.Context, contact string) ([]*model.Prescription, error) {
	return rs.prescriptions.ListByContact(ctx, contact)
}
