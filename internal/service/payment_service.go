package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinixnote/backend/internal/model"
)

// Consultation fee charged at initiation, in whole currency units.
const consultationFee int64 = 100

// PaymentService opens gateway checkout sessions and tracks their outcome.
type PaymentService struct {
	payments   PaymentStore
	gateway    PaymentGateway
	backendURL string
	logger     *zap.Logger
}

func NewPaymentService(payments PaymentStore, gateway PaymentGateway, backendURL string, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		payments:   payments,
		gateway:    gateway,
		backendURL: backendURL,
		logger:     logger,
	}
}

// Initiate opens a checkout session for an appointment fee and records the
// pending payment. Returns the gateway redirect URL.
func (ps *PaymentService) Initiate(ctx context.Context, patientName, contact, doctorName string) (string, error) {
	if patientName == "" || contact == "" || doctorName == "" {
		return "", validationf("name, contact and doctor are required")
	}

	tranID := "TXN_" + uuid.NewString()

	url, err := ps.gateway.CreateSession(ctx, PaymentSession{
		TranID:        tranID,
		Amount:        consultationFee,
		Currency:      "BDT",
		CustomerName:  patientName,
		CustomerPhone: contact,
		ProductName:   "Doctor Appointment",
		SuccessURL:    ps.backendURL + "/api/payment/success",
		FailURL:       ps.backendURL + "/api/payment/fail",
		CancelURL:     ps.backendURL + "/api/payment/cancel",
	})
	if err != nil {
		return "", err
	}

	payment := &model.Payment{
		TranID:         tranID,
		Amount:         consultationFee,
		Currency:       "BDT",
		Status:         model.PaymentStatusPending,
		DoctorName:     doctorName,
		PatientName:    patientName,
		PatientContact: contact,
	}
	if err := ps.payments.Create(ctx, payment); err != nil {
		return "", err
	}

	ps.logger.Info("payment initiated",
		zap.String("tran_id", tranID),
		zap.String("doctor", doctorName),
	)
	return url, nil
}

// RecordOutcome updates a payment after a gateway callback. Callbacks
// without a transaction id are ignored, the gateway retries them.
func (ps *PaymentService) RecordOutcome(ctx context.Context, tranID string, status model.PaymentStatus) error {
	if tranID == "" {
		return nil
	}
	if err := ps.payments.UpdateStatus(ctx, tranID, status); err != nil {
		ps.logger.Warn("payment status update failed",
			zap.String("tran_id", tranID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (ps *PaymentService) History(ctx context.Context) ([]*model.Payment, error) {
	return ps.payments.List(ctx)
}

func (ps *PaymentService) TotalRevenue(ctx context.Context) (int64, error) {
	return ps.payments.TotalRevenue(ctx)
}
