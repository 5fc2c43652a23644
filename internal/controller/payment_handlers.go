package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinixnote/backend/internal/model"
)

type initiatePaymentRequest struct {
	PatientName string `json:"patientName"`
	Contact     string `json:"contact"`
	DoctorName  string `json:"doctorName"`
}

func (ct *Controller) InitiatePayment(c echo.Context) error {
	var req initiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	url, err := ct.payments.Initiate(c.Request().Context(), req.PatientName, req.Contact, req.DoctorName)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}

// Gateway callbacks arrive as form posts and end in a browser redirect.

func (ct *Controller) PaymentSuccess(c echo.Context) error {
	return ct.paymentCallback(c, model.PaymentStatusPaid, "/payment-success")
}

func (ct *Controller) PaymentFail(c echo.Context) error {
	return ct.paymentCallback(c, model.PaymentStatusFailed, "/payment-fail")
}

func (ct *Controller) PaymentCancel(c echo.Context) error {
	return ct.paymentCallback(c, model.PaymentStatusCanceled, "/payment-cancel")
}

func (ct *Controller) paymentCallback(c echo.Context, status model.PaymentStatus, path string) error {
	tranID := c.FormValue("tran_id")
	if err := ct.payments.RecordOutcome(c.Request().Context(), tranID, status); err != nil {
		return httpError(err)
	}
	return c.Redirect(http.StatusSeeOther, ct.frontendURL+path)
}

func (ct *Controller) PaymentHistory(c echo.Context) error {
	payments, err := ct.payments.History(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, payments)
}

func (ct *Controller) TotalRevenue(c echo.Context) error {
	total, err := ct.payments.TotalRevenue(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total})
}
