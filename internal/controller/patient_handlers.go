package controller

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clinixnote/backend/internal/model"
)

// AddPatient turns an appointment into a patient record.
func (ct *Controller) AddPatient(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("appointmentId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}

	patient, err := ct.patients.AddFromAppointment(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":         "Patient added successfully",
		"doctorConfirmed": true,
		"patient":         patient,
	})
}

// MyPatients lists the calling doctor's patients.
func (ct *Controller) MyPatients(c echo.Context) error {
	patients, err := ct.patients.MyPatients(c.Request().Context(), userID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, patients)
}

func (ct *Controller) ListPatients(c echo.Context) error {
	patients, err := ct.patients.ListAll(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, patients)
}

// UploadPatientImage saves the uploaded image and stores its URL on the
// patient record.
func (ct *Controller) UploadPatientImage(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}

	url, err := ct.saveUpload(fh, "patients")
	if err != nil {
		return httpError(err)
	}
	if err := ct.patients.SetImage(c.Request().Context(), c.Param("id"), url); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Image saved",
		"image":   url,
	})
}

// DeletePatient removes the patient matching every detail of the request
// body.
func (ct *Controller) DeletePatient(c echo.Context) error {
	var req struct {
		Name            string `json:"name"`
		Contact         string `json:"contact"`
		Doctor          string `json:"doctor"`
		AppointmentDate string `json:"appointmentDate"`
		AppointmentTime string `json:"appointmentTime"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	date, err := parseDate(req.AppointmentDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointmentDate")
	}

	key := model.PatientKey{
		Name:            req.Name,
		Contact:         req.Contact,
		Doctor:          req.Doctor,
		AppointmentDate: date,
		AppointmentTime: req.AppointmentTime,
	}
	if err := ct.patients.Remove(c.Request().Context(), key); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Patient removed successfully"})
}

// PatientExamFindings returns the exam findings recorded for a patient.
func (ct *Controller) PatientExamFindings(c echo.Context) error {
	patientID := c.Param("patientId")
	findings, err := ct.patients.ExamFindings(c.Request().Context(), patientID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"patientId":    patientID,
		"examFindings": findings,
	})
}
