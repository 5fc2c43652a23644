package controller

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type quickAppointmentRequest struct {
	Name          string `json:"name"`
	Contact       string `json:"contact"`
	DoctorID      int64  `json:"doctorId"`
	PreferredDate string `json:"preferredDate"`
	PreferredTime string `json:"preferredTime"`
	SaveInfo      bool   `json:"saveInfo"`
}

func (ct *Controller) CreateQuickAppointment(c echo.Context) error {
	var req quickAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	date, err := parseDate(req.PreferredDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid preferredDate")
	}
	appt, err := ct.appointments.CreateQuick(
		c.Request().Context(), req.Name, req.Contact, req.DoctorID, date, req.PreferredTime, req.SaveInfo)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, appt)
}

func (ct *Controller) ListAppointments(c echo.Context) error {
	appts, err := ct.appointments.ListAll(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appts)
}

func (ct *Controller) ConfirmAppointment(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	appt, err := ct.bookings.ConfirmAppointment(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

func (ct *Controller) DeclineAppointment(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := ct.appointments.Decline(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Appointment declined."})
}

// UserAppointments lists the logged-in patient's appointments by their
// account email.
func (ct *Controller) UserAppointments(c echo.Context) error {
	user, err := ct.auth.GetUser(c.Request().Context(), userID(c))
	if err != nil {
		return httpError(err)
	}
	appts, err := ct.appointments.ListByContact(c.Request().Context(), user.Email)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appts)
}

func (ct *Controller) MyAppointments(c echo.Context) error {
	appts, err := ct.appointments.ListByDoctor(c.Request().Context(), userID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appts)
}

func (ct *Controller) TotalAppointments(c echo.Context) error {
	count, err := ct.appointments.Count(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": count})
}
