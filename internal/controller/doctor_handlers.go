package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinixnote/backend/internal/model"
)

func (ct *Controller) ListDoctorNames(c echo.Context) error {
	doctors, err := ct.auth.ApprovedDoctors(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	names := make([]string, 0, len(doctors))
	for _, d := range doctors {
		names = append(names, d.Name)
	}
	return c.JSON(http.StatusOK, names)
}

func (ct *Controller) ListDoctorsForAppointment(c echo.Context) error {
	doctors, err := ct.auth.ApprovedDoctors(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, doctors)
}

type doctorApplicationRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
}

func (ct *Controller) DoctorApplication(c echo.Context) error {
	var req doctorApplicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.auth.ApplyDoctor(c.Request().Context(), req.Name, req.Email, req.Specialization); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Application submitted."})
}

func (ct *Controller) PendingApplications(c echo.Context) error {
	apps, err := ct.auth.PendingApplications(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, apps)
}

func (ct *Controller) ApproveDoctor(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.auth.ApproveDoctor(c.Request().Context(), id, req.Password); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Doctor approved."})
}

func (ct *Controller) DeclineDoctor(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := ct.auth.DeclineDoctor(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Application declined."})
}

type scheduleRequest struct {
	Days         []model.DayRule `json:"days"`
	SlotDuration int             `json:"slotDuration"`
	ValidFrom    string          `json:"validFrom"`
	ValidTo      string          `json:"validTo"`
}

func (r *scheduleRequest) dates() (from, to time.Time, err error) {
	from, err = parseDate(r.ValidFrom)
	if err != nil {
		return
	}
	to, err = parseDate(r.ValidTo)
	return
}

func (ct *Controller) CreateSchedule(c echo.Context) error {
	var req scheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	from, to, err := req.dates()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date format")
	}
	schedule, slotCount, err := ct.schedules.CreateSchedule(
		c.Request().Context(), userID(c), req.Days, req.SlotDuration, from, to)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"schedule":       schedule,
		"slotsGenerated": slotCount,
	})
}

func (ct *Controller) UpdateSchedule(c echo.Context) error {
	scheduleID, err := strconv.ParseInt(c.Param("scheduleId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid schedule id")
	}
	var req scheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	from, to, err := req.dates()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date format")
	}
	schedule, err := ct.schedules.UpdateSchedule(
		c.Request().Context(), scheduleID, userID(c), req.Days, req.SlotDuration, from, to)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, schedule)
}

func (ct *Controller) GenerateSlots(c echo.Context) error {
	var req struct {
		ScheduleID int64 `json:"scheduleId"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	count, err := ct.schedules.RegenerateSlots(c.Request().Context(), req.ScheduleID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"slotsGenerated": count})
}

func (ct *Controller) DoctorSchedules(c echo.Context) error {
	doctorID, err := strconv.ParseInt(c.Param("doctorId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	schedules, err := ct.schedules.SchedulesByDoctor(c.Request().Context(), doctorID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, schedules)
}

func (ct *Controller) AvailableTimeslots(c echo.Context) error {
	doctorID, err := strconv.ParseInt(c.QueryParam("doctorId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "doctorId is required")
	}
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date is required")
	}
	slots, err := ct.schedules.AvailableSlots(c.Request().Context(), doctorID, date)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, slots)
}

func (ct *Controller) BookTimeslot(c echo.Context) error {
	slotID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid slot id")
	}
	var req struct {
		BookedBy int64 `json:"bookedBy"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	slot, err := ct.bookings.BookSlot(c.Request().Context(), slotID, req.BookedBy)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, slot)
}

func (ct *Controller) DoctorAppointments(c echo.Context) error {
	appts, err := ct.appointments.ListByDoctor(c.Request().Context(), userID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appts)
}

func (ct *Controller) DoctorMe(c echo.Context) error {
	user, err := ct.auth.GetUser(c.Request().Context(), userID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// ScheduleImage renders the doctor's week around the given date as a PNG.
func (ct *Controller) ScheduleImage(c echo.Context) error {
	date := time.Now()
	if q := c.QueryParam("date"); q != "" {
		var err error
		if date, err = parseDate(q); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date format")
		}
	}
	slots, err := ct.schedules.WeekSlots(c.Request().Context(), userID(c), date)
	if err != nil {
		return httpError(err)
	}
	png, err := RenderWeek(date, slots)
	if err != nil {
		return httpError(err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
