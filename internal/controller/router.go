package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/clinixnote/backend/internal/model"
	"github.com/clinixnote/backend/internal/service"
)

// Controller wires the HTTP surface to the services.
type Controller struct {
	auth         *service.AuthService
	schedules    *service.ScheduleService
	bookings     *service.BookingService
	appointments *service.AppointmentService
	payments     *service.PaymentService
	reports      *service.ReportService
	patients     *service.PatientService

	jwtSecret   string
	frontendURL string
	uploadDir   string
	logger      *zap.Logger
}

func New(
	auth *service.AuthService,
	schedules *service.ScheduleService,
	bookings *service.BookingService,
	appointments *service.AppointmentService,
	payments *service.PaymentService,
	reports *service.ReportService,
	patients *service.PatientService,
	jwtSecret, frontendURL, uploadDir string,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		auth:         auth,
		schedules:    schedules,
		bookings:     bookings,
		appointments: appointments,
		payments:     payments,
		reports:      reports,
		patients:     patients,
		jwtSecret:    jwtSecret,
		frontendURL:  frontendURL,
		uploadDir:    uploadDir,
		logger:       logger,
	}
}

// RegisterRoutes mounts every endpoint on the echo instance.
func (ct *Controller) RegisterRoutes(e *echo.Echo) {
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{ct.frontendURL},
		AllowCredentials: true,
	}))
	e.Static("/uploads", ct.uploadDir)

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "ClinixNote API is running")
	})

	authed := JWTAuth(ct.jwtSecret)
	doctorOnly := RequireRole(model.RoleDoctor)
	adminOnly := RequireRole(model.RoleAdmin)
	limiter := NewRateLimiter(5, 10).Middleware()

	auth := e.Group("/api/auth")
	auth.POST("/signup", ct.Signup, limiter)
	auth.GET("/verify-email/:token", ct.VerifyEmail)
	auth.POST("/login", ct.Login, limiter)
	auth.POST("/forgot-password", ct.ForgotPassword, limiter)
	auth.POST("/reset-password/:token", ct.ResetPassword, limiter)
	auth.POST("/admin/add-doctor", ct.AddDoctor, authed, adminOnly)
	auth.GET("/me", ct.Me, authed)
	auth.GET("/total", ct.TotalPatients)
	auth.GET("/total-doctors", ct.TotalDoctors)

	doctor := e.Group("/api/doctor")
	doctor.GET("/doctors", ct.ListDoctorNames)
	doctor.GET("/doctorsforappointment", ct.ListDoctorsForAppointment)
	doctor.POST("/doctor/application", ct.DoctorApplication)
	doctor.GET("/applications", ct.PendingApplications, authed, adminOnly)
	doctor.POST("/approve/:id", ct.ApproveDoctor, authed, adminOnly)
	doctor.POST("/decline/:id", ct.DeclineDoctor, authed, adminOnly)
	doctor.POST("/schedule", ct.CreateSchedule, authed, doctorOnly)
	doctor.POST("/generate-slots", ct.GenerateSlots, authed, doctorOnly)
	doctor.PUT("/schedule/:scheduleId", ct.UpdateSchedule, authed, doctorOnly)
	doctor.GET("/schedule/image", ct.ScheduleImage, authed, doctorOnly)
	doctor.GET("/:doctorId/schedule", ct.DoctorSchedules)
	doctor.GET("/timeslots", ct.AvailableTimeslots)
	doctor.PUT("/timeslots/book/:id", ct.BookTimeslot)
	doctor.GET("/appointments", ct.DoctorAppointments, authed, doctorOnly)
	doctor.GET("/me", ct.DoctorMe, authed, doctorOnly)

	appts := e.Group("/api/appointments")
	appts.POST("/quick-appointments", ct.CreateQuickAppointment)
	appts.GET("/appointments", ct.ListAppointments)
	appts.GET("/timeslots", ct.AvailableTimeslots)
	appts.PUT("/appointments/:id/confirm", ct.ConfirmAppointment)
	appts.DELETE("/appointments/:id/decline", ct.DeclineAppointment)
	appts.GET("/user-appointments", ct.UserAppointments, authed)
	appts.GET("/my-appointments", ct.MyAppointments, authed, doctorOnly)
	appts.GET("/total", ct.TotalAppointments)

	payment := e.Group("/api/payment")
	payment.POST("/initiate", ct.InitiatePayment)
	payment.POST("/success", ct.PaymentSuccess)
	payment.POST("/fail", ct.PaymentFail)
	payment.POST("/cancel", ct.PaymentCancel)
	payment.GET("/history", ct.PaymentHistory)
	payment.GET("/total-revenue", ct.TotalRevenue)

	report := e.Group("/api/report")
	report.POST("", ct.SaveReport, authed, doctorOnly)
	report.GET("/by-patient-id/:id", ct.ReportsByPatient, authed)

	prescription := e.Group("/api/prescriptions")
	prescription.POST("/save", ct.SavePrescription, authed, doctorOnly)
	prescription.GET("/by-contact/:contact", ct.PrescriptionsByContact, authed)

	patients := e.Group("/api/patients")
	patients.POST("/add/:appointmentId", ct.AddPatient, authed)
	patients.GET("/my-patients", ct.MyPatients, authed, doctorOnly)
	patients.GET("/patients", ct.ListPatients)
	patients.POST("/:id/uploadImage", ct.UploadPatientImage, authed)
	patients.DELETE("", ct.DeletePatient, authed)
	patients.GET("/:patientId", ct.PatientExamFindings)
}

// httpError maps service errors onto HTTP statuses.
func httpError(err error) error {
	switch {
	case service.IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrAlreadyBooked):
		return echo.NewHTTPError(http.StatusConflict, "slot already booked")
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrDuplicate):
		return echo.NewHTTPError(http.StatusBadRequest, "already exists")
	case errors.Is(err, service.ErrBadToken):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
}

// parseDate accepts plain dates and RFC 3339 timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
