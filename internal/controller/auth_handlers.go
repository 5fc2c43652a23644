package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinixnote/backend/internal/model"
)

type signupRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

func (ct *Controller) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Role == "" {
		req.Role = model.RolePatient
	}
	if err := ct.auth.Signup(c.Request().Context(), req.Name, req.Email, req.Password, req.Role); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Signup successful. Please check your email to verify your account.",
	})
}

func (ct *Controller) VerifyEmail(c echo.Context) error {
	if err := ct.auth.VerifyEmail(c.Request().Context(), c.Param("token")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Email verified. You can now log in."})
}

type loginRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

func (ct *Controller) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	token, user, err := ct.auth.Login(c.Request().Context(), req.Email, req.Password, req.Role)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  user,
	})
}

func (ct *Controller) ForgotPassword(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.auth.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Reset link sent if the account exists."})
}

func (ct *Controller) ResetPassword(c echo.Context) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.auth.ResetPassword(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password updated."})
}

type addDoctorRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Specialization string `json:"specialization"`
}

func (ct *Controller) AddDoctor(c echo.Context) error {
	var req addDoctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	user, err := ct.auth.AddDoctor(c.Request().Context(), req.Name, req.Email, req.Password, req.Specialization)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (ct *Controller) Me(c echo.Context) error {
	user, err := ct.auth.GetUser(c.Request().Context(), userID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (ct *Controller) TotalPatients(c echo.Context) error {
	count, err := ct.auth.CountByRole(c.Request().Context(), model.RolePatient)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": count})
}

func (ct *Controller) TotalDoctors(c echo.Context) error {
	count, err := ct.auth.CountByRole(c.Request().Context(), model.RoleDoctor)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": count})
}
