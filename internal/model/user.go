package model

import "time"

type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleDoctor  Role = "Doctor"
	RolePatient Role = "Patient"
)

type DoctorStatus string

const (
	DoctorStatusPending  DoctorStatus = "Pending"
	DoctorStatusApproved DoctorStatus = "Approved"
	DoctorStatusRejected DoctorStatus = "Rejected"
)

type User struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	PasswordHash   string       `json:"-"`
	Role           Role         `json:"role"`
	Specialization string       `json:"specialization,omitempty"`
	Status         DoctorStatus `json:"status,omitempty"` // doctors only
	IsVerified     bool         `json:"is_verified"`
	VerifyToken    *string      `json:"-"`
	VerifyExpires  *time.Time   `json:"-"`
	ResetToken     *string      `json:"-"`
	ResetExpires   *time.Time   `json:"-"`
	CreatedAt      time.Time    `json:"created_at"`
}
