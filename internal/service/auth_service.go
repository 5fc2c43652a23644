package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinixnote/backend/internal/model"
)

// AuthService covers signup, login, email verification, password reset and
// the doctor application/approval flow.
type AuthService struct {
	users       UserStore
	mailer      Mailer
	jwtSecret   string
	frontendURL string
	logger      *zap.Logger
}

func NewAuthService(users UserStore, mailer Mailer, jwtSecret, frontendURL string, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:       users,
		mailer:      mailer,
		jwtSecret:   jwtSecret,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

const verifyTokenTTL = 10 * time.Minute

// Signup registers a patient (or doctor with credentials) and mails the
// verification link.
func (s *AuthService) Signup(ctx context.Context, name, email, password string, role model.Role) error {
	if name == "" || email == "" || password == "" {
		return validationf("name, email and password are required")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return validationf("user already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	token, err := randomToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(verifyTokenTTL)

	user := &model.User{
		Name:          name,
		Email:         email,
		PasswordHash:  string(hash),
		Role:          role,
		VerifyToken:   &token,
		VerifyExpires: &expires,
	}
	if role == model.RoleDoctor {
		user.Status = model.DoctorStatusPending
	}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	s.logger.Info("user signed up", zap.Int64("user_id", user.ID), zap.String("role", string(role)))

	s.sendVerification(ctx, user, token)
	return nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *model.User, token string) {
	subject := "Verify your email for ClinixNote"
	body := fmt.Sprintf(`<h2>Hello %s, welcome to ClinixNote</h2>
<p>Click the link below to verify your email:</p>
<a href="%s/verify-email/%s">Verify Email</a>`, user.Name, s.frontendURL, token)

	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		s.logger.Warn("verification email failed",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
	}
}

// VerifyEmail consumes a verification token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.users.GetByVerifyToken(ctx, token)
	if err != nil {
		return err
	}
	if user == nil {
		return validationf("invalid or expired token")
	}
	return s.users.MarkVerified(ctx, user.ID)
}

// Login authenticates and returns a signed token plus the user.
func (s *AuthService) Login(ctx context.Context, email, password string, role model.Role) (string, *model.User, error) {
	user, err := s.users.GetByEmailAndRole(ctx, email, role)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, validationf("invalid credentials")
	}
	if user.Role == model.RoleDoctor && user.Status == model.DoctorStatusPending {
		return "", nil, validationf("your application is still pending approval by admin")
	}
	if !user.IsVerified {
		return "", nil, validationf("please verify your email before logging in")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, validationf("invalid credentials")
	}

	token, err := MakeToken(user.ID, user.Role, s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

// ForgotPassword issues a reset token and mails the reset link. An unknown
// email is reported as a validation error, matching the original behavior.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return validationf("no account with that email")
	}

	token, err := randomToken()
	if err != nil {
		return err
	}
	if err := s.users.SetResetToken(ctx, user.ID, token, time.Now().Add(verifyTokenTTL)); err != nil {
		return err
	}

	subject := "Reset your ClinixNote password"
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>Click the link below to reset your password:</p>
<a href="%s/reset-password/%s">Reset Password</a>`, user.Name, s.frontendURL, token)

	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		s.logger.Warn("reset email failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if password == "" {
		return validationf("password is required")
	}
	user, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		return err
	}
	if user == nil {
		return validationf("invalid or expired token")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, user.ID, string(hash))
}

// ApplyDoctor files a doctor application: a pending doctor account without
// credentials.
func (s *AuthService) ApplyDoctor(ctx context.Context, name, email, specialization string) error {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return validationf("email already used")
	}

	token, err := randomToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(time.Hour)

	doctor := &model.User{
		Name:           name,
		Email:          email,
		Role:           model.RoleDoctor,
		Specialization: specialization,
		Status:         model.DoctorStatusPending,
		VerifyToken:    &token,
		VerifyExpires:  &expires,
	}
	if err := s.users.Create(ctx, doctor); err != nil {
		return err
	}

	s.logger.Info("doctor application filed", zap.Int64("doctor_id", doctor.ID))
	return nil
}

// PendingApplications lists doctor applications awaiting a decision.
func (s *AuthService) PendingApplications(ctx context.Context) ([]*model.User, error) {
	return s.users.ListByRole(ctx, model.RoleDoctor, model.DoctorStatusPending)
}

// ApprovedDoctors lists the doctors patients may book with.
func (s *AuthService) ApprovedDoctors(ctx context.Context) ([]*model.User, error) {
	return s.users.ListByRole(ctx, model.RoleDoctor, model.DoctorStatusApproved)
}

// ApproveDoctor sets the doctor's initial password, approves the account
// and mails the verification link.
func (s *AuthService) ApproveDoctor(ctx context.Context, id int64, password string) error {
	doctor, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doctor == nil {
		return ErrNotFound
	}
	if doctor.Status != model.DoctorStatusPending {
		return validationf("doctor already processed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.Approve(ctx, id, string(hash)); err != nil {
		return err
	}

	s.logger.Info("doctor approved", zap.Int64("doctor_id", id))

	token := ""
	if doctor.VerifyToken != nil {
		token = *doctor.VerifyToken
	}
	subject := "ClinixNote Doctor Account Verification"
	body := fmt.Sprintf(`<h2>Welcome Dr. %s</h2>
<p>Your application has been approved. Please verify your email to activate your account:</p>
<a href="%s/verify-email/%s">Verify Email</a>`, doctor.Name, s.frontendURL, token)

	if err := s.mailer.Send(ctx, doctor.Email, subject, body); err != nil {
		s.logger.Warn("approval email failed", zap.Int64("doctor_id", id), zap.Error(err))
	}
	return nil
}

// DeclineDoctor removes a pending application.
func (s *AuthService) DeclineDoctor(ctx context.Context, id int64) error {
	doctor, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doctor == nil {
		return ErrNotFound
	}
	if doctor.Status != model.DoctorStatusPending {
		return validationf("doctor already processed")
	}
	return s.users.Delete(ctx, id)
}

// AddDoctor lets an admin create an approved, verified doctor directly.
func (s *AuthService) AddDoctor(ctx context.Context, name, email, password, specialization string) (*model.User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, validationf("email already used")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	doctor := &model.User{
		Name:           name,
		Email:          email,
		PasswordHash:   string(hash),
		Role:           model.RoleDoctor,
		Specialization: specialization,
		Status:         model.DoctorStatusApproved,
		IsVerified:     true,
	}
	if err := s.users.Create(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *AuthService) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	return s.users.CountByRole(ctx, role)
}

// SeedSuperAdmin creates the bootstrap admin account when none exists.
func (s *AuthService) SeedSuperAdmin(ctx context.Context, email, password string) error {
	count, err := s.users.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	admin := &model.User{
		Name:         "Super Admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		IsVerified:   true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("super admin seeded", zap.String("email", email))
	return nil
}
