package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"rental-service/internal/apperr"
	"rental-service/internal/model"
	"rental-service/internal/repository"
	"rental-service/pkg/config"
	"rental-service/pkg/jwtutil"
	"rental-service/pkg/mailer"
)

// commonPasswords is a short deny list checked case-insensitively on top of
// the length and not-all-digits rules.
var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"passw0rd":   {},
	"12345678":   {},
	"123456789":  {},
	"1234567890": {},
	"qwerty123":  {},
	"qwertyuiop": {},
	"letmein1":   {},
	"iloveyou":   {},
	"admin123":   {},
	"welcome1":   {},
	"sunshine":   {},
	"football":   {},
	"princess":   {},
	"dragon123":  {},
}

// IdentityService owns account lifecycle: signup with email verification,
// activation, credential checks, and the password reset/change flows.
type IdentityService struct {
	users  repository.UserRepo
	verify *VerificationService
	mail   mailer.Sender
	policy config.PasswordConfig
	log    *zap.Logger
}

func NewIdentity(users repository.UserRepo, verify *VerificationService, mail mailer.Sender, policy config.PasswordConfig, log *zap.Logger) *IdentityService {
	return &IdentityService{
		users:  users,
		verify: verify,
		mail:   mail,
		policy: policy,
		log:    log,
	}
}

// SignupInput carries the registration form fields.
type SignupInput struct {
	Role       model.Role `json:"role"`
	Username   string     `json:"username"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Password   string     `json:"password"`
	RePassword string     `json:"re_password"`
}

// Signup validates the registration form, creates an inactive account, and
// dispatches a signup verification code by email. The mail send happens only
// after the user and code rows are committed, so an aborted signup never
// emails a code.
func (s *IdentityService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	if !in.Role.Valid() {
		return nil, apperr.Validation("unknown role %q", in.Role)
	}
	if in.Username == "" {
		return nil, apperr.Validation("username is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, apperr.Validation("invalid email address")
	}
	if n := len(in.Phone); n < 13 || n > 15 {
		return nil, apperr.Validation("phone number must be 13 to 15 characters")
	}
	if in.Password != in.RePassword {
		return nil, apperr.ErrPasswordMismatch
	}
	if err := s.checkPasswordPolicy(in.Password); err != nil {
		return nil, err
	}

	if taken, err := s.users.EmailTaken(ctx, in.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.Validation("email already registered")
	}
	if taken, err := s.users.PhoneTaken(ctx, in.Phone); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.Validation("phone already registered")
	}
	if _, err := s.users.ByUsername(ctx, in.Username); err == nil {
		return nil, apperr.Validation("username already taken")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		ID:        uuid.New(),
		Role:      in.Role,
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Password:  string(hash),
		IsActive:  false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	code, err := s.verify.Issue(ctx, &user.ID, model.PurposeSignup, nil)
	if err != nil {
		return nil, err
	}

	s.dispatch(user.Email, "Verify your account", "signup_verification", map[string]string{
		"name": user.FullName(),
		"code": code.Code,
	})
	return user, nil
}

// Activate flips is_active on the account the signup code points to, then
// consumes the code. Orphan codes (user deleted after issuance) fail the
// same way a wrong code does.
func (s *IdentityService) Activate(ctx context.Context, code string) (*model.User, error) {
	rec, err := s.verify.Validate(ctx, code, model.PurposeSignup, nil)
	if err != nil {
		return nil, err
	}
	if rec.UserID == nil {
		return nil, apperr.ErrInvalidCode
	}
	user, err := s.users.ByID(ctx, *rec.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrInvalidCode
		}
		return nil, err
	}

	user.IsActive = true
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	// Consume only after the activation is persisted; a crash in between
	// leaves the code pending and the retry is a harmless re-activation.
	if err := s.verify.Consume(ctx, rec.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate resolves the identifier as username, then phone, then email,
// and verifies the password before the activation flag so an inactive
// account is indistinguishable from a wrong password until the credentials
// are correct.
func (s *IdentityService) Authenticate(ctx context.Context, identifier, password string) (*model.User, string, error) {
	user, err := s.lookupIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperr.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperr.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", apperr.ErrNotActivated
	}

	token, err := jwtutil.GenerateToken(user.Email, user.ID.String(), string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("generating token: %w", err)
	}
	return user, token, nil
}

func (s *IdentityService) lookupIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	if user, err := s.users.ByUsername(ctx, identifier); err == nil {
		return user, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if user, err := s.users.ByPhone(ctx, identifier); err == nil {
		return user, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.users.ByEmail(ctx, identifier)
}

// RequestPasswordReset issues a reset code scoped to the given email and
// dispatches it. The scope snapshot means a later email change on the
// account does not invalidate or re-target the code.
func (s *IdentityService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}

	code, err := s.verify.Issue(ctx, &user.ID, model.PurposeResetPassword, &email)
	if err != nil {
		return err
	}
	s.dispatch(email, "Reset your password", "password_reset", map[string]string{
		"name": user.FullName(),
		"code": code.Code,
	})
	return nil
}

// ResetPassword validates the code within the email scope, enforces the
// password policy, sets the new password, and consumes the code.
func (s *IdentityService) ResetPassword(ctx context.Context, email, code, newPassword, repeat string) error {
	rec, err := s.verify.Validate(ctx, code, model.PurposeResetPassword, &email)
	if err != nil {
		return err
	}
	if newPassword != repeat {
		return apperr.ErrPasswordMismatch
	}
	if err := s.checkPasswordPolicy(newPassword); err != nil {
		return err
	}
	if rec.UserID == nil {
		return apperr.ErrInvalidCode
	}
	user, err := s.users.ByID(ctx, *rec.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrInvalidCode
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	user.Password = string(hash)
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	return s.verify.Consume(ctx, rec.ID)
}

// ChangePassword verifies the old password and applies the new one.
func (s *IdentityService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, repeat string) error {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apperr.ErrWrongPassword
	}
	if newPassword != repeat {
		return apperr.ErrPasswordMismatch
	}
	if err := s.checkPasswordPolicy(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	user.Password = string(hash)
	return s.users.Save(ctx, user)
}

// ProfileInput carries the editable profile fields. Empty fields are left
// unchanged.
type ProfileInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// UpdateProfile applies the non-empty fields, re-checking phone uniqueness.
func (s *IdentityService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*model.User, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.FirstName != "" {
		user.FirstName = in.FirstName
	}
	if in.LastName != "" {
		user.LastName = in.LastName
	}
	if in.Phone != "" && in.Phone != user.Phone {
		if n := len(in.Phone); n < 13 || n > 15 {
			return nil, apperr.Validation("phone number must be 13 to 15 characters")
		}
		if taken, err := s.users.PhoneTaken(ctx, in.Phone); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.Validation("phone already registered")
		}
		user.Phone = in.Phone
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Profile returns the account for the authenticated user.
func (s *IdentityService) Profile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *IdentityService) checkPasswordPolicy(password string) error {
	if len(password) < s.policy.MinLength {
		return apperr.Validation("password must be at least %d characters", s.policy.MinLength)
	}
	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return apperr.Validation("password cannot be entirely numeric")
	}
	if _, common := commonPasswords[strings.ToLower(password)]; common {
		return apperr.Validation("password is too common")
	}
	return nil
}

// dispatch sends a notification email and logs failures without surfacing
// them; the authoritative state change has already committed.
func (s *IdentityService) dispatch(to, subject, template string, ctx map[string]string) {
	if err := s.mail.Send(to, subject, template, ctx); err != nil {
		s.log.Error("mail dispatch failed",
			zap.String("template", template),
			zap.String("to", to),
			zap.Error(err))
	}
}
