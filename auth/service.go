// Package auth implements the credential flow: registration, login and
// token issuance for both site users and administrators.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goldenaqar/marketplace/backend/models"
	"github.com/goldenaqar/marketplace/backend/utils"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const minPasswordLen = 6

var (
	// ErrInvalidCredentials covers both "no such user" and "wrong
	// password" so account existence cannot be probed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrUserNotFound       = errors.New("user not found")
)

// Credential is the stored identity a UserStore resolves an email to.
type Credential struct {
	ID           string
	Email        string
	PasswordHash string
}

// UserStore is the persistent credential lookup behind the auth flow.
type UserStore interface {
	// FindByEmail returns ErrUserNotFound when no record exists.
	FindByEmail(ctx context.Context, email string) (*Credential, error)
	Insert(ctx context.Context, user *models.User) error
}

// Service runs login and registration against a UserStore and issues
// tokens carrying the configured role.
type Service struct {
	users UserStore
	role  string
}

func NewService(users UserStore, role string) *Service {
	return &Service{users: users, role: role}
}

type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
}

// Login verifies the supplied credentials and returns the user id, email
// and a session token. Lookup miss and hash mismatch are indistinguishable
// to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*Credential, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}

	cred, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			log.Errorf("Credential lookup failed for %s: %v", email, err)
		}
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, cred.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(cred.ID, cred.Email, s.role)
	if err != nil {
		log.Errorf("Token generation failed for %s: %v", email, err)
		return nil, "", err
	}

	log.Infof("Login: %s", cred.Email)
	return cred, token, nil
}

// Register validates the input, creates the user record and establishes a
// session identical to a successful login.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	in.Email = normalizeEmail(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, "", ErrMissingCredentials
	}
	if in.Password != in.ConfirmPassword {
		return nil, "", ErrPasswordMismatch
	}
	if len(in.Password) < minPasswordLen {
		return nil, "", ErrPasswordTooShort
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, "", ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		log.Errorf("Duplicate check failed for %s: %v", in.Email, err)
		return nil, "", ErrRegistrationFailed
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		log.Errorf("Password hashing failed: %v", err)
		return nil, "", ErrRegistrationFailed
	}

	user := &models.User{
		UserID:       uuid.NewString(),
		Email:        in.Email,
		PasswordHash: hashed,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Insert(ctx, user); err != nil {
		log.Errorf("User insert failed for %s: %v", in.Email, err)
		return nil, "", ErrRegistrationFailed
	}

	token, err := utils.GenerateJWT(user.UserID, user.Email, s.role)
	if err != nil {
		log.Errorf("Token generation failed for %s: %v", in.Email, err)
		return nil, "", err
	}

	log.Infof("Registered: %s", user.Email)
	return user, token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
