package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goldenaqar/marketplace/backend/auth"
	log "github.com/sirupsen/logrus"
)

type ContextKey string

const (
	UserIDKey    = ContextKey("userID")
	UserEmailKey = ContextKey("userEmail")
	UserRoleKey  = ContextKey("userRole")
)

type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token,omitempty"`
	User    interface{} `json:"user,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionUser is the sanitized user shape returned by login: the stored
// credential never leaves the server.
type sessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func RegisterUser(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in auth.RegisterInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			log.Warnf("Error decoding registration payload: %v", err)
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}

		user, token, err := svc.Register(r.Context(), in)
		if err != nil {
			status := registrationStatus(err)
			http.Error(w, err.Error(), status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(AuthResponse{
			Message: "User registered successfully",
			Token:   token,
			User:    user,
		})
	}
}

func LoginUser(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds loginRequest
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			log.Warnf("Error decoding login payload: %v", err)
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		cred, token, err := svc.Login(r.Context(), creds.Email, creds.Password)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrMissingCredentials):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, auth.ErrInvalidCredentials):
				http.Error(w, err.Error(), http.StatusUnauthorized)
			default:
				http.Error(w, "Login failed", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(AuthResponse{
			Message: "Login successful",
			Token:   token,
			User:    sessionUser{ID: cred.ID, Email: cred.Email},
		})
	}
}

func registrationStatus(err error) int {
	switch {
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, auth.ErrMissingCredentials),
		errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, auth.ErrPasswordTooShort):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
